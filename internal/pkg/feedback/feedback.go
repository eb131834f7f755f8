// Package feedback validates and submits the feedback form.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/metrics"
)

var ErrMissingField = errors.New("missing required field")

// ValidationError lists the required fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingField
}

// Form is bound from the HTML form and the JSON API alike.
type Form struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required"`
	Feedback string `form:"feedback" json:"feedback" validate:"required"`
}

// Record is what gets handed to the gateway.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Feedback    string    `json:"feedback"`
	UserID      *uint     `json:"user_id,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionGateway accepts a feedback record.
type SubmissionGateway interface {
	Submit(ctx context.Context, rec Record) error
}

var validate = validator.New()

// Controller owns the form fields between submit attempts.
type Controller struct {
	Form   Form
	UserID *uint

	gateway SubmissionGateway
	now     func() time.Time
	log     zerolog.Logger
}

func NewController(gateway SubmissionGateway, log zerolog.Logger) *Controller {
	return &Controller{
		gateway: gateway,
		now:     time.Now,
		log:     log.With().Str("component", "feedback").Logger(),
	}
}

// Submit validates the form and hands it to the gateway. The fields are
// cleared only after the gateway accepted the record.
func (c *Controller) Submit(ctx context.Context) error {
	if err := c.validate(); err != nil {
		metrics.FeedbackSubmission("invalid")
		return err
	}

	rec := Record{
		ID:          uuid.NewString(),
		Name:        c.Form.Name,
		Email:       c.Form.Email,
		Feedback:    c.Form.Feedback,
		UserID:      c.UserID,
		SubmittedAt: c.now().UTC(),
	}
	if err := c.gateway.Submit(ctx, rec); err != nil {
		metrics.FeedbackSubmission("error")
		c.log.Error().Err(err).Str("feedback_id", rec.ID).Msg("feedback submission failed")
		return fmt.Errorf("submit feedback: %w", err)
	}

	metrics.FeedbackSubmission("success")
	c.log.Info().Str("feedback_id", rec.ID).Msg("feedback submitted")
	c.Form = Form{}
	return nil
}

func (c *Controller) validate() error {
	trimmed := Form{
		Name:     strings.TrimSpace(c.Form.Name),
		Email:    strings.TrimSpace(c.Form.Email),
		Feedback: strings.TrimSpace(c.Form.Feedback),
	}
	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &ValidationError{Fields: fields}
}
