package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"github.com/rs/zerolog"

	"github.com/ManuelReschke/BlockHolder/app/models"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/archive"
)

// Archiver stores a copy of a submitted record.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type Mailer interface {
	Send(to, subject, body string) error
}

// StoreGateway persists feedback and then archives and announces it. Only
// the database write decides success; archive and mail are best effort.
type StoreGateway struct {
	repo     Repository
	archive  Archiver
	mailer   Mailer
	notifyTo string
	log      zerolog.Logger
}

// NewStoreGateway accepts nil archive and mailer to skip those steps.
func NewStoreGateway(repo Repository, archive Archiver, mailer Mailer, notifyTo string, log zerolog.Logger) *StoreGateway {
	return &StoreGateway{
		repo:     repo,
		archive:  archive,
		mailer:   mailer,
		notifyTo: notifyTo,
		log:      log.With().Str("component", "feedback-gateway").Logger(),
	}
}

func (g *StoreGateway) Submit(ctx context.Context, rec Record) error {
	fb := &models.Feedback{
		UUID:        rec.ID,
		Name:        rec.Name,
		Email:       rec.Email,
		Message:     rec.Feedback,
		UserID:      rec.UserID,
		SubmittedAt: rec.SubmittedAt,
	}
	if err := g.repo.Create(ctx, fb); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	if g.archive != nil {
		body, err := json.Marshal(rec)
		if err == nil {
			err = g.archive.Put(ctx, archive.FeedbackKey(rec.ID, rec.SubmittedAt), body, "application/json")
		}
		if err != nil {
			g.log.Warn().Err(err).Str("feedback_id", rec.ID).Msg("feedback archive failed")
		}
	}

	if g.mailer != nil && g.notifyTo != "" {
		if err := g.mailer.Send(g.notifyTo, "New feedback from "+rec.Name, notificationBody(rec)); err != nil {
			g.log.Warn().Err(err).Str("feedback_id", rec.ID).Msg("feedback notification failed")
		}
	}
	return nil
}

func notificationBody(rec Record) string {
	return fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt; wrote:</p><p>%s</p><p><small>%s</small></p>",
		html.EscapeString(rec.Name),
		html.EscapeString(rec.Email),
		html.EscapeString(rec.Feedback),
		rec.ID,
	)
}
