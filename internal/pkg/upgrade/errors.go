package upgrade

import (
	"errors"
	"fmt"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
)

var (
	ErrWalletUnavailable   = errors.New("wallet not connected")
	ErrAuthorizationDenied = errors.New("wallet authorization denied")
	ErrSubmissionRejected  = errors.New("transaction submission rejected")
	ErrConfirmationFailed  = errors.New("transaction confirmation failed")
	ErrDuplicateSubmission = errors.New("upgrade already submitted")
)

const (
	MsgWalletUnavailable = "Ethereum wallet is not connected. Please connect your wallet and try again."
	MsgUpgradeFailed     = "Failed to upgrade plan. Please try again."
	MsgDuplicate         = "This upgrade was already submitted. Please wait for it to complete."
	MsgConfirming        = "Confirming transaction..."
)

// Error is returned by Flow.Run. errors.Is matches both Kind and the cause.
type Error struct {
	Kind error
	Plan billing.UpgradePlan
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upgrade to %s: %v", e.Plan, e.Kind)
	}
	return fmt.Sprintf("upgrade to %s: %v: %v", e.Plan, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage is the toast text shown for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrWalletUnavailable):
		return MsgWalletUnavailable
	case errors.Is(err, ErrDuplicateSubmission):
		return MsgDuplicate
	default:
		return MsgUpgradeFailed
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrWalletUnavailable):
		return "wallet_unavailable"
	case errors.Is(err, ErrAuthorizationDenied):
		return "authorization_denied"
	case errors.Is(err, ErrSubmissionRejected):
		return "submission_rejected"
	case errors.Is(err, ErrConfirmationFailed):
		return "confirmation_failed"
	case errors.Is(err, ErrDuplicateSubmission):
		return "duplicate"
	default:
		return "error"
	}
}
