package viewmodel

import "github.com/ManuelReschke/BlockHolder/internal/pkg/feedback"

type Feedback struct {
	Layout
	Form            feedback.Form
	MissingFields   []string
	Error           string
	HCaptchaSiteKey string
}

// Missing reports whether field was reported empty.
func (f Feedback) Missing(field string) bool {
	for _, m := range f.MissingFields {
		if m == field {
			return true
		}
	}
	return false
}
