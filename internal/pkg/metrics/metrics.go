// Package metrics exposes the prometheus counters of the billing pages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blockholder"

var (
	upgradeAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upgrade_attempts_total",
		Help:      "Plan upgrade attempts by plan and outcome.",
	}, []string{"plan", "outcome"})

	feedbackSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submissions_total",
		Help:      "Feedback form submissions by outcome.",
	}, []string{"outcome"})

	referralShares = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "referral_shares_total",
		Help:      "Referral share actions by platform.",
	}, []string{"platform"})

	paymentMethodIntents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_method_intents_total",
		Help:      "Add payment method submissions by kind.",
	}, []string{"kind"})
)

func UpgradeAttempt(plan, outcome string) {
	upgradeAttempts.WithLabelValues(plan, outcome).Inc()
}

func FeedbackSubmission(outcome string) {
	feedbackSubmissions.WithLabelValues(outcome).Inc()
}

func ReferralShare(platform string) {
	referralShares.WithLabelValues(platform).Inc()
}

func PaymentMethodIntent(kind string) {
	paymentMethodIntents.WithLabelValues(kind).Inc()
}
