package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestUpgradeAttemptCounts(t *testing.T) {
	before := testutil.ToFloat64(upgradeAttempts.WithLabelValues("premium", "success"))
	UpgradeAttempt("premium", "success")
	after := testutil.ToFloat64(upgradeAttempts.WithLabelValues("premium", "success"))

	assert.Equal(t, before+1, after)
}

func TestReferralShareCounts(t *testing.T) {
	before := testutil.ToFloat64(referralShares.WithLabelValues("twitter"))
	ReferralShare("twitter")
	assert.Equal(t, before+1, testutil.ToFloat64(referralShares.WithLabelValues("twitter")))
}
