package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayPriceAnnualIsTenMonths(t *testing.T) {
	for _, tier := range Tiers() {
		if tier.IsFree() {
			continue
		}
		monthly := DisplayPrice(tier, false)
		annual := DisplayPrice(tier, true)

		assert.True(t, monthly.Amount.Equal(*tier.MonthlyPrice), tier.Name)
		assert.True(t, annual.Amount.Equal(tier.MonthlyPrice.Mul(decimal.NewFromInt(10))), tier.Name)
		assert.Equal(t, PeriodMonth, monthly.Period)
		assert.Equal(t, PeriodYear, annual.Period)
	}
}

func TestDisplayPriceFreeTierStaysFree(t *testing.T) {
	basic, ok := TierByName("basic")
	require.True(t, ok)

	assert.Equal(t, "Free", DisplayPrice(basic, false).Label())
	assert.Equal(t, "Free", DisplayPrice(basic, true).Label())
}

func TestDisplayPriceDoesNotMutateCatalog(t *testing.T) {
	before, _ := TierByName("Premium")
	_ = DisplayTiers(true)
	after, _ := TierByName("Premium")

	assert.True(t, before.MonthlyPrice.Equal(*after.MonthlyPrice))
	assert.Equal(t, "$3", DisplayPrice(after, false).Label())
	assert.Equal(t, "$30", DisplayPrice(after, true).Label())
}

func TestTiersReturnsCopies(t *testing.T) {
	tiers := Tiers()
	tiers[1].Features[0] = "changed"
	*tiers[1].MonthlyPrice = decimal.NewFromInt(99)

	premium, _ := TierByName("Premium")
	assert.Equal(t, "Advanced Investment Options", premium.Features[0])
	assert.Equal(t, "3", premium.MonthlyPrice.String())
}

func TestFAQ(t *testing.T) {
	assert.Len(t, FAQ(), 7)
}
