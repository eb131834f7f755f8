package billing

import (
	"math/big"
	"testing"
	"unsafe"

	"github.com/shopspring/decimal"
)

func TestParseUpgradePlan(t *testing.T) {
	for _, id := range []string{"basic", "premium", "enterprise"} {
		got, err := ParseUpgradePlan(id)
		if err != nil {
			t.Fatalf("ParseUpgradePlan(%q) returned error: %v", id, err)
		}
		if string(got) != id {
			t.Fatalf("ParseUpgradePlan(%q) = %q", id, got)
		}
	}
	for _, id := range []string{"", "pro", "Premium", "premium_max"} {
		if _, err := ParseUpgradePlan(id); err != ErrUnknownPlan {
			t.Fatalf("ParseUpgradePlan(%q) error = %v, want ErrUnknownPlan", id, err)
		}
	}
}

func TestParseUpgradePlanDetachesFromInput(t *testing.T) {
	// fasthttp hands out strings backed by reusable request buffers.
	buf := []byte("premium")
	id := unsafe.String(&buf[0], len(buf))

	got, err := ParseUpgradePlan(id)
	if err != nil {
		t.Fatalf("ParseUpgradePlan returned error: %v", err)
	}
	copy(buf, "goldcxx")
	if got != UpgradePremium {
		t.Fatalf("plan changed with its source buffer: %q", got)
	}
}

func TestUpgradeFee(t *testing.T) {
	tests := []struct {
		plan UpgradePlan
		want string
	}{
		{plan: UpgradeBasic, want: "0"},
		{plan: UpgradePremium, want: "0.01"},
		{plan: UpgradeEnterprise, want: "0.05"},
	}
	for _, tt := range tests {
		got, err := UpgradeFee(tt.plan)
		if err != nil {
			t.Fatalf("UpgradeFee(%q) returned error: %v", tt.plan, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("UpgradeFee(%q) = %s, want %s", tt.plan, got, tt.want)
		}
	}
}

func TestToWei(t *testing.T) {
	want, _ := new(big.Int).SetString("10000000000000000", 10)
	if got := ToWei(decimal.RequireFromString("0.01")); got.Cmp(want) != 0 {
		t.Fatalf("ToWei(0.01) = %s, want %s", got, want)
	}
	if got := ToWei(decimal.Zero); got.Sign() != 0 {
		t.Fatalf("ToWei(0) = %s, want 0", got)
	}
	if got := FromWei(want); !got.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("FromWei round trip = %s", got)
	}
}

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "Basic", want: PlanBasic},
		{in: "premium", want: PlanPremium},
		{in: " ENTERPRISE ", want: PlanEnterprise},
		{in: "invalid", want: PlanBasic},
	}

	for _, tt := range tests {
		if got := normalizePlan(tt.in); got != tt.want {
			t.Fatalf("normalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlanRank(t *testing.T) {
	if planRank(PlanBasic) >= planRank(PlanPremium) {
		t.Fatalf("expected premium to outrank basic")
	}
	if planRank(PlanPremium) >= planRank(PlanEnterprise) {
		t.Fatalf("expected enterprise to outrank premium")
	}
	if !IsUpgrade(PlanPremium, UpgradeEnterprise) || IsUpgrade(PlanPremium, UpgradeBasic) {
		t.Fatalf("unexpected IsUpgrade result")
	}
}

func TestIsEntitlingStatus(t *testing.T) {
	if !isEntitlingStatus(StatusActive) {
		t.Fatalf("expected active to be entitling")
	}
	for _, status := range []Status{StatusPaused, StatusCancelled} {
		if isEntitlingStatus(status) {
			t.Fatalf("expected status %q to be non-entitling", status)
		}
	}
}
