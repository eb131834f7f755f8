package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ManuelReschke/BlockHolder/app/models"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/pricing"
)

const transactionHistoryLimit = 12

// defaultUsageLimits apply to users without stored usage rows.
var defaultUsageLimits = map[Plan]map[string]int{
	PlanBasic:      {"transactions": 100, "portfolios": 1},
	PlanPremium:    {"transactions": 500, "portfolios": 10},
	PlanEnterprise: {"transactions": 5000, "portfolios": 100},
}

// Service loads billing snapshots and records confirmed plan changes.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "billing").Logger(), now: time.Now}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, log zerolog.Logger) *Service {
	return NewService(NewRepository(db), log)
}

// Snapshot assembles the billing snapshot of a user. Users without a
// subscription row get the free Basic plan.
func (s *Service) Snapshot(ctx context.Context, userID uint) (Snapshot, error) {
	_ = ctx
	if userID == 0 {
		return Snapshot{}, errors.New("user_id is required")
	}

	snap := Snapshot{
		CurrentPlan:  PlanBasic,
		BillingCycle: CycleMonthly,
		Status:       StatusActive,
		Cost:         decimal.Zero,
		UsageLimits:  map[string]Usage{},
	}

	sub, err := s.repo.GetSubscription(userID)
	switch {
	case err == nil:
		snap.CurrentPlan = normalizePlan(sub.Plan)
		snap.BillingCycle = Cycle(sub.BillingCycle)
		snap.Status = Status(sub.Status)
		snap.Cost = sub.Cost
		if sub.NextBillingDate != nil {
			snap.NextBillingDate = *sub.NextBillingDate
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return Snapshot{}, fmt.Errorf("load subscription: %w", err)
	}

	if tier, ok := pricing.TierByName(string(snap.CurrentPlan)); ok {
		snap.Features = tier.Features
	}

	usage, err := s.repo.ListUsage(userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load usage: %w", err)
	}
	for resource, limit := range defaultUsageLimits[snap.CurrentPlan] {
		snap.UsageLimits[resource] = Usage{Limit: limit}
	}
	for _, u := range usage {
		snap.UsageLimits[u.Resource] = Usage{Used: u.Used, Limit: u.Limit}
	}

	methods, err := s.repo.ListPaymentMethods(userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load payment methods: %w", err)
	}
	for _, m := range methods {
		snap.PaymentMethods = append(snap.PaymentMethods, PaymentMethod{Type: m.Type, Last4: m.Last4, Expiry: m.Expiry})
	}

	txs, err := s.repo.ListTransactions(userID, transactionHistoryLimit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load transactions: %w", err)
	}
	for _, tx := range txs {
		snap.Transactions = append(snap.Transactions, Transaction{Date: tx.CreatedAt, Amount: tx.Amount, Method: tx.Method})
	}

	ref, err := s.repo.GetReferral(userID)
	switch {
	case err == nil:
		snap.Referral = Referral{Count: ref.Count, Earnings: ref.Earnings, Visits: ref.VisitCount}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return Snapshot{}, fmt.Errorf("load referral: %w", err)
	}

	return snap, nil
}

// RecordUpgrade stores a confirmed on-chain plan change and reconciles the
// user's plan.
func (s *Service) RecordUpgrade(ctx context.Context, userID uint, rec UpgradeRecord) (Plan, error) {
	if userID == 0 {
		return "", errors.New("user_id is required")
	}
	if strings.TrimSpace(rec.TxHash) == "" {
		return "", errors.New("tx_hash is required")
	}
	plan := rec.Plan.Plan()

	cost := decimal.Zero
	if tier, ok := pricing.TierByName(string(plan)); ok && !tier.IsFree() {
		cost = *tier.MonthlyPrice
	}
	var next *time.Time
	if !cost.IsZero() {
		t := s.now().AddDate(0, 1, 0)
		next = &t
	}

	sub := &models.BillingSubscription{
		UserID:          userID,
		Plan:            string(plan),
		BillingCycle:    string(CycleMonthly),
		Status:          string(StatusActive),
		Cost:            cost,
		NextBillingDate: next,
		LastTxHash:      rec.TxHash,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return "", fmt.Errorf("upsert subscription: %w", err)
	}

	if err := s.repo.CreateTransaction(&models.BillingTransaction{
		UserID:   userID,
		Plan:     string(plan),
		Amount:   rec.ValueETH,
		Currency: "ETH",
		Method:   walletMethodLabel(rec.From),
		TxHash:   rec.TxHash,
	}); err != nil {
		return "", fmt.Errorf("store transaction: %w", err)
	}

	s.log.Info().Uint("user_id", userID).Str("plan", string(plan)).Str("tx_hash", rec.TxHash).Msg("plan upgrade recorded")
	return s.ReconcileUserPlan(ctx, userID)
}

// ReconcileUserPlan computes and writes the effective plan for a user.
func (s *Service) ReconcileUserPlan(ctx context.Context, userID uint) (Plan, error) {
	_ = ctx
	if userID == 0 {
		return "", errors.New("user_id is required")
	}

	best := PlanBasic
	sub, err := s.repo.GetSubscription(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if err == nil && isEntitlingStatus(Status(sub.Status)) && planRank(Plan(sub.Plan)) > planRank(best) {
		best = normalizePlan(sub.Plan)
	}

	current, err := s.repo.GetUserPlan(userID)
	if err != nil {
		return "", err
	}
	if normalizePlan(current) == best {
		return best, nil
	}
	if err := s.repo.SetUserPlan(userID, string(best)); err != nil {
		return "", err
	}
	return best, nil
}

func walletMethodLabel(from string) string {
	if len(from) < 6 {
		return "Wallet"
	}
	return "Wallet (*" + from[len(from)-4:] + ")"
}
