// Package billingview holds the per-user state of the billing dashboard:
// the pricing toggle, the modal flags and the upgrade selection.
package billingview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/metrics"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/notify"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/pricing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/upgrade"
)

// CopiedResetDelay is how long the "copied" flag stays set.
const CopiedResetDelay = 2000 * time.Millisecond

// MsgUpgradeNotRecorded replaces the success toast when a confirmed payment
// could not be stored.
const MsgUpgradeNotRecorded = "Your payment was confirmed but the plan change could not be saved. Please contact support."

var (
	ErrNoPlanSelected     = errors.New("no upgrade plan selected")
	ErrUpgradePending     = errors.New("an upgrade is already in progress")
	ErrUnknownPaymentKind = errors.New("unknown payment method kind")
)

// Deps are the collaborators of a Controller. Billing and Upgrader may be
// nil in tests that do not touch them. Clipboard and Navigator fall back to
// the Outbox, or to a private PendingText when neither is given.
type Deps struct {
	Billing   BillingSource
	Upgrader  Upgrader
	Clipboard Clipboard
	Navigator Navigator
	Notifier  notify.Notifier
	Scheduler Scheduler
	BaseURL   string
	Log       zerolog.Logger

	// Outbox, when set, backs any of Notifier, Clipboard and Navigator
	// left nil.
	Outbox *Outbox
}

// Controller is safe for concurrent use.
type Controller struct {
	deps Deps
	user User
	log  zerolog.Logger

	mu         sync.Mutex
	snapshot   billing.Snapshot
	annual     bool
	lastActive time.Time

	upgradeOpen    bool
	upgradeToken   string
	selection      *UpgradeSelection
	upgradePending bool

	paymentOpen bool
	paymentKind PaymentKind

	referralOpen bool
	copied       bool
	copiedTimer  Timer
	copyGen      uint64

	calculatorOpen bool
}

func NewController(user User, deps Deps) *Controller {
	if o := deps.Outbox; o != nil {
		if deps.Notifier == nil {
			deps.Notifier = o.Notes
		}
		if deps.Clipboard == nil {
			deps.Clipboard = o.Clipboard
		}
		if deps.Navigator == nil {
			deps.Navigator = o.Navigate
		}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard{}
	}
	if deps.Clipboard == nil {
		deps.Clipboard = &PendingText{}
	}
	if deps.Navigator == nil {
		deps.Navigator = &PendingText{}
	}
	if deps.Scheduler == nil {
		deps.Scheduler = RealScheduler
	}
	return &Controller{
		deps:        deps,
		user:        user,
		log:         deps.Log.With().Str("component", "billingview").Uint("user_id", user.ID).Logger(),
		paymentKind: PaymentCreditCard,
		lastActive:  time.Now(),
	}
}

// Outbox returns the outbox given in Deps, or nil.
func (c *Controller) Outbox() *Outbox {
	return c.deps.Outbox
}

// Refresh reloads the snapshot from the billing source.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.deps.Billing == nil {
		return nil
	}
	snap, err := c.deps.Billing.Snapshot(ctx, c.user.ID)
	if err != nil {
		return fmt.Errorf("load billing snapshot: %w", err)
	}
	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
	return nil
}

func (c *Controller) SetAnnual(annual bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.annual = annual
}

// Tiers returns the catalog priced for the current toggle.
func (c *Controller) Tiers() []pricing.Displayed {
	c.mu.Lock()
	annual := c.annual
	c.mu.Unlock()
	return pricing.DisplayTiers(annual)
}

// OpenUpgradeModal opens the dialog with a fresh idempotency token.
func (c *Controller) OpenUpgradeModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.upgradeOpen = true
	c.upgradeToken = uuid.NewString()
	c.selection = nil
}

func (c *Controller) CloseUpgradeModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.closeUpgradeLocked()
}

func (c *Controller) closeUpgradeLocked() {
	c.upgradeOpen = false
	c.selection = nil
	c.upgradeToken = ""
}

// SelectUpgradePlan stores the choice without applying it. Unknown ids leave
// the current selection unchanged.
func (c *Controller) SelectUpgradePlan(id string) error {
	plan, err := billing.ParseUpgradePlan(id)
	if err != nil {
		return fmt.Errorf("select %q: %w", id, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if c.upgradeToken == "" {
		c.upgradeToken = uuid.NewString()
	}
	c.selection = &UpgradeSelection{Plan: plan, Token: c.upgradeToken}
	return nil
}

// ConfirmUpgrade runs the upgrade flow for the current selection. The modal
// is closed afterwards whatever the outcome.
func (c *Controller) ConfirmUpgrade(ctx context.Context) (*upgrade.Receipt, error) {
	c.mu.Lock()
	c.touch()
	if c.upgradePending {
		c.mu.Unlock()
		return nil, ErrUpgradePending
	}
	if c.selection == nil {
		c.closeUpgradeLocked()
		c.mu.Unlock()
		return nil, ErrNoPlanSelected
	}
	sel := *c.selection
	c.upgradePending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.upgradePending = false
		c.closeUpgradeLocked()
		c.mu.Unlock()
	}()

	if c.deps.Upgrader == nil {
		c.deps.Notifier.Error(upgrade.MsgWalletUnavailable)
		return nil, &upgrade.Error{Kind: upgrade.ErrWalletUnavailable, Plan: sel.Plan}
	}

	receipt, err := c.deps.Upgrader.Run(ctx, upgrade.Request{
		UserID:         c.user.ID,
		Plan:           sel.Plan,
		IdempotencyKey: sel.Token,
	}, c.deps.Notifier)
	if err != nil {
		return nil, err
	}

	if c.deps.Billing != nil {
		rec := billing.UpgradeRecord{
			Plan:     receipt.Plan,
			TxHash:   receipt.TxHash.Hex(),
			From:     receipt.From.Hex(),
			ValueETH: receipt.ValueETH,
		}
		if _, err := c.deps.Billing.RecordUpgrade(ctx, c.user.ID, rec); err != nil {
			c.log.Error().Err(err).Str("tx_hash", rec.TxHash).Msg("confirmed upgrade could not be recorded")
			c.deps.Notifier.Error(MsgUpgradeNotRecorded)
			return receipt, fmt.Errorf("record upgrade: %w", err)
		}
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn().Err(err).Msg("refresh after upgrade")
		}
	}
	return receipt, nil
}

func (c *Controller) OpenAddPaymentModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.paymentOpen = true
}

func (c *Controller) CloseAddPaymentModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.paymentOpen = false
}

func (c *Controller) SetPaymentMethodKind(kind string) error {
	var k PaymentKind
	switch kind {
	case string(PaymentCreditCard):
		k = PaymentCreditCard
	case string(PaymentPayPal):
		k = PaymentPayPal
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPaymentKind, kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.paymentKind = k
	return nil
}

// SubmitPaymentMethod records the intent only; card data is handled by a
// payment processor, not here.
func (c *Controller) SubmitPaymentMethod() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.log.Info().Str("kind", string(c.paymentKind)).Msg("adding new payment method")
	metrics.PaymentMethodIntent(string(c.paymentKind))
	c.paymentOpen = false
}

func (c *Controller) OpenReferralModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.referralOpen = true
}

func (c *Controller) CloseReferralModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.referralOpen = false
}

// ReferralLink is <base-url>/?ref=<user id>.
func (c *Controller) ReferralLink() string {
	return billing.ReferralLink(c.deps.BaseURL, c.user.PublicID)
}

// CopyReferralLink writes the link to the clipboard and sets the copied flag
// for CopiedResetDelay. A repeated copy restarts the delay.
func (c *Controller) CopyReferralLink() error {
	if err := c.deps.Clipboard.WriteText(c.ReferralLink()); err != nil {
		return fmt.Errorf("copy referral link: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.copied = true
	if c.copiedTimer != nil {
		c.copiedTimer.Stop()
	}
	c.copyGen++
	gen := c.copyGen
	c.copiedTimer = c.deps.Scheduler.AfterFunc(CopiedResetDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A timer that fired while being replaced must not clear the new flag.
		if c.copyGen != gen {
			return
		}
		c.copied = false
		c.copiedTimer = nil
	})
	return nil
}

// ShareReferral opens the share intent for platform. Unsupported platforms
// are ignored and report false.
func (c *Controller) ShareReferral(platform string) (bool, error) {
	p, ok := billing.ParseSharePlatform(platform)
	if !ok {
		return false, nil
	}
	shareURL, _ := billing.ShareURL(p, c.ReferralLink())
	c.mu.Lock()
	c.touch()
	c.mu.Unlock()

	if err := c.deps.Navigator.Open(shareURL); err != nil {
		return false, fmt.Errorf("open share url: %w", err)
	}
	metrics.ReferralShare(string(p))
	return true, nil
}

func (c *Controller) OpenCalculator() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.calculatorOpen = true
}

func (c *Controller) CloseCalculator() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.calculatorOpen = false
}

// State returns a copy of the current state.
func (c *Controller) State() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Page:           PageDashboard,
		User:           c.user,
		Snapshot:       cloneSnapshot(c.snapshot),
		Annual:         c.annual,
		Tiers:          pricing.DisplayTiers(c.annual),
		UpgradeOpen:    c.upgradeOpen,
		UpgradeToken:   c.upgradeToken,
		UpgradePending: c.upgradePending,
		UpgradePlans:   append([]billing.UpgradePlan(nil), billing.UpgradePlans...),
		PaymentOpen:    c.paymentOpen,
		PaymentKind:    c.paymentKind,
		ReferralOpen:   c.referralOpen,
		ReferralLink:   billing.ReferralLink(c.deps.BaseURL, c.user.PublicID),
		Copied:         c.copied,
		CalculatorOpen: c.calculatorOpen,
	}
	if c.selection != nil {
		sel := *c.selection
		v.Selection = &sel
	}
	return v
}

// Close stops the pending copied timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.copiedTimer != nil {
		c.copiedTimer.Stop()
		c.copiedTimer = nil
	}
	c.copyGen++
}

// idleBefore reports whether the controller was last used before cutoff and
// has no upgrade in flight.
func (c *Controller) idleBefore(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.upgradePending && c.lastActive.Before(cutoff)
}

// touch must be called with mu held.
func (c *Controller) touch() {
	c.lastActive = time.Now()
}
