// Package upgrade submits plan upgrades as on-chain value transfers through
// an external wallet provider.
package upgrade

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/metrics"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/notify"
)

const (
	DefaultConfirmTimeout = 3 * time.Minute
	DefaultCooldown       = 10 * time.Minute
)

// TransferRequest is a plain value transfer.
type TransferRequest struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

// Confirmation is the mined result of a transaction.
type Confirmation struct {
	BlockNumber uint64
	Success     bool
}

// Wallet is the wallet-provider collaborator.
type Wallet interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	SendTransaction(ctx context.Context, req TransferRequest) (common.Hash, error)
	WaitConfirmed(ctx context.Context, hash common.Hash) (*Confirmation, error)
}

// Guard rejects repeated submissions of the same idempotency key.
type Guard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Request struct {
	UserID         uint
	Plan           billing.UpgradePlan
	IdempotencyKey string
}

type Receipt struct {
	Plan        billing.UpgradePlan
	TxHash      common.Hash
	From        common.Address
	To          common.Address
	Value       *big.Int
	ValueETH    decimal.Decimal
	BlockNumber uint64
}

type Config struct {
	Recipient      common.Address
	ConfirmTimeout time.Duration
	Cooldown       time.Duration
}

// Flow runs plan upgrades. A nil wallet means no wallet provider is
// available.
type Flow struct {
	wallet Wallet
	guard  Guard
	cfg    Config
	log    zerolog.Logger
}

func NewFlow(wallet Wallet, guard Guard, cfg Config, log zerolog.Logger) *Flow {
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = DefaultConfirmTimeout
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	return &Flow{
		wallet: wallet,
		guard:  guard,
		cfg:    cfg,
		log:    log.With().Str("component", "upgrade").Logger(),
	}
}

// Run authorizes, submits and awaits one transfer for req.Plan. Every failure
// is reported to n and returned as *Error; nothing is retried.
func (f *Flow) Run(ctx context.Context, req Request, n notify.Notifier) (*Receipt, error) {
	if n == nil {
		n = notify.Discard{}
	}
	receipt, err := f.run(ctx, req, n)
	metrics.UpgradeAttempt(string(req.Plan), outcome(err))
	if err != nil {
		f.log.Error().Err(err).Uint("user_id", req.UserID).Str("plan", string(req.Plan)).Msg("plan upgrade failed")
		n.Error(UserMessage(err))
		return nil, err
	}

	f.log.Info().
		Uint("user_id", req.UserID).
		Str("plan", string(req.Plan)).
		Str("tx_hash", receipt.TxHash.Hex()).
		Msg("plan upgrade confirmed")
	n.Success(fmt.Sprintf("Successfully upgraded to %s plan!", req.Plan))
	return receipt, nil
}

func (f *Flow) run(ctx context.Context, req Request, n notify.Notifier) (*Receipt, error) {
	fail := func(kind, cause error) error {
		return &Error{Kind: kind, Plan: req.Plan, Err: cause}
	}

	if f.wallet == nil {
		return nil, fail(ErrWalletUnavailable, nil)
	}

	fee, err := billing.UpgradeFee(req.Plan)
	if err != nil {
		return nil, fail(ErrSubmissionRejected, err)
	}

	guardKey := f.guardKey(req)
	if f.guard != nil {
		ok, err := f.guard.Acquire(ctx, guardKey, f.cfg.Cooldown)
		if err != nil {
			// Without the guard a duplicate could not be detected, so refuse.
			return nil, fail(ErrSubmissionRejected, fmt.Errorf("idempotency guard: %w", err))
		}
		if !ok {
			return nil, fail(ErrDuplicateSubmission, nil)
		}
	}
	// Until a transaction is out, the key may be reused.
	submitted := false
	defer func() {
		if !submitted && f.guard != nil {
			if err := f.guard.Release(context.WithoutCancel(ctx), guardKey); err != nil {
				f.log.Warn().Err(err).Str("key", guardKey).Msg("release idempotency key")
			}
		}
	}()

	accounts, err := f.wallet.RequestAccounts(ctx)
	if err != nil {
		return nil, fail(ErrAuthorizationDenied, err)
	}
	if len(accounts) == 0 {
		return nil, fail(ErrAuthorizationDenied, fmt.Errorf("wallet returned no accounts"))
	}
	from := accounts[0]

	loading := n.Loading(MsgConfirming)
	defer n.Dismiss(loading)

	transfer := TransferRequest{From: from, To: f.cfg.Recipient, Value: billing.ToWei(fee)}
	hash, err := f.wallet.SendTransaction(ctx, transfer)
	if err != nil {
		return nil, fail(ErrSubmissionRejected, err)
	}
	submitted = true

	waitCtx, cancel := context.WithTimeout(ctx, f.cfg.ConfirmTimeout)
	defer cancel()
	conf, err := f.wallet.WaitConfirmed(waitCtx, hash)
	if err != nil {
		return nil, fail(ErrConfirmationFailed, err)
	}
	if conf == nil || !conf.Success {
		return nil, fail(ErrConfirmationFailed, fmt.Errorf("transaction %s reverted", hash.Hex()))
	}

	return &Receipt{
		Plan:        req.Plan,
		TxHash:      hash,
		From:        from,
		To:          transfer.To,
		Value:       transfer.Value,
		ValueETH:    billing.FromWei(transfer.Value),
		BlockNumber: conf.BlockNumber,
	}, nil
}

func (f *Flow) guardKey(req Request) string {
	key := req.IdempotencyKey
	if key == "" {
		key = string(req.Plan)
	}
	return fmt.Sprintf("upgrade:idem:%d:%s", req.UserID, key)
}
