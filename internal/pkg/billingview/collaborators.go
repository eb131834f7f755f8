package billingview

import (
	"context"
	"sync"
	"time"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/billing"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/notify"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/upgrade"
)

// Clipboard receives text the user asked to copy.
type Clipboard interface {
	WriteText(text string) error
}

// Navigator opens a URL in a new browsing context.
type Navigator interface {
	Open(url string) error
}

// BillingSource supplies snapshots and records confirmed upgrades.
type BillingSource interface {
	Snapshot(ctx context.Context, userID uint) (billing.Snapshot, error)
	RecordUpgrade(ctx context.Context, userID uint, rec billing.UpgradeRecord) (billing.Plan, error)
}

// Upgrader runs the plan upgrade transaction flow.
type Upgrader interface {
	Run(ctx context.Context, req upgrade.Request, n notify.Notifier) (*upgrade.Receipt, error)
}

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// PendingText is a Clipboard and Navigator for server rendered pages: it
// keeps the last written value until the next render takes it.
type PendingText struct {
	mu   sync.Mutex
	text string
}

func (p *PendingText) WriteText(text string) error {
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
	return nil
}

func (p *PendingText) Open(url string) error {
	return p.WriteText(url)
}

// Take returns and clears the pending value.
func (p *PendingText) Take() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	text := p.text
	p.text = ""
	return text
}

// Outbox collects what actions produced for the next page render: toasts,
// text to copy and a URL to open.
type Outbox struct {
	Notes     *notify.Buffer
	Clipboard *PendingText
	Navigate  *PendingText
}

func NewOutbox() *Outbox {
	return &Outbox{
		Notes:     notify.NewBuffer(),
		Clipboard: &PendingText{},
		Navigate:  &PendingText{},
	}
}
