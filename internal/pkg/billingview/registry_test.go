package billingview

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestRegistry(ttl time.Duration) *Registry {
	return NewRegistry(ttl, func(u User) *Controller {
		return NewController(u, Deps{Scheduler: &fakeScheduler{}, Log: zerolog.Nop()})
	})
}

func TestRegistryReturnsSameController(t *testing.T) {
	r := newTestRegistry(time.Minute)

	a, created := r.Get(User{ID: 1})
	assert.True(t, created)
	b, created := r.Get(User{ID: 1})
	assert.False(t, created)
	assert.Same(t, a, b)

	c, _ := r.Get(User{ID: 2})
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestRegistrySweepEvictsIdle(t *testing.T) {
	r := newTestRegistry(time.Minute)
	r.Get(User{ID: 1})

	assert.Equal(t, 0, r.Sweep(time.Now()))
	assert.Equal(t, 1, r.Len())

	assert.Equal(t, 1, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepKeepsPendingUpgrade(t *testing.T) {
	r := newTestRegistry(time.Minute)
	ctrl, _ := r.Get(User{ID: 1})
	ctrl.mu.Lock()
	ctrl.upgradePending = true
	ctrl.mu.Unlock()

	assert.Equal(t, 0, r.Sweep(time.Now().Add(time.Hour)))
}

func TestRegistryRemove(t *testing.T) {
	r := newTestRegistry(0)
	r.Get(User{ID: 1})
	r.Remove(1)
	r.Remove(99)

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, DefaultIdleTTL, r.idleTTL)
}

func TestOutboxBacksCollaborators(t *testing.T) {
	out := NewOutbox()
	ctrl := NewController(User{ID: 1, PublicID: "p1"}, Deps{
		Outbox:    out,
		Scheduler: &fakeScheduler{},
		BaseURL:   "https://blockholder.com/",
		Log:       zerolog.Nop(),
	})
	defer ctrl.Close()

	assert.NoError(t, ctrl.CopyReferralLink())
	ok, err := ctrl.ShareReferral("facebook")
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.Same(t, out, ctrl.Outbox())
	assert.Equal(t, "https://blockholder.com/?ref=p1", out.Clipboard.Take())
	assert.Equal(t, "", out.Clipboard.Take(), "Take clears the pending text")
	assert.Contains(t, out.Navigate.Take(), "https://www.facebook.com/sharer/sharer.php?u=")
}
