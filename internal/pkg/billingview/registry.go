package billingview

import (
	"context"
	"sync"
	"time"
)

const DefaultIdleTTL = 30 * time.Minute

// Factory builds the controller of a user on first access.
type Factory func(user User) *Controller

// Registry keeps one Controller per signed-in user.
type Registry struct {
	mu          sync.Mutex
	controllers map[uint]*Controller
	idleTTL     time.Duration
	factory     Factory
}

func NewRegistry(idleTTL time.Duration, factory Factory) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{
		controllers: make(map[uint]*Controller),
		idleTTL:     idleTTL,
		factory:     factory,
	}
}

// Get returns the controller of user, creating it if needed. created is true
// for a new controller whose snapshot still has to be loaded.
func (r *Registry) Get(user User) (ctrl *Controller, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctrl, ok := r.controllers[user.ID]; ok {
		return ctrl, false
	}
	ctrl = r.factory(user)
	r.controllers[user.ID] = ctrl
	return ctrl, true
}

// Remove drops the controller of a user, for example on logout.
func (r *Registry) Remove(userID uint) {
	r.mu.Lock()
	ctrl, ok := r.controllers[userID]
	delete(r.controllers, userID)
	r.mu.Unlock()

	if ok {
		ctrl.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Sweep evicts controllers idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	var evicted []*Controller
	for id, ctrl := range r.controllers {
		if ctrl.idleBefore(cutoff) {
			evicted = append(evicted, ctrl)
			delete(r.controllers, id)
		}
	}
	r.mu.Unlock()

	for _, ctrl := range evicted {
		ctrl.Close()
	}
	return len(evicted)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}
