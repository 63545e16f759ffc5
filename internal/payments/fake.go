package payments

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arkade-dev/storefront-api/internal/apperr"

	"github.com/google/uuid"
)

// Fake stands in for the real gateway. It hands out well-formed intents and
// remembers them, which is enough for local runs and for asserting that order
// creation never leaks an intent.
type Fake struct {
	mu        sync.Mutex
	intents   map[string]Intent
	cancelled map[string]bool

	// CreateErr, when set, makes every CreateIntent fail with it.
	CreateErr error
}

func NewFake() *Fake {
	return &Fake{
		intents:   make(map[string]Intent),
		cancelled: make(map[string]bool),
	}
}

func (f *Fake) CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return Intent{}, f.CreateErr
	}
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	in := Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.NewString()[:8]),
		AmountCents:  amountCents,
		Currency:     currency,
	}
	f.intents[id] = in
	return in, nil
}

func (f *Fake) CancelIntent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.intents[id]; !ok {
		return apperr.NotFoundf("no payment intent with id %s", id)
	}
	f.cancelled[id] = true
	return nil
}

// Created reports how many intents were issued.
func (f *Fake) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.intents)
}

// Cancelled reports whether the given intent was voided.
func (f *Fake) Cancelled(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled[id]
}

// Outstanding reports intents issued and never cancelled.
func (f *Fake) Outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id := range f.intents {
		if !f.cancelled[id] {
			n++
		}
	}
	return n
}
