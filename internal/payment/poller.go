package payment

import (
	"context"
	"errors"
	"time"

	"tour-booking-platform/internal/models"
)

const (
	defaultPollInterval = 3 * time.Second
	maxPollInterval     = 30 * time.Second
)

// Poller verifies a pending payment on an interval with exponential backoff,
// stopping at the confirmation deadline or when the context is cancelled.
type Poller struct {
	conf    *Confirmation
	initial time.Duration
	max     time.Duration
}

// NewPoller creates a poller over an active confirmation. Zero intervals get
// the defaults.
func NewPoller(conf *Confirmation, initial, max time.Duration) *Poller {
	if initial <= 0 {
		initial = defaultPollInterval
	}
	if max <= 0 {
		max = maxPollInterval
	}
	if max < initial {
		max = initial
	}
	return &Poller{conf: conf, initial: initial, max: max}
}

// Run polls until the payment settles, the window expires, or ctx is done.
// It returns the state the confirmation ended in. Verify failures (network
// blips) are absorbed and retried on the next tick.
func (p *Poller) Run(ctx context.Context, token string) (State, error) {
	interval := p.initial

	for {
		if state := p.conf.State(); state != StateAwaitingPayment {
			return state, nil
		}

		wait := interval
		if remaining := p.conf.Remaining(); remaining > 0 && remaining < wait {
			wait = remaining
		}

		select {
		case <-ctx.Done():
			return p.conf.State(), ctx.Err()
		case <-time.After(wait):
		}

		state, err := p.conf.Verify(ctx, token)
		if err != nil {
			if errors.Is(err, models.ErrSessionExpired) {
				return StateExpired, nil
			}
			// Transient verify failure; back off and try again.
		}
		if state == StateCompleted || state == StateCancelled {
			return state, nil
		}

		interval *= 2
		if interval > p.max {
			interval = p.max
		}
	}
}
