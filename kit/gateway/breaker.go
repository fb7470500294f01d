package gateway

import (
	"context"
	"errors"
	"sync"
	"time"
)

type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
	IsFailure        func(error) bool
}

// CheckoutBreaker wraps a CheckoutGateway with a circuit breaker shared by
// Initialize and Verify. While open, calls fail fast with ErrCircuitOpen so a
// struggling provider does not stall initiation or reconciliation.
type CheckoutBreaker struct {
	next CheckoutGateway
	cfg  BreakerConfig

	mu           sync.Mutex
	state        int
	failures     int
	successes    int
	openedAt     time.Time
	halfInFlight bool
}

const (
	cbClosed = iota
	cbOpen
	cbHalfOpen
)

func NewCheckoutBreaker(next CheckoutGateway, cfg BreakerConfig) *CheckoutBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 2 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool {
			return errors.Is(err, ErrTimeout) || errors.Is(err, ErrServer) || errors.Is(err, context.DeadlineExceeded)
		}
	}
	return &CheckoutBreaker{next: next, cfg: cfg, state: cbClosed}
}

func (b *CheckoutBreaker) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	if err := b.beforeCall(); err != nil {
		return nil, err
	}
	resp, err := b.next.Initialize(ctx, req)
	b.afterCall(err)
	return resp, err
}

func (b *CheckoutBreaker) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	if err := b.beforeCall(); err != nil {
		return nil, err
	}
	resp, err := b.next.Verify(ctx, reference)
	b.afterCall(err)
	return resp, err
}

func (b *CheckoutBreaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case cbClosed:
		return nil
	case cbOpen:
		if time.Since(b.openedAt) >= b.cfg.OpenTimeout {
			b.state = cbHalfOpen
			b.successes = 0
			b.halfInFlight = false
		} else {
			return ErrCircuitOpen
		}
		fallthrough
	case cbHalfOpen:
		if b.halfInFlight {
			return ErrCircuitOpen
		}
		b.halfInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

func (b *CheckoutBreaker) afterCall(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == cbHalfOpen {
		b.halfInFlight = false
	}

	if err == nil {
		switch b.state {
		case cbClosed:
			b.failures = 0
		case cbHalfOpen:
			b.successes++
			if b.successes >= b.cfg.SuccessThreshold {
				b.state = cbClosed
				b.failures = 0
				b.successes = 0
			}
		}
		return
	}

	if !b.cfg.IsFailure(err) {
		return
	}

	switch b.state {
	case cbClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.state = cbOpen
			b.openedAt = time.Now().UTC()
			b.successes = 0
			b.halfInFlight = false
		}
	case cbHalfOpen:
		b.state = cbOpen
		b.openedAt = time.Now().UTC()
		b.failures = b.cfg.FailureThreshold
		b.successes = 0
		b.halfInFlight = false
	}
}
