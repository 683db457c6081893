package service

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer blocks between candidates to keep the request rate polite
type Pacer interface {
	Wait(ctx context.Context) error
}

type randomPacer struct {
	min time.Duration
	max time.Duration
}

// NewRandomPacer sleeps a uniformly random duration in [min, max]
func NewRandomPacer(min, max time.Duration) Pacer {
	return &randomPacer{min: min, max: max}
}

func (p *randomPacer) Wait(ctx context.Context) error {
	delay := p.next()
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *randomPacer) next() time.Duration {
	if p.max <= p.min {
		return p.min
	}
	return p.min + rand.N(p.max-p.min+1)
}
