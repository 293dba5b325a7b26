// Package ratelimit enforces a per-venue request weight budget, mirroring
// the weight accounting exchanges apply server-side.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter tracks a weight budget that refills continuously over a period.
// Each endpoint consumes its advertised weight from the budget.
type Limiter struct {
	limiter *rate.Limiter
	budget  int
	period  time.Duration
}

// New creates a Limiter allowing budget weight units per period.
func New(budget int, period time.Duration) *Limiter {
	per := float64(budget) / period.Seconds()
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(per), budget),
		budget:  budget,
		period:  period,
	}
}

// Wait blocks until weight units are available or ctx is done. A weight
// larger than the whole budget can never be satisfied and errors
// immediately.
func (l *Limiter) Wait(ctx context.Context, weight int) error {
	if weight > l.budget {
		return fmt.Errorf("weight %d exceeds budget %d", weight, l.budget)
	}
	return l.limiter.WaitN(ctx, weight)
}

// Allow reports whether weight units are immediately available, consuming
// them when they are.
func (l *Limiter) Allow(weight int) bool {
	if weight > l.budget {
		return false
	}
	return l.limiter.AllowN(time.Now(), weight)
}

// Budget returns the configured weight budget per period.
func (l *Limiter) Budget() int {
	return l.budget
}
