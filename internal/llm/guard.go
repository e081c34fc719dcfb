package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/logging"
)

// Circuit breaker settings for model calls.
const (
	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
	breakerHalfOpenRequests = 1
)

// Guard bounds concurrent model calls, applies the per-call timeout and
// stops calling a failing provider until the breaker half-opens.
type Guard struct {
	next    contract.Generator
	sem     *semaphore.Weighted
	breaker *gobreaker.CircuitBreaker[string]
}

var _ contract.Generator = &Guard{} // Compile-time check

// NewGuard wraps next. maxConcurrent below 1 is treated as 1.
func NewGuard(next contract.Generator, maxConcurrent int) *Guard {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	log := logging.WithComponent("llm")
	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: breakerHalfOpenRequests,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &Guard{
		next:    next,
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Generate waits for a slot, then calls the wrapped generator through the breaker.
func (g *Guard) Generate(ctx context.Context, prompt string, opts contract.GenerateOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for model slot: %w", err)
	}
	defer g.sem.Release(1)

	return g.breaker.Execute(func() (string, error) {
		return g.next.Generate(ctx, prompt, opts)
	})
}

// Available delegates to the wrapped generator.
func (g *Guard) Available() bool { return g.next.Available() }

// Name delegates to the wrapped generator.
func (g *Guard) Name() string { return g.next.Name() }
