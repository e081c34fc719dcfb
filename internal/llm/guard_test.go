package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/codecritic/internal/contract"
)

func TestGuardPassesThrough(t *testing.T) {
	m := &MockGenerator{}
	m.On("Generate", mock.Anything, "hello", mock.Anything).Return("world", nil)

	g := NewGuard(m, 2)
	out, err := g.Generate(context.Background(), "hello", contract.GenerateOptions{Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "world", out)
	assert.True(t, g.Available())
	assert.Equal(t, "mock", g.Name())
	m.AssertExpectations(t)
}

func TestGuardAppliesTimeout(t *testing.T) {
	m := &MockGenerator{}
	m.On("Generate", mock.Anything, "slow", mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
		}).
		Return("", context.DeadlineExceeded)

	g := NewGuard(m, 1)
	_, err := g.Generate(context.Background(), "slow", contract.GenerateOptions{Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.Equal(t, KindTimeout, Classify(err).Kind)
}

func TestGuardOpensBreaker(t *testing.T) {
	m := &MockGenerator{}
	m.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("upstream broke"))

	g := NewGuard(m, 1)
	for range breakerFailureThreshold {
		_, err := g.Generate(context.Background(), "p", contract.GenerateOptions{})
		require.Error(t, err)
	}

	_, err := g.Generate(context.Background(), "p", contract.GenerateOptions{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, KindUnavailable, Classify(err).Kind)
	m.AssertNumberOfCalls(t, "Generate", breakerFailureThreshold)
}

// slowGenerator records the peak number of concurrent calls.
type slowGenerator struct {
	active atomic.Int32
	peak   atomic.Int32
}

func (s *slowGenerator) Generate(context.Context, string, contract.GenerateOptions) (string, error) {
	n := s.active.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	s.active.Add(-1)
	return "ok", nil
}

func (s *slowGenerator) Available() bool { return true }

func (s *slowGenerator) Name() string { return "slow" }

func TestGuardLimitsConcurrency(t *testing.T) {
	s := &slowGenerator{}
	g := NewGuard(s, 2)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Generate(context.Background(), "p", contract.GenerateOptions{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, s.peak.Load(), int32(2))
}
