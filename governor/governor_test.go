package governor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/datar-psa/chatmod/api"
	"github.com/datar-psa/chatmod/internal/testutils"
)

func newTestGovernor(clock *testutils.Clock) *Governor {
	g := New(slog.Default(), WithClock(clock.Now))
	g.Register("primary", Limits{
		Window:        time.Minute,
		Ceiling:       3,
		ShortCooldown: time.Minute,
		LongCooldown:  time.Hour,
	})
	return g
}

func TestGovernor_CeilingAndLazyWindowReset(t *testing.T) {
	req := require.New(t)
	clock := testutils.NewClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	g := newTestGovernor(clock)

	for i := 0; i < 3; i++ {
		req.True(g.Acquire("primary"), "call %d", i)
	}
	req.False(g.PermitCall("primary"))
	req.False(g.Acquire("primary"))

	// Still inside the window
	clock.Advance(59 * time.Second)
	req.False(g.PermitCall("primary"))

	// Window elapsed: counter resets on the next check
	clock.Advance(time.Second)
	req.True(g.PermitCall("primary"))
	state, ok := g.Snapshot("primary")
	req.True(ok)
	req.Equal(0, state.CallCount)
	req.Equal(clock.Now(), state.WindowStart)
}

func TestGovernor_PermitDoesNotConsume(t *testing.T) {
	req := require.New(t)
	clock := testutils.NewClock(time.Now())
	g := newTestGovernor(clock)

	for i := 0; i < 10; i++ {
		req.True(g.PermitCall("primary"))
	}
	g.RecordCall("primary")
	state, _ := g.Snapshot("primary")
	req.Equal(1, state.CallCount)
}

func TestGovernor_RecordFailureCooldowns(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind ErrorKind
		cooling  time.Duration
	}{
		{
			name:     "HTTP 429 starts the short cooldown",
			err:      &api.ProviderError{Provider: "openai", StatusCode: 429, Message: "slow down"},
			wantKind: KindRateLimited,
			cooling:  time.Minute,
		},
		{
			name:     "quota text starts the short cooldown",
			err:      fmt.Errorf("generate: %w", errors.New("RESOURCE_EXHAUSTED: Quota exceeded for metric")),
			wantKind: KindRateLimited,
			cooling:  time.Minute,
		},
		{
			name:     "HTTP 403 starts the long cooldown",
			err:      &api.ProviderError{Provider: "gemini", StatusCode: 403, Message: "forbidden"},
			wantKind: KindDisabled,
			cooling:  time.Hour,
		},
		{
			name:     "service disabled text starts the long cooldown",
			err:      errors.New("Generative Language API has not been used in project 123 before or it is disabled"),
			wantKind: KindDisabled,
			cooling:  time.Hour,
		},
		{
			name:     "malformed reply is transient",
			err:      errors.New("could not parse reply"),
			wantKind: KindTransient,
		},
		{
			name:     "timeout is transient",
			err:      fmt.Errorf("call: %w", context.DeadlineExceeded),
			wantKind: KindTransient,
		},
		{
			name:     "server error is transient",
			err:      &api.ProviderError{Provider: "openai", StatusCode: 503, Message: "unavailable"},
			wantKind: KindTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			clock := testutils.NewClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
			g := newTestGovernor(clock)

			req.Equal(tt.wantKind, g.RecordFailure("primary", tt.err))

			if tt.wantKind == KindTransient {
				req.True(g.PermitCall("primary"))
				req.False(g.Cooling("primary"))
				return
			}

			req.True(g.Cooling("primary"))
			req.False(g.PermitCall("primary"))
			state, _ := g.Snapshot("primary")
			req.NotNil(state.QuotaExceededUntil)
			req.Equal(clock.Now().Add(tt.cooling), *state.QuotaExceededUntil)

			clock.Advance(tt.cooling - time.Second)
			req.False(g.PermitCall("primary"))

			// Cooldown expiry is checked lazily, no probe state
			clock.Advance(time.Second)
			req.False(g.Cooling("primary"))
			req.True(g.PermitCall("primary"))
		})
	}
}

func TestGovernor_UnknownProviderUsesDefaults(t *testing.T) {
	req := require.New(t)
	g := New(nil)

	for i := 0; i < DefaultLimits().Ceiling; i++ {
		req.True(g.Acquire("unregistered"))
	}
	req.False(g.Acquire("unregistered"))
}

func TestGovernor_ConcurrentAcquireNeverExceedsCeiling(t *testing.T) {
	req := require.New(t)
	clock := testutils.NewClock(time.Now())
	g := newTestGovernor(clock)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Acquire("primary") {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	req.Equal(int32(3), granted.Load())
}
