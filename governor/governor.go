package governor

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/datar-psa/chatmod/api"
)

// ErrorKind classifies a provider failure by its effect on provider state
type ErrorKind int

const (
	// KindTransient failures (network, timeout, malformed reply) leave the provider eligible
	KindTransient ErrorKind = iota
	// KindRateLimited failures (quota, HTTP 429) start the short cooldown
	KindRateLimited
	// KindDisabled failures (permission denied, service not enabled, HTTP 403) start the long cooldown
	KindDisabled
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindDisabled:
		return "disabled"
	default:
		return "transient"
	}
}

// Limits configures the rate window and cooldowns of one provider
type Limits struct {
	// Window is the length of a rate-limit window
	Window time.Duration
	// Ceiling is the number of calls permitted per window
	Ceiling int
	// ShortCooldown applies to rate-limit and quota errors
	ShortCooldown time.Duration
	// LongCooldown applies to permission and service-disabled errors
	LongCooldown time.Duration
}

// DefaultLimits returns 15 calls per minute, a 60s short cooldown and a one hour long cooldown
func DefaultLimits() Limits {
	return Limits{
		Window:        time.Minute,
		Ceiling:       15,
		ShortCooldown: time.Minute,
		LongCooldown:  time.Hour,
	}
}

// State is a snapshot of one provider's counters
type State struct {
	CallCount          int
	WindowStart        time.Time
	QuotaExceededUntil *time.Time
}

type providerState struct {
	limits             Limits
	callCount          int
	windowStart        time.Time
	quotaExceededUntil time.Time
}

// Governor tracks calls-per-window and cooldowns for each remote provider.
// All methods are safe for concurrent use.
type Governor struct {
	mu     sync.Mutex
	states map[string]*providerState
	now    func() time.Time
	log    *slog.Logger
}

// Option configures a Governor
type Option func(*Governor)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(g *Governor) {
		g.now = now
	}
}

// New creates a Governor with no registered providers
func New(log *slog.Logger, opts ...Option) *Governor {
	if log == nil {
		log = slog.Default()
	}
	g := &Governor{
		states: make(map[string]*providerState),
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register sets the limits of a provider, resetting its counters
func (g *Governor) Register(provider string, limits Limits) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.states[provider] = &providerState{limits: limits, windowStart: g.now()}
}

// PermitCall reports whether provider may be called now.
// It does not consume a slot; use Acquire to check and record atomically.
func (g *Governor) PermitCall(provider string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.permitLocked(g.stateLocked(provider), g.now())
}

// RecordCall counts one call against provider's current window
func (g *Governor) RecordCall(provider string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stateLocked(provider).callCount++
}

// Acquire performs PermitCall and RecordCall under one lock, so two
// concurrent callers can never both take the last slot of a window.
func (g *Governor) Acquire(provider string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.stateLocked(provider)
	if !g.permitLocked(s, g.now()) {
		return false
	}
	s.callCount++
	return true
}

// Cooling reports whether provider is inside a quota cooldown
func (g *Governor) Cooling(provider string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.stateLocked(provider).quotaExceededUntil)
}

// RecordFailure classifies err and starts a cooldown when it signals quota
// or permission trouble. Transient failures leave the provider eligible.
func (g *Governor) RecordFailure(provider string, err error) ErrorKind {
	kind := ClassifyError(err)
	if kind == KindTransient {
		return kind
	}

	g.mu.Lock()
	s := g.stateLocked(provider)
	cooldown := s.limits.ShortCooldown
	if kind == KindDisabled {
		cooldown = s.limits.LongCooldown
	}
	until := g.now().Add(cooldown)
	s.quotaExceededUntil = until
	g.mu.Unlock()

	g.log.Warn("Provider cooling down",
		"provider", provider,
		"kind", kind.String(),
		"until", until,
		"error", err)
	return kind
}

// Snapshot returns a copy of provider's state
func (g *Governor) Snapshot(provider string) (State, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.states[provider]
	if !ok {
		return State{}, false
	}
	state := State{CallCount: s.callCount, WindowStart: s.windowStart}
	if g.now().Before(s.quotaExceededUntil) {
		until := s.quotaExceededUntil
		state.QuotaExceededUntil = &until
	}
	return state, true
}

// stateLocked returns provider's state, registering it with default limits on first use
func (g *Governor) stateLocked(provider string) *providerState {
	s, ok := g.states[provider]
	if !ok {
		s = &providerState{limits: DefaultLimits(), windowStart: g.now()}
		g.states[provider] = s
	}
	return s
}

// permitLocked resets an elapsed window lazily, then checks cooldown and ceiling
func (g *Governor) permitLocked(s *providerState, now time.Time) bool {
	if now.Sub(s.windowStart) >= s.limits.Window {
		s.callCount = 0
		s.windowStart = now
	}
	if now.Before(s.quotaExceededUntil) {
		return false
	}
	return s.callCount < s.limits.Ceiling
}

var (
	disabledSignatures = []string{
		"service_disabled",
		"service disabled",
		"has not been used",
		"is disabled",
		"not enabled",
		"permission_denied",
		"permission denied",
		"api key not valid",
	}
	rateLimitSignatures = []string{
		"resource_exhausted",
		"quota",
		"rate limit",
		"rate_limit",
		"too many requests",
	}
)

// ClassifyError maps an adapter error to an ErrorKind using the HTTP status
// carried by api.ProviderError and well-known text signatures.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindTransient
	}

	var providerErr *api.ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.StatusCode {
		case http.StatusTooManyRequests:
			return KindRateLimited
		case http.StatusForbidden:
			return KindDisabled
		}
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range disabledSignatures {
		if strings.Contains(msg, sig) {
			return KindDisabled
		}
	}
	for _, sig := range rateLimitSignatures {
		if strings.Contains(msg, sig) {
			return KindRateLimited
		}
	}
	return KindTransient
}
