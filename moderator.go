// Package chatmod decides whether chat text is toxic.
//
// A Moderator consults a response cache, then up to two rate-limited remote
// classifiers, and finally a local lexicon that always answers. Classify never
// fails: degraded answers are reported through the Verdict's Method.
package chatmod

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"

	"github.com/datar-psa/chatmod/api"
	"github.com/datar-psa/chatmod/cache"
	"github.com/datar-psa/chatmod/governor"
	"github.com/datar-psa/chatmod/heuristic"
)

// DefaultTimeout bounds each remote call
const DefaultTimeout = 10 * time.Second

type tier struct {
	provider   string
	method     api.Method
	classifier api.Classifier
	limits     governor.Limits
}

// Moderator is the moderation cascade. Build one at startup and share it;
// all methods are safe for concurrent use.
type Moderator struct {
	primary   *tier
	secondary *tier
	lexicon   api.Classifier
	cache     *cache.Cache
	governor  *governor.Governor
	timeout   time.Duration
	coalesce  bool
	inflight  singleflight.Group
	log       *slog.Logger

	verdicts  map[api.Method]*atomic.Int64
	cacheHits atomic.Int64
}

// New creates a Moderator. Without remote tiers every verdict comes from the lexicon.
func New(opts ...Option) *Moderator {
	m := &Moderator{
		timeout:  DefaultTimeout,
		log:      slog.Default(),
		verdicts: make(map[api.Method]*atomic.Int64, len(api.Methods)),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, method := range api.Methods {
		m.verdicts[method] = new(atomic.Int64)
	}

	if m.lexicon == nil {
		m.lexicon = heuristic.DefaultLexicon(m.log)
	}
	if m.cache == nil {
		m.cache = cache.New(m.log)
	}
	if m.governor == nil {
		m.governor = governor.New(m.log)
	}
	for _, t := range m.remoteTiers() {
		if t.limits != (governor.Limits{}) {
			m.governor.Register(t.provider, t.limits)
		}
	}
	return m
}

// Classify returns the verdict for text. Remote tiers are consulted only when
// allowRemote is true and the governor permits; otherwise the lexicon answers.
func (m *Moderator) Classify(ctx context.Context, text string, allowRemote bool) api.Verdict {
	key := api.Normalize(text)
	if key == "" {
		m.verdicts[api.MethodLexicon].Add(1)
		return api.Verdict{Categories: []string{}, Method: api.MethodLexicon}
	}

	if v, ok := m.cache.Get(key); ok {
		m.cacheHits.Add(1)
		return v
	}

	if !m.coalesce {
		return m.classify(ctx, key, strings.TrimSpace(text), allowRemote)
	}

	// The flight is detached from any one caller; each tier is still bounded by the per-call timeout.
	flight := lo.Ternary(allowRemote, "remote:", "local:") + key
	ch := m.inflight.DoChan(flight, func() (any, error) {
		if v, ok := m.cache.Get(key); ok {
			m.cacheHits.Add(1)
			return v, nil
		}
		return m.classify(context.WithoutCancel(ctx), key, strings.TrimSpace(text), allowRemote), nil
	})
	select {
	case res := <-ch:
		return res.Val.(api.Verdict).Clone()
	case <-ctx.Done():
		return m.classify(ctx, key, strings.TrimSpace(text), false)
	}
}

func (m *Moderator) classify(ctx context.Context, key, text string, allowRemote bool) api.Verdict {
	if allowRemote {
		for _, t := range m.remoteTiers() {
			if ctx.Err() != nil {
				break
			}
			v, ok := m.attempt(ctx, t, text)
			if ok {
				return m.store(key, v, t.method, true)
			}
		}
	}

	v, err := m.lexicon.Classify(ctx, text)
	if err != nil {
		m.log.Error("Lexicon failed", "error", err)
		v = api.Verdict{}
	}
	v.Confidence = heuristic.LexiconConfidence
	v.Reason = ""
	v.Categories = nil

	// A caller that gave up gets the lexicon answer uncached
	if ctx.Err() != nil {
		m.log.Debug("Caller gone, lexicon verdict not cached", "error", ctx.Err())
		return m.store(key, v, api.MethodLexicon, false)
	}
	m.log.Debug("Lexicon verdict", "toxic", v.IsToxic, "remote_allowed", allowRemote)
	return m.store(key, v, api.MethodLexicon, true)
}

// attempt calls one remote tier under the governor and a per-call timeout
func (m *Moderator) attempt(ctx context.Context, t *tier, text string) (api.Verdict, bool) {
	if !m.governor.Acquire(t.provider) {
		m.log.Debug("Tier skipped",
			"provider", t.provider,
			"reason", lo.Ternary(m.governor.Cooling(t.provider), "cooldown", "rate ceiling"))
		return api.Verdict{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	v, err := t.classifier.Classify(callCtx, text)
	if err != nil {
		if ctx.Err() != nil {
			m.log.Debug("Tier abandoned by caller", "provider", t.provider, "error", err)
			return api.Verdict{}, false
		}
		kind := m.governor.RecordFailure(t.provider, err)
		m.log.Warn("Tier failed",
			"provider", t.provider,
			"method", string(t.method),
			"kind", kind.String(),
			"error", err)
		return api.Verdict{}, false
	}
	return v, true
}

// store stamps and sanitizes v, caches it when cacheable and returns a private copy
func (m *Moderator) store(key string, v api.Verdict, method api.Method, cacheable bool) api.Verdict {
	v.Method = method
	if math.IsNaN(v.Confidence) {
		v.Confidence = 0
	}
	v.Confidence = math.Min(math.Max(v.Confidence, 0), 1)
	v.Categories = lo.Compact(lo.Uniq(lo.Map(v.Categories, func(c string, _ int) string {
		return strings.TrimSpace(c)
	})))

	if cacheable {
		m.cache.Put(key, v)
	}
	m.verdicts[method].Add(1)
	return v.Clone()
}

func (m *Moderator) remoteTiers() []*tier {
	return lo.Compact([]*tier{m.primary, m.secondary})
}

// Run trims the cache periodically until ctx is done
func (m *Moderator) Run(ctx context.Context) error {
	return m.cache.Run(ctx)
}

// Stats is a point-in-time view of the cascade
type Stats struct {
	// Verdicts counts freshly produced verdicts per tier; cache hits are counted apart
	Verdicts  map[api.Method]int64
	CacheHits int64
	CacheSize int
	Providers map[string]governor.State
}

// Stats reports verdict counts and provider states. A rising lexicon share
// while remote tiers are configured signals a sustained provider outage.
func (m *Moderator) Stats() Stats {
	s := Stats{
		Verdicts:  make(map[api.Method]int64, len(m.verdicts)),
		CacheHits: m.cacheHits.Load(),
		CacheSize: m.cache.Len(),
		Providers: make(map[string]governor.State),
	}
	for method, n := range m.verdicts {
		s.Verdicts[method] = n.Load()
	}
	for _, t := range m.remoteTiers() {
		if state, ok := m.governor.Snapshot(t.provider); ok {
			s.Providers[t.provider] = state
		}
	}
	return s
}
