package chatmod

import (
	"log/slog"
	"time"

	"github.com/datar-psa/chatmod/api"
	"github.com/datar-psa/chatmod/cache"
	"github.com/datar-psa/chatmod/governor"
)

// Option configures a Moderator
type Option func(*Moderator)

// WithPrimary sets the first remote tier. provider names it in governor state and logs.
// Zero limits keep governor.DefaultLimits.
func WithPrimary(provider string, classifier api.Classifier, limits governor.Limits) Option {
	return func(m *Moderator) {
		if classifier == nil {
			return
		}
		m.primary = &tier{provider: provider, method: api.MethodPrimaryRemote, classifier: classifier, limits: limits}
	}
}

// WithSecondary sets the remote tier tried after the primary
func WithSecondary(provider string, classifier api.Classifier, limits governor.Limits) Option {
	return func(m *Moderator) {
		if classifier == nil {
			return
		}
		m.secondary = &tier{provider: provider, method: api.MethodSecondaryRemote, classifier: classifier, limits: limits}
	}
}

// WithLexicon replaces the built-in lexicon
func WithLexicon(lexicon api.Classifier) Option {
	return func(m *Moderator) {
		m.lexicon = lexicon
	}
}

// WithCache shares an existing cache
func WithCache(c *cache.Cache) Option {
	return func(m *Moderator) {
		m.cache = c
	}
}

// WithGovernor shares an existing governor
func WithGovernor(g *governor.Governor) Option {
	return func(m *Moderator) {
		m.governor = g
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(m *Moderator) {
		if log != nil {
			m.log = log
		}
	}
}

// WithTimeout bounds each remote call
func WithTimeout(timeout time.Duration) Option {
	return func(m *Moderator) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithCoalescing collapses concurrent lookups of the same uncached text into one cascade run
func WithCoalescing(enabled bool) Option {
	return func(m *Moderator) {
		m.coalesce = enabled
	}
}
