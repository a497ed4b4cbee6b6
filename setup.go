package chatmod

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	language "cloud.google.com/go/language/apiv1"
	"github.com/dgraph-io/badger/v4"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"github.com/datar-psa/chatmod/api"
	"github.com/datar-psa/chatmod/cache"
	"github.com/datar-psa/chatmod/gemini"
	"github.com/datar-psa/chatmod/heuristic"
	"github.com/datar-psa/chatmod/openai"
)

// NewFromConfig builds a Moderator and its provider clients from cfg.
// A provider without credentials is left out and its verdicts come from the next tier.
// The returned cleanup releases the provider clients.
func NewFromConfig(ctx context.Context, cfg Config, log *slog.Logger) (*Moderator, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	var closers []func() error
	cleanup := func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn("Failed to close provider client", "error", err)
			}
		}
	}

	lexicon, err := buildLexicon(cfg.LexiconBadgerPath, log)
	if err != nil {
		return nil, nil, err
	}

	opts := []Option{
		WithLogger(log),
		WithLexicon(lexicon),
		WithCache(cache.New(log,
			cache.WithCapacity(cfg.CacheCapacity),
			cache.WithInterval(cfg.CacheMaintenanceInterval))),
		WithTimeout(cfg.CallTimeout),
		WithCoalescing(cfg.CoalesceInflight),
	}

	primary, err := primaryTier(ctx, cfg)
	switch {
	case errors.Is(err, ErrMissingCredentials):
		log.Warn("Primary tier disabled", "provider", gemini.ProviderName, "error", err)
	case err != nil:
		return nil, nil, err
	default:
		opts = append(opts, WithPrimary(gemini.ProviderName, primary, cfg.PrimaryLimits()))
	}

	switch cfg.SecondaryProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn("Secondary tier disabled", "provider", openai.ProviderName, "error", ErrMissingCredentials)
			break
		}
		secondary := NewOpenAITier(cfg.OpenAIAPIKey,
			openai.WithEndpoint(cfg.OpenAIEndpoint),
			openai.WithModel(cfg.OpenAIModel))
		opts = append(opts, WithSecondary(openai.ProviderName, secondary, cfg.SecondaryLimits()))
	case "language":
		var clientOpts []option.ClientOption
		if cfg.GoogleProjectID != "" {
			clientOpts = append(clientOpts, option.WithQuotaProject(cfg.GoogleProjectID))
		}
		langClient, err := language.NewClient(ctx, clientOpts...)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("language client: %w", err)
		}
		closers = append(closers, langClient.Close)
		secondary := NewLanguageTier(WithLanguageClient(langClient), WithLanguageThreshold(cfg.LanguageThreshold))
		opts = append(opts, WithSecondary(gemini.LanguageProviderName, secondary, cfg.SecondaryLimits()))
	}

	m := New(opts...)
	log.Info("Moderator ready",
		"primary", m.primary != nil,
		"secondary", cfg.SecondaryProvider,
		"lexicon_size", lexicon.Size(),
		"coalesce", cfg.CoalesceInflight)
	return m, cleanup, nil
}

func primaryTier(ctx context.Context, cfg Config) (api.Classifier, error) {
	clientConfig := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.GeminiAPIKey,
	}
	if cfg.GeminiBackend == "vertex" {
		clientConfig = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.GoogleProjectID,
			Location: cfg.GoogleRegion,
		}
	} else if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingCredentials
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return NewGeminiTier(WithGenaiClient(client), WithModelName(cfg.GeminiModel)), nil
}

// buildLexicon merges operator-managed tokens stored in Badger with the built-in list
func buildLexicon(badgerPath string, log *slog.Logger) (*heuristic.Lexicon, error) {
	entries := heuristic.DefaultEntries()
	if badgerPath != "" {
		db, err := badger.Open(badger.DefaultOptions(badgerPath).WithLoggingLevel(badger.ERROR))
		if err != nil {
			return nil, fmt.Errorf("lexicon store opening failed: %w", err)
		}
		extra, err := heuristic.LoadBadger(db)
		_ = db.Close()
		if err != nil {
			return nil, err
		}
		log.Info("Loaded lexicon entries", "path", badgerPath, "count", len(extra))
		entries = append(entries, extra...)
	}
	return heuristic.NewLexicon(entries, log)
}
