package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/doctrans/internal/cache"
	"github.com/dgallion1/doctrans/internal/config"
	"github.com/dgallion1/doctrans/internal/parser"
	"github.com/dgallion1/doctrans/internal/segment"
	"github.com/dgallion1/doctrans/internal/translate"
	"golang.org/x/text/language"
)

// Runtime bundles the long lived pieces built from configuration. Close
// releases the translation cache.
type Runtime struct {
	Processor *Processor
	Stats     *translate.Stats
	Cache     cache.Store
}

// NewRuntime wires the cache, the translation backend and the processor
// described by cfg.
func NewRuntime(ctx context.Context, cfg config.Config, log *slog.Logger) (*Runtime, error) {
	store, err := cache.Open(ctx, cfg.CacheBackend, cfg.CachePath, cfg.RedisURL,
		cache.WithTTL(cfg.CacheTTL), cache.WithPrefix(cfg.RedisPrefix))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	stats := translate.NewStats(time.Hour)
	newClient, err := translate.NewFactory(ctx, translate.BackendConfig{
		Name:             cfg.TranslateBackend,
		Timeout:          cfg.TranslateTimeout,
		GoogleURL:        cfg.GoogleTranslateURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicModel:   cfg.AnthropicModel,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIModel:      cfg.OpenAIModel,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiModel:      cfg.GeminiModel,
		MaxChars:         cfg.TranslateMaxChars,
	}, store, stats, log)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	seg := segment.New(language.Make(cfg.SourceLang))
	proc := NewProcessor(ProcessorConfig{
		Source:           cfg.SourceLang,
		Target:           cfg.TargetLang,
		Workers:          cfg.TranslateWorkers,
		MaxRetries:       cfg.TranslateMaxRetries,
		Backoff:          translate.Backoff,
		ImageWidthInches: cfg.ImageWidthInches,
		ParserOptions: parser.Options{
			FallbackPdftotext: cfg.PDFFallbackPdftotext,
		},
	}, seg, newClient, log)

	log.Info("translation runtime ready",
		"backend", cfg.TranslateBackend,
		"cache", cfg.CacheBackend,
		"source", cfg.SourceLang,
		"target", cfg.TargetLang,
		"workers", cfg.TranslateWorkers)

	return &Runtime{Processor: proc, Stats: stats, Cache: store}, nil
}

func (r *Runtime) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}
