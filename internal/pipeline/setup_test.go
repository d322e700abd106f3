package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dgallion1/doctrans/internal/config"
)

func TestNewRuntime(t *testing.T) {
	cfg := config.Config{
		SourceLang:          "en",
		TargetLang:          "de",
		TranslateBackend:    "google",
		TranslateWorkers:    2,
		TranslateMaxRetries: 1,
		CacheBackend:        "file",
		CachePath:           filepath.Join(t.TempDir(), "cache.json"),
		ImageWidthInches:    6,
	}
	rt, err := NewRuntime(context.Background(), cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()

	if rt.Cache == nil || rt.Stats == nil {
		t.Fatal("runtime missing cache or stats")
	}
	if src, dst := rt.Processor.Languages(); src != "en" || dst != "de" {
		t.Fatalf("languages = %s -> %s", src, dst)
	}
	if rt.Processor.cfg.ParserOptions.Segmenter == nil {
		t.Fatal("parser options have no segmenter")
	}
}

func TestNewRuntimeUnknownBackend(t *testing.T) {
	cfg := config.Config{SourceLang: "en", TargetLang: "de", TranslateBackend: "babelfish", CacheBackend: "memory"}
	if _, err := NewRuntime(context.Background(), cfg, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
