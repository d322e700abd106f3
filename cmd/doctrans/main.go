// Command doctrans translates every supported document in an input
// directory and writes one .docx per document to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/doctrans/internal/config"
	"github.com/dgallion1/doctrans/internal/parser"
	"github.com/dgallion1/doctrans/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("could not read .env", "error", err)
	}
	cfg := config.Load()

	flag.StringVar(&cfg.InputDir, "in", cfg.InputDir, "directory holding the documents to translate")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory receiving the translated .docx files")
	flag.StringVar(&cfg.SourceLang, "from", cfg.SourceLang, "source language code")
	flag.StringVar(&cfg.TargetLang, "to", cfg.TargetLang, "target language code")
	flag.StringVar(&cfg.TranslateBackend, "backend", cfg.TranslateBackend, "translation backend: google, claude, openai or gemini")
	flag.IntVar(&cfg.TranslateWorkers, "workers", cfg.TranslateWorkers, "concurrent translation requests per document")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	files, err := listInputs(cfg.InputDir)
	if err != nil {
		log.Error("cannot read input directory", "dir", cfg.InputDir, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no supported documents in %s\n", cfg.InputDir)
		return
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("cannot create output directory", "dir", cfg.OutputDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := pipeline.NewRuntime(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error("close translation cache", "error", err)
		}
	}()

	start := time.Now()
	var ok, failed, sentences, sentenceErrors int
	for _, in := range files {
		if ctx.Err() != nil {
			break
		}
		out := filepath.Join(cfg.OutputDir, outputName(in))
		flog := log.With("file", filepath.Base(in))
		flog.Info("translating", "output", out)

		sum, err := rt.Processor.TranslateFile(ctx, in, out, func(page, total int) {
			flog.Debug("page done", "page", page, "total", total)
		})
		if err != nil {
			flog.Error("translation failed", "error", err)
			failed++
			continue
		}
		ok++
		sentences += sum.Sentences()
		sentenceErrors += sum.Failed
		flog.Info("translated",
			"pages", sum.Pages,
			"fallback_pages", sum.FallbackPages,
			"sentences", sum.Sentences(),
			"sentence_errors", sum.Failed,
			"images", sum.Images,
			"images_skipped", sum.ImagesSkipped,
			"duration", sum.Duration)
	}

	log.Info("done",
		"documents", ok,
		"failed_documents", failed,
		"sentences", sentences,
		"sentence_errors", sentenceErrors,
		"backend_calls", rt.Stats.Snapshot().Count,
		"elapsed", time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}

// listInputs returns the supported documents directly inside dir, sorted
// by name.
func listInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if parser.IsSupportedExtension(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func outputName(path string) string {
	base := filepath.Base(path)
	return "output_" + strings.TrimSuffix(base, filepath.Ext(base)) + ".docx"
}
