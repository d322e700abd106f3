package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/doctrans/internal/assemble"
	"github.com/dgallion1/doctrans/internal/doctree"
	"github.com/dgallion1/doctrans/internal/extract"
	"github.com/dgallion1/doctrans/internal/parser"
	"github.com/dgallion1/doctrans/internal/segment"
	"github.com/dgallion1/doctrans/internal/translate"
	"golang.org/x/text/language"
)

// ProcessorConfig holds what a Processor needs to translate a document.
type ProcessorConfig struct {
	Source           string
	Target           string
	Workers          int
	MaxRetries       int
	Backoff          func(attempt int) time.Duration
	ImageWidthInches float64
	ParserOptions    parser.Options
}

// Processor turns source documents into translated output documents.
type Processor struct {
	cfg       ProcessorConfig
	seg       *segment.Segmenter
	newClient func() (translate.Translator, error)
	log       *slog.Logger
}

func NewProcessor(cfg ProcessorConfig, seg *segment.Segmenter, newClient func() (translate.Translator, error), log *slog.Logger) *Processor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.ParserOptions.Segmenter == nil {
		cfg.ParserOptions.Segmenter = seg
	}
	if cfg.ParserOptions.Log == nil {
		cfg.ParserOptions.Log = log
	}
	return &Processor{cfg: cfg, seg: seg, newClient: newClient, log: log}
}

// For returns a processor translating between other languages. The
// segmenter follows the new source language.
func (p *Processor) For(source, target string) *Processor {
	if source == p.cfg.Source && target == p.cfg.Target {
		return p
	}
	cfg := p.cfg
	cfg.Source, cfg.Target = source, target
	seg := segment.New(language.Make(source))
	cfg.ParserOptions.Segmenter = seg
	return &Processor{cfg: cfg, seg: seg, newClient: p.newClient, log: p.log}
}

// Languages returns the source and target language codes.
func (p *Processor) Languages() (source, target string) {
	return p.cfg.Source, p.cfg.Target
}

// Summary describes one translated document.
type Summary struct {
	Title          string        `json:"title"`
	Pages          int           `json:"pages"`
	FallbackPages  int           `json:"fallback_pages"`
	Translated     int           `json:"sentences_translated"`
	Failed         int           `json:"sentences_failed"`
	Images         int           `json:"images"`
	ImagesSkipped  int           `json:"images_skipped"`
	// ImagesUnplaced counts listed images no placement asked for.
	ImagesUnplaced int           `json:"images_unplaced"`
	Duration       time.Duration `json:"duration_ns"`
}

// Sentences is the number of sentence paragraphs written.
func (s Summary) Sentences() int { return s.Translated + s.Failed }

// PageFunc is called after each page is written.
type PageFunc func(page, total int)

// TranslateFile translates the document at inPath and writes it as .docx
// to outPath.
func (p *Processor) TranslateFile(ctx context.Context, inPath, outPath string, onPage PageFunc) (Summary, error) {
	doc, err := parser.Open(inPath, p.cfg.ParserOptions)
	if err != nil {
		return Summary{}, err
	}
	defer doc.Close()

	sink := assemble.NewDocxSink()
	asm := assemble.New(sink, p.cfg.ImageWidthInches)
	sum, err := p.TranslateDocument(ctx, doc, asm, onPage)
	if err != nil {
		return sum, err
	}
	if err := assemble.Save(asm, outPath); err != nil {
		return sum, err
	}
	return sum, nil
}

// TranslateDocument walks doc page by page and appends every block, in
// reading order, to asm. Sentence failures are written as notices and do
// not fail the document; only cancellation or a translator that cannot be
// created does.
func (p *Processor) TranslateDocument(ctx context.Context, doc parser.Document, asm *assemble.Assembler, onPage PageFunc) (Summary, error) {
	start := time.Now()
	sum := Summary{Title: doc.Title()}
	log := p.log.With("document", doc.Title())

	pool, err := translate.NewPool(translate.PoolConfig{
		Workers:    p.cfg.Workers,
		Source:     p.cfg.Source,
		Target:     p.cfg.Target,
		MaxRetries: p.cfg.MaxRetries,
		Backoff:    p.cfg.Backoff,
		Log:        log,
	}, p.newClient)
	if err != nil {
		return sum, fmt.Errorf("start translation pool: %w", err)
	}
	defer pool.Close()
	log.Debug("translation pool started", "workers", pool.Workers())

	total := doc.NumPages()
	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		page := doc.Page(n)
		if page.Fallback {
			sum.FallbackPages++
		}
		p.translatePage(ctx, log, pool, page, asm, &sum)
		sum.Pages++
		if onPage != nil {
			onPage(n, total)
		}
	}

	sum.Translated, sum.Failed, sum.Images = asm.Counts()
	sum.Duration = time.Since(start)
	log.Info("document translated",
		"pages", sum.Pages,
		"fallback_pages", sum.FallbackPages,
		"translated", sum.Translated,
		"failed", sum.Failed,
		"images", sum.Images,
		"images_skipped", sum.ImagesSkipped,
		"images_unplaced", sum.ImagesUnplaced,
		"duration", sum.Duration,
	)
	return sum, nil
}

func (p *Processor) translatePage(ctx context.Context, log *slog.Logger, pool *translate.Pool, page *doctree.Page, asm *assemble.Assembler, sum *Summary) {
	texts, images := page.Counts()
	log = log.With("page", page.Number)
	log.Debug("page extracted", "text_blocks", texts, "image_blocks", images, "assets", len(page.Images), "fallback", page.Fallback)
	if page.Fallback {
		log.Warn("page translated from plain text", "reason", page.Reason)
	}

	queue := assemble.NewImageQueue(page.Images)
	for _, block := range extract.Sequence(page.Blocks) {
		switch b := block.(type) {
		case *doctree.TextBlock:
			sentences := p.seg.Split(extract.FlattenText(b.Lines))
			asm.AppendSentences(logFailures(log, pool.Run(ctx, sentences)))
		case *doctree.FallbackTextBlock:
			asm.AppendSentences(logFailures(log, pool.Run(ctx, b.Sentences)))
		case *doctree.ImageBlock:
			asset, ok := queue.Take(b.Ref)
			if !ok {
				log.Warn("no image data for placement", "ref", b.Ref)
				sum.ImagesSkipped++
				continue
			}
			if err := asm.AppendImage(asset); err != nil {
				log.Warn("image skipped", "ref", b.Ref, "error", err)
				sum.ImagesSkipped++
			}
		}
	}
	if n := queue.Remaining(); n > 0 {
		log.Debug("images without a placement", "count", n)
		sum.ImagesUnplaced += n
	}
}

func logFailures(log *slog.Logger, results []translate.Result) []translate.Result {
	for _, r := range results {
		if r.Failed() {
			log.Warn("sentence not translated", "sentence", r.Index, "error", r.Err)
		}
	}
	return results
}
