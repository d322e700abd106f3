package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// PoolConfig controls a translation pool.
type PoolConfig struct {
	Workers    int    // Number of concurrent workers, one client each.
	Source     string // Source language code passed to every call.
	Target     string // Target language code passed to every call.
	MaxRetries int    // Retries after the first attempt, for retryable errors only. Negative means DefaultMaxRetries.
	Backoff    func(attempt int) time.Duration
	Log        *slog.Logger
}

// Pool translates the sentences of one block at a time with a fixed set of
// workers. Each worker owns the client created for it for the lifetime of
// the pool; clients are never shared between workers.
type Pool struct {
	cfg     PoolConfig
	clients []Translator
	log     *slog.Logger

	mu sync.Mutex // serialises Run so each client has one user
}

// NewPool creates cfg.Workers clients with newClient and returns a pool
// that uses them.
func NewPool(cfg PoolConfig, newClient func() (Translator, error)) (*Pool, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("translation pool needs at least one worker, got %d", cfg.Workers)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Backoff == nil {
		cfg.Backoff = Backoff
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	p := &Pool{cfg: cfg, log: log}
	for i := range cfg.Workers {
		c, err := newClient()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("create translator for worker %d: %w", i, err)
		}
		p.clients = append(p.clients, c)
	}
	return p, nil
}

// Workers returns the pool width.
func (p *Pool) Workers() int { return len(p.clients) }

// Run translates sentences and returns exactly one Result per sentence, in
// the order of the input regardless of which worker finished first. It
// returns only after every worker has stopped.
func (p *Pool) Run(ctx context.Context, sentences []string) []Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]Result, len(sentences))
	if len(sentences) == 0 {
		return results
	}

	tasks := make(chan Task, len(sentences))
	for i, s := range sentences {
		tasks <- Task{Index: i, Text: s}
	}
	close(tasks)

	var wg sync.WaitGroup
	for id, client := range p.clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				// Slots are disjoint, so no lock is needed.
				results[task.Index] = p.translate(ctx, id, client, task)
			}
		}()
	}
	wg.Wait()
	return results
}

func (p *Pool) translate(ctx context.Context, worker int, client Translator, task Task) Result {
	res := Result{Index: task.Index, Original: task.Text}
	var err error
	for attempt := range p.cfg.MaxRetries + 1 {
		if err = ctx.Err(); err != nil {
			break
		}
		var out string
		out, err = safeTranslate(ctx, client, task.Text, p.cfg.Source, p.cfg.Target)
		if err == nil {
			res.Translated = out
			return res
		}
		if !IsRetryable(err) || attempt == p.cfg.MaxRetries {
			break
		}
		p.log.Warn("retryable translation error", "worker", worker, "sentence", task.Index, "attempt", attempt, "error", err)
		select {
		case <-time.After(p.cfg.Backoff(attempt)):
		case <-ctx.Done():
		}
	}
	res.Err = err
	return res
}

func safeTranslate(ctx context.Context, client Translator, text, source, target string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("translator panic: %v", r)
		}
	}()
	return client.Translate(ctx, text, source, target)
}

// Close releases clients that hold resources.
func (p *Pool) Close() error {
	var errs []error
	for _, c := range p.clients {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	p.clients = nil
	return errors.Join(errs...)
}
