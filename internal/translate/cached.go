package translate

import (
	"context"
	"io"
	"log/slog"

	"github.com/dgallion1/doctrans/internal/cache"
)

// Cached serves translations from store and records new ones. Cache errors
// are logged and never fail a sentence.
func Cached(t Translator, store cache.Store, log *slog.Logger) Translator {
	if store == nil {
		return t
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &cached{next: t, store: store, log: log}
}

type cached struct {
	next  Translator
	store cache.Store
	log   *slog.Logger
}

func (c *cached) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := cache.Key(source, target, text)
	if v, ok, err := c.store.Get(ctx, key); err != nil {
		c.log.Warn("translation cache get", "error", err)
	} else if ok {
		return v, nil
	}
	out, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if err := c.store.Set(ctx, key, out); err != nil {
		c.log.Warn("translation cache set", "error", err)
	}
	return out, nil
}

// Close closes the wrapped translator. The store is shared and closed by
// its owner.
func (c *cached) Close() error {
	if cl, ok := c.next.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
