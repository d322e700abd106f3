package translate

import (
	"context"
	"io"

	"github.com/dgallion1/doctrans/internal/chunker"
)

// Chunked splits sentences longer than maxChars runes into pieces,
// translates them in order and joins the results. The first failing piece
// fails the whole sentence.
func Chunked(t Translator, maxChars int) Translator {
	if maxChars <= 0 {
		return t
	}
	return &chunked{next: t, maxChars: maxChars}
}

type chunked struct {
	next     Translator
	maxChars int
}

func (c *chunked) Translate(ctx context.Context, text, source, target string) (string, error) {
	parts := chunker.Split(text, c.maxChars)
	if len(parts) == 1 {
		return c.next.Translate(ctx, parts[0], source, target)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		tr, err := c.next.Translate(ctx, p, source, target)
		if err != nil {
			return "", err
		}
		out = append(out, tr)
	}
	return chunker.Join(out, target), nil
}

func (c *chunked) Close() error {
	if cl, ok := c.next.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
