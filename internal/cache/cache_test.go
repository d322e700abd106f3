package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestKeyDependsOnLanguages(t *testing.T) {
	a := Key("en", "ja", "Hello.")
	if a != Key("en", "ja", "Hello.") {
		t.Fatal("key is not deterministic")
	}
	if a == Key("en", "de", "Hello.") {
		t.Fatal("target language must change the key")
	}
	if Key("e", "nja", "x") == Key("en", "ja", "x") {
		t.Fatal("language codes must be separated")
	}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expected miss")
	}
	m.Set(ctx, "k", "v")
	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("got %q %v %v", v, ok, err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
}

func TestFilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "cache.json")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	f.Set(ctx, Key("en", "ja", "Hello."), "こんにちは。")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	g, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	v, ok, _ := g.Get(ctx, Key("en", "ja", "Hello."))
	if !ok || v != "こんにちは。" {
		t.Fatalf("reloaded entry = %q %v", v, ok)
	}
}

func TestFileRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	os.WriteFile(path, []byte("{not json"), 0o644)
	if _, err := OpenFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "", "", "")
	if err != nil || s != nil {
		t.Fatalf("no backend: %v %v", s, err)
	}
	if s, err := Open(ctx, "memory", "", ""); err != nil || s == nil {
		t.Fatalf("memory: %v %v", s, err)
	}
	if _, err := Open(ctx, "file", "", ""); err == nil {
		t.Fatal("file without path should fail")
	}
	if _, err := Open(ctx, "redis", "", ""); err == nil {
		t.Fatal("redis without url should fail")
	}
	if _, err := Open(ctx, "bogus", "", ""); err == nil {
		t.Fatal("unknown backend should fail")
	}
}

func TestRedisOptions(t *testing.T) {
	r := &Redis{prefix: defaultRedisPrefix}
	WithPrefix("")(r)
	if r.prefix != defaultRedisPrefix {
		t.Fatalf("empty prefix replaced default: %q", r.prefix)
	}
	WithPrefix("team-a:")(r)
	WithTTL(time.Minute)(r)
	if r.prefix != "team-a:" || r.ttl != time.Minute {
		t.Fatalf("options not applied: prefix=%q ttl=%s", r.prefix, r.ttl)
	}
}
