package assemble

import (
	"testing"

	"github.com/dgallion1/doctrans/internal/doctree"
)

func assets(ids ...string) []doctree.ImageAsset {
	out := make([]doctree.ImageAsset, len(ids))
	for i, id := range ids {
		out[i] = doctree.ImageAsset{ID: id, Data: []byte(id)}
	}
	return out
}

func TestImageQueuePositional(t *testing.T) {
	q := NewImageQueue(assets("a", "b"))
	for _, want := range []string{"a", "b"} {
		got, ok := q.Take("")
		if !ok || got.ID != want {
			t.Fatalf("got %q %v, want %q", got.ID, ok, want)
		}
	}
	if _, ok := q.Take(""); ok {
		t.Fatal("expected exhaustion")
	}
}

func TestImageQueuePrefersName(t *testing.T) {
	q := NewImageQueue(assets("Im1", "Im2", "Im3"))
	if got, _ := q.Take("Im2"); got.ID != "Im2" {
		t.Fatalf("got %q", got.ID)
	}
	if got, _ := q.Take("missing"); got.ID != "Im1" {
		t.Fatalf("unknown ref should fall back to position, got %q", got.ID)
	}
	if got, _ := q.Take(""); got.ID != "Im3" {
		t.Fatalf("taken assets must be skipped, got %q", got.ID)
	}
	if q.Remaining() != 0 {
		t.Fatalf("remaining = %d", q.Remaining())
	}
}

func TestImageQueueDuplicateNames(t *testing.T) {
	q := NewImageQueue([]doctree.ImageAsset{{ID: "Im1", Data: []byte{1}}, {ID: "Im1", Data: []byte{2}}})
	a, _ := q.Take("Im1")
	b, _ := q.Take("Im1")
	if a.Data[0] != 1 || b.Data[0] != 2 {
		t.Fatal("repeated name should consume assets in order")
	}
	if _, ok := q.Take("Im1"); ok {
		t.Fatal("expected exhaustion")
	}
}

func TestImageQueueEmpty(t *testing.T) {
	if _, ok := NewImageQueue(nil).Take("x"); ok {
		t.Fatal("expected false")
	}
}
