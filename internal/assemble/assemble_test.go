package assemble

import (
	"errors"
	"io"
	"testing"

	"github.com/dgallion1/doctrans/internal/doctree"
	"github.com/dgallion1/doctrans/internal/translate"
)

type image struct {
	data []byte
	w, h int64
}

type fakeSink struct {
	items   []any
	failImg bool
}

func (s *fakeSink) AddParagraph(text string) { s.items = append(s.items, text) }

func (s *fakeSink) AddImage(data []byte, w, h int64) error {
	if s.failImg {
		return errors.New("unsupported format")
	}
	s.items = append(s.items, image{data, w, h})
	return nil
}

func (s *fakeSink) WriteTo(w io.Writer) (int64, error) { return 0, nil }

func TestAppendSentences(t *testing.T) {
	sink := &fakeSink{}
	a := New(sink, 0)
	a.AppendSentences([]translate.Result{
		{Index: 0, Original: "Hello.", Translated: "こんにちは。"},
		{Index: 1, Original: "World.", Err: errors.New("quota exceeded")},
	})

	want := []string{
		"こんにちは。",
		"Sentence 2 (Error): quota exceeded\nOriginal: World.",
	}
	if len(sink.items) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d", len(want), len(sink.items))
	}
	for i, w := range want {
		if sink.items[i] != w {
			t.Errorf("paragraph %d = %q, want %q", i, sink.items[i], w)
		}
	}
	if tr, f, _ := a.Counts(); tr != 1 || f != 1 {
		t.Fatalf("counts = %d/%d", tr, f)
	}
}

func TestSentenceNumbersRunAcrossCalls(t *testing.T) {
	sink := &fakeSink{}
	a := New(sink, 0)
	a.AppendSentences([]translate.Result{{Original: "A.", Translated: "a"}, {Original: "B.", Translated: "b"}})
	a.AppendSentences([]translate.Result{{Original: "  ", Translated: ""}, {Original: "C.", Err: errors.New("x")}})

	if len(sink.items) != 3 {
		t.Fatalf("blank original should be skipped, got %d paragraphs", len(sink.items))
	}
	if got := sink.items[2]; got != "Sentence 3 (Error): x\nOriginal: C." {
		t.Fatalf("got %q", got)
	}
}

func TestAppendImageScales(t *testing.T) {
	sink := &fakeSink{}
	a := New(sink, 6)
	if err := a.AppendImage(doctree.ImageAsset{ID: "Im1", Data: []byte{1}, Width: 400, Height: 200}); err != nil {
		t.Fatal(err)
	}
	img := sink.items[0].(image)
	if img.w != 6*emuPerInch || img.h != 3*emuPerInch {
		t.Fatalf("size = %dx%d", img.w, img.h)
	}

	a.AppendImage(doctree.ImageAsset{ID: "Im2", Data: []byte{1}})
	img = sink.items[1].(image)
	if img.w != img.h {
		t.Fatalf("unknown dimensions should be square, got %dx%d", img.w, img.h)
	}
	if _, _, n := a.Counts(); n != 2 {
		t.Fatalf("expected 2 images, got %d", n)
	}
}

func TestAppendImageErrors(t *testing.T) {
	a := New(&fakeSink{}, 6)
	if err := a.AppendImage(doctree.ImageAsset{ID: "empty"}); err == nil {
		t.Fatal("expected error for empty image")
	}
	b := New(&fakeSink{failImg: true}, 6)
	if err := b.AppendImage(doctree.ImageAsset{ID: "x", Data: []byte{1}}); err == nil {
		t.Fatal("expected sink error")
	}
	if _, _, n := b.Counts(); n != 0 {
		t.Fatal("failed image counted")
	}
}

func TestErrorNotice(t *testing.T) {
	got := ErrorNotice(7, "timeout", "Original text.")
	if got != "Sentence 7 (Error): timeout\nOriginal: Original text." {
		t.Fatalf("got %q", got)
	}
}
