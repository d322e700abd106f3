package segment

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestSplit_Basic(t *testing.T) {
	s := New(language.English)
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"two sentences", "Hello. World.", []string{"Hello.", "World."}},
		{"mixed terminators", "Is it? Yes! Done.", []string{"Is it?", "Yes!", "Done."}},
		{"single sentence no terminator", "just a fragment", []string{"just a fragment"}},
		{"abbreviation", "Dr. Smith went home. He slept.", []string{"Dr. Smith went home.", "He slept."}},
		{"initials", "J. R. R. Tolkien wrote books. They sold.", []string{"J. R. R. Tolkien wrote books.", "They sold."}},
		{"lowercase continuation", "See e.g. the appendix. It helps.", []string{"See e.g. the appendix.", "It helps."}},
		{"decimal number", "The value is 3.14 today. Tomorrow too.", []string{"The value is 3.14 today.", "Tomorrow too."}},
		{"no at sentence end", "The answer is no. We left early.", []string{"The answer is no.", "We left early."}},
		{"numbered item", "See No. 5. It is short.", []string{"See No. 5.", "It is short."}},
		{"collapses whitespace", "  Hello.\n\n  World.  ", []string{"Hello.", "World."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Split(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New(language.English)
	for _, in := range []string{"", "   ", "\n\t"} {
		if got := s.Split(in); len(got) != 0 {
			t.Errorf("Split(%q) = %q, want empty", in, got)
		}
	}
}

func TestSplit_Lossless(t *testing.T) {
	s := New(language.English)
	inputs := []string{
		"The quick brown fox jumps over the lazy dog. It was not amused! Why would it be?",
		"Results are shown in Fig. 3 and Table 2. We discuss them in Sec. 4.",
		"One sentence only",
		"Mr. and Mrs. Smith arrived at 10 a.m. sharp. Dinner followed.",
	}
	for _, in := range inputs {
		got := strings.Join(s.Split(in), " ")
		if got != in {
			t.Errorf("rejoined %q, want %q", got, in)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := New(language.English)
	in := strings.Repeat("Sentence one is here. Another follows it! ", 50)
	first := s.Split(in)
	for i := 0; i < 5; i++ {
		if got := s.Split(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
	if len(first) != 100 {
		t.Errorf("expected 100 sentences, got %d", len(first))
	}
}

func TestSplit_Japanese(t *testing.T) {
	s := New(language.Japanese)
	got := s.Split("こんにちは。世界。")
	want := []string{"こんにちは。", "世界。"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplit_LanguageWithoutTable(t *testing.T) {
	// No abbreviation table for Finnish: "Dr." ends a sentence.
	s := New(language.Finnish)
	got := s.Split("Dr. Smith came. Bye.")
	if len(got) != 3 {
		t.Errorf("expected 3 raw sentences, got %q", got)
	}
	if s.Language() != language.Finnish {
		t.Errorf("Language() = %v", s.Language())
	}
}

func TestSplit_GermanAbbreviation(t *testing.T) {
	s := New(language.German)
	got := s.Split("Das ist z.B. Gut. Danach kommt mehr.")
	want := []string{"Das ist z.B. Gut.", "Danach kommt mehr."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
