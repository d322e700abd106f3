package translate

import (
	"strings"
	"testing"
)

func TestSystemPrompt_NamesLanguages(t *testing.T) {
	p := SystemPrompt("en", "ja")
	if !strings.Contains(p, "from English to Japanese") {
		t.Errorf("expected language names in prompt, got %q", p)
	}
}

func TestSystemPrompt_UnknownCodeKept(t *testing.T) {
	p := SystemPrompt("en", "not a tag!")
	if !strings.Contains(p, "not a tag!") {
		t.Errorf("expected raw code in prompt, got %q", p)
	}
}

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		original string
		want     string
	}{
		{"plain", "こんにちは。", "Hello.", "こんにちは。"},
		{"trims space", "  世界。 \n", "World.", "世界。"},
		{"code fence", "```\n世界。\n```", "World.", "世界。"},
		{"code fence with lang", "```text\n世界。\n```", "World.", "世界。"},
		{"double quotes", `"世界。"`, "World.", "世界。"},
		{"corner brackets", "「世界。」", "World.", "世界。"},
		{"quoted original keeps quotes", `"世界"`, `"World"`, `"世界"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanOutput(tt.out, tt.original)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanOutput_Empty(t *testing.T) {
	if _, err := CleanOutput("   ", "Hello."); err == nil {
		t.Error("expected error for empty output")
	}
	if _, err := CleanOutput("```\n```", "Hello."); err == nil {
		t.Error("expected error for empty code block")
	}
}

func TestCleanOutput_Runaway(t *testing.T) {
	if _, err := CleanOutput(strings.Repeat("あ", 200), "Hi."); err == nil {
		t.Error("expected error for runaway output")
	}
}
