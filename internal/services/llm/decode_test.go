package llm

import "testing"

func TestStripCodeFenceBlock(t *testing.T) {
	cases := map[string]string{
		"plain text":                      "plain text",
		"```json\n{\"a\":1}\n```":         "{\"a\":1}",
		"```\nline one\nline two\n```":    "line one\nline two",
		"```the red wheelbarrow\nrain```": "the red wheelbarrow\nrain",
	}
	for input, want := range cases {
		if got := stripCodeFenceBlock(input); got != want {
			t.Errorf("stripCodeFenceBlock(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDecodeLLMJSONReportsSnippet(t *testing.T) {
	var parsed map[string]any
	if err := DecodeLLMJSON("no json here", &parsed); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
	if err := DecodeLLMJSON("   ", &parsed); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestExtractJSONPayloadArray(t *testing.T) {
	got := extractJSONPayload("here you go: [1, 2, 3]. done")
	if got != "[1, 2, 3]" {
		t.Fatalf("extractJSONPayload = %q", got)
	}
}
