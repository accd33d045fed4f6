package restore_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trmnl/internal/restore"
	"trmnl/internal/services"
)

type recordingCompleter struct {
	prompts []string
	reply   string
}

func (c *recordingCompleter) Complete(_ context.Context, system, user string) (string, error) {
	c.prompts = append(c.prompts, user)
	return c.reply, nil
}

func TestLLMGeneratorRendersTemplates(t *testing.T) {
	completer := &recordingCompleter{reply: "yes"}
	gen, err := restore.NewLLMGenerator(completer)
	if err != nil {
		t.Fatalf("NewLLMGenerator returned error: %v", err)
	}
	vars := map[string]string{"title": "Oread", "poet": "H.D.", "poem": "Whirl up, sea"}

	for _, id := range []string{restore.TemplateRoute, restore.TemplateExpert, restore.TemplateForensic} {
		reply, err := gen.Generate(context.Background(), id, vars)
		if err != nil {
			t.Fatalf("Generate(%s) returned error: %v", id, err)
		}
		if reply != "yes" {
			t.Fatalf("unexpected reply %q", reply)
		}
	}
	if len(completer.prompts) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(completer.prompts))
	}
	for _, prompt := range completer.prompts {
		if !strings.Contains(prompt, `"Oread" by H.D.`) || !strings.Contains(prompt, "Whirl up, sea") {
			t.Fatalf("prompt missing variables: %q", prompt)
		}
	}
}

func TestLLMGeneratorRejectsUnknownTemplate(t *testing.T) {
	gen, err := restore.NewLLMGenerator(&recordingCompleter{})
	if err != nil {
		t.Fatalf("NewLLMGenerator returned error: %v", err)
	}
	_, err = gen.Generate(context.Background(), "sonnet", map[string]string{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLLMGeneratorRequiresVariables(t *testing.T) {
	gen, err := restore.NewLLMGenerator(&recordingCompleter{})
	if err != nil {
		t.Fatalf("NewLLMGenerator returned error: %v", err)
	}
	if _, err := gen.Render(restore.TemplateRoute, map[string]string{"title": "x"}); err == nil {
		t.Fatal("expected error for missing template variables")
	}
}
