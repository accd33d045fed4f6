package restore

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"trmnl/internal/services"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

// Completer is the slice of the LLM client the generator needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMGenerator renders embedded prompt templates and sends them to a Completer.
type LLMGenerator struct {
	client    Completer
	templates *template.Template
}

// NewLLMGenerator parses the embedded prompts.
func NewLLMGenerator(client Completer) (*LLMGenerator, error) {
	tmpl, err := template.New("prompts").Option("missingkey=error").ParseFS(promptFS, "prompts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	return &LLMGenerator{client: client, templates: tmpl}, nil
}

// Render returns the prompt text for templateID without calling the model.
func (g *LLMGenerator) Render(templateID string, vars map[string]string) (string, error) {
	t := g.templates.Lookup(templateID + ".tmpl")
	if t == nil {
		return "", services.Wrap(services.ErrValidation, "restore", "render prompt", "unknown template "+templateID, nil)
	}
	var b strings.Builder
	if err := t.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", templateID, err)
	}
	return b.String(), nil
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, templateID string, vars map[string]string) (string, error) {
	prompt, err := g.Render(templateID, vars)
	if err != nil {
		return "", err
	}
	return g.client.Complete(ctx, "", prompt)
}
