package restore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"trmnl/internal/content"
	"trmnl/internal/logging"
	"trmnl/internal/services"
)

// Decision records which path the classifier took for an item.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionRestore
	DecisionReconstruct
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionRestore:
		return "restore"
	case DecisionReconstruct:
		return "reconstruct"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Template identifiers understood by a Generator.
const (
	TemplateRoute    = "route"
	TemplateExpert   = "expert"
	TemplateForensic = "forensic"
)

const (
	minLines      = 3
	maxLineLength = 65
)

// ErrUnexpectedRoutingResponse matches any UnexpectedRoutingResponseError.
var ErrUnexpectedRoutingResponse = errors.New("unexpected routing response")

// UnexpectedRoutingResponseError carries the routing reply that was neither
// "yes" nor "no" after trimming and lowercasing.
type UnexpectedRoutingResponseError struct {
	Response string
}

func (e *UnexpectedRoutingResponseError) Error() string {
	return fmt.Sprintf("unexpected routing response %q", e.Response)
}

func (e *UnexpectedRoutingResponseError) Is(target error) bool {
	return target == ErrUnexpectedRoutingResponse || target == services.ErrConfiguration
}

// Generator renders a named prompt template with vars and returns the model reply.
type Generator interface {
	Generate(ctx context.Context, templateID string, vars map[string]string) (string, error)
}

// Result is the classifier output. Body is the original normalized body for
// DecisionSkip and the generated text otherwise.
type Result struct {
	Decision Decision
	Body     string
}

// NeedsRestoration reports whether body looks flattened: fewer than three
// lines, or any line longer than 65 characters.
func NeedsRestoration(body string) bool {
	lines := strings.Split(body, "\n")
	if len(lines) < minLines {
		return true
	}
	for _, line := range lines {
		if utf8.RuneCountInString(line) > maxLineLength {
			return true
		}
	}
	return false
}

// Classifier decides whether an item needs repair and performs it.
type Classifier struct {
	gen    Generator
	memo   *Memo
	logger *slog.Logger
}

// NewClassifier constructs a Classifier. memo may be nil.
func NewClassifier(gen Generator, memo *Memo, logger *slog.Logger) *Classifier {
	return &Classifier{
		gen:    gen,
		memo:   memo,
		logger: logging.NewComponentLogger(logger, "restore"),
	}
}

// Classify returns the body to display for item. Skipped items cost no remote
// call. Generated text is returned as produced, without re-normalization.
func (c *Classifier) Classify(ctx context.Context, item content.Item) (Result, error) {
	if !NeedsRestoration(item.Body) {
		return Result{Decision: DecisionSkip, Body: item.Body}, nil
	}
	if cached, ok := c.memo.Get(item); ok {
		c.logger.Debug("restoration memo hit",
			logging.String(logging.FieldImage, item.LogicalName()),
			logging.String("decision", cached.Decision.String()),
		)
		return cached, nil
	}
	if c.gen == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "restore", "classify", "no generator configured", nil)
	}

	vars := map[string]string{
		"title": item.Title,
		"poet":  item.Attribution,
		"poem":  item.Body,
	}
	reply, err := c.gen.Generate(ctx, TemplateRoute, vars)
	if err != nil {
		return Result{}, services.Wrap(services.ErrUpstream, "restore", "route", "routing call failed", err)
	}

	var (
		decision   Decision
		templateID string
	)
	switch token := strings.ToLower(strings.TrimSpace(reply)); token {
	case "yes":
		decision, templateID = DecisionRestore, TemplateExpert
	case "no":
		decision, templateID = DecisionReconstruct, TemplateForensic
	default:
		return Result{}, &UnexpectedRoutingResponseError{Response: token}
	}

	body, err := c.gen.Generate(ctx, templateID, vars)
	if err != nil {
		return Result{}, services.Wrap(services.ErrUpstream, "restore", decision.String(), "generation call failed", err)
	}

	result := Result{Decision: decision, Body: body}
	c.memo.Set(item, result)
	c.logger.Info("poem restored",
		logging.String(logging.FieldImage, item.LogicalName()),
		logging.String("decision", decision.String()),
	)
	return result, nil
}
