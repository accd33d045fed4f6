package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Order matters: strings.Replacer compares in argument order, so the
	// doubled carriage return must win over the plain CRLF.
	lineBreakReplacer = strings.NewReplacer(
		"\r\r\n", "\n",
		"\r\n", "\n",
		"\r", "\n",
	)
	// The dataset stores many poems with runs of spaces where line breaks were.
	spacedBreakPattern = regexp.MustCompile(` {2,}`)
	blankRunPattern    = regexp.MustCompile(`\n{3,}`)
)

// NormalizeBody cleans raw body text into canonical form: a single line-break
// character, space runs treated as line breaks, at most one blank line between
// stanzas, and no surrounding whitespace on any line.
func NormalizeBody(text string) string {
	if text == "" {
		return ""
	}
	text = lineBreakReplacer.Replace(text)
	text = spacedBreakPattern.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	// Collapse after trimming so whitespace-only lines cannot form a new run.
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// NormalizeTitle collapses every whitespace run to a single space.
func NormalizeTitle(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// LogicalName derives the filesystem-safe cache key for a title. Accents are
// folded to their base letters so "Ode à l'été" and "Ode a l'ete" share a key.
// ASCII letters are lowercased, digits and hyphens survive, and every other
// run of characters becomes one underscore.
func LogicalName(title string) string {
	folded, _, err := transform.String(foldAccents(), NormalizeTitle(title))
	if err != nil {
		folded = title
	}
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "untitled"
	}
	return name
}

// foldAccents returns a fresh chain; transformers carry state and are not
// safe to share between goroutines.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
