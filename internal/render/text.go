package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/net/html"

	"trmnl/internal/logging"
)

const (
	textMargin     = 8
	textLineHeight = 15
)

// TextRenderer draws the text content of an HTML fragment with a bitmap font.
// It needs no external programs.
type TextRenderer struct {
	Options Options
	logger  *slog.Logger
}

// NewTextRenderer constructs the built-in renderer.
func NewTextRenderer(opts Options, logger *slog.Logger) *TextRenderer {
	return &TextRenderer{Options: opts.withDefaults(), logger: logging.NewComponentLogger(logger, "render")}
}

// Render writes the text of fragment, centred, to dest.
func (r *TextRenderer) Render(ctx context.Context, fragment, dest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	paragraphs, err := ExtractText(fragment)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	canvas := r.layout(paragraphs)
	size, err := WriteBMP(dest, Monochrome(canvas, r.Options.Width, r.Options.Height), r.Options.MaxBytes)
	if err != nil {
		return "", err
	}
	r.logger.Info("bitmap rendered",
		logging.String(logging.FieldImage, filepath.Base(dest)),
		logging.Int("size_bytes", size),
		logging.String("renderer", "builtin"),
	)
	return dest, nil
}

// layout draws lines at double size when they fit, falling back to the native
// font size for long poems.
func (r *TextRenderer) layout(lines []string) image.Image {
	face := basicfont.Face7x13
	for _, scale := range []int{2, 1} {
		w, h := r.Options.Width/scale, r.Options.Height/scale
		cols := (w - 2*textMargin) / face.Advance
		wrapped := wrapLines(lines, cols)
		if scale > 1 && len(wrapped)*textLineHeight > h-2*textMargin {
			continue
		}
		small := image.NewGray(image.Rect(0, 0, w, h))
		draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		drawer := &font.Drawer{Dst: small, Src: image.NewUniform(color.Black), Face: face}
		top := max((h-len(wrapped)*textLineHeight)/2, textMargin)
		for i, line := range wrapped {
			width := drawer.MeasureString(line).Ceil()
			x := max((w-width)/2, textMargin)
			drawer.Dot = fixed.P(x, top+i*textLineHeight+face.Ascent)
			drawer.DrawString(line)
		}
		if scale == 1 {
			return small
		}
		full := image.NewGray(image.Rect(0, 0, r.Options.Width, r.Options.Height))
		draw.NearestNeighbor.Scale(full, full.Bounds(), small, small.Bounds(), draw.Src, nil)
		return full
	}
	return image.NewGray(image.Rect(0, 0, r.Options.Width, r.Options.Height))
}

// ExtractText returns the visible text of an HTML fragment as lines. Line
// breaks come from <br>, paragraph and block boundaries; other whitespace is
// collapsed as a browser would.
func ExtractText(fragment string) ([]string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var (
		lines   []string
		current strings.Builder
		skip    int
	)
	flush := func(force bool) {
		line := strings.TrimSpace(current.String())
		current.Reset()
		if line != "" || force {
			lines = append(lines, line)
		}
	}
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return nil, err
			}
			flush(false)
			return collapseBlankLines(lines), nil
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := strings.Join(strings.Fields(string(tokenizer.Text())), " ")
			if text == "" {
				if current.Len() > 0 {
					current.WriteByte(' ')
				}
				continue
			}
			raw := string(tokenizer.Raw())
			if current.Len() > 0 && startsWithSpace(raw) {
				current.WriteByte(' ')
			}
			current.WriteString(text)
			if endsWithSpace(raw) {
				current.WriteByte(' ')
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br":
				flush(true)
			case "p", "div", "h1", "h2", "h3", "li":
				flush(false)
			case "style", "script", "head", "title":
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "p", "div", "h1", "h2", "h3", "li":
				flush(false)
				lines = append(lines, "")
			case "style", "script", "head", "title":
				if skip > 0 {
					skip--
				}
			}
		}
	}
}

func startsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\r\n", rune(s[0]))
}

func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\r\n", rune(s[len(s)-1]))
}

func collapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func wrapLines(lines []string, cols int) []string {
	if cols <= 0 {
		return lines
	}
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var current []rune
		for _, word := range words {
			w := []rune(word)
			for len(w) > cols {
				if len(current) > 0 {
					out = append(out, string(current))
					current = nil
				}
				out = append(out, string(w[:cols]))
				w = w[cols:]
			}
			switch {
			case len(current) == 0:
				current = w
			case len(current)+1+len(w) <= cols:
				current = append(append(current, ' '), w...)
			default:
				out = append(out, string(current))
				current = w
			}
		}
		if len(current) > 0 {
			out = append(out, string(current))
		}
	}
	return out
}
