package render_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trmnl/internal/config"
	"trmnl/internal/render"
	"trmnl/internal/services"
)

func gradient(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / max(w-1, 1))})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func TestEncodeBMPWritesOneBitHeader(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 800, 480), render.Palette)
	img.SetColorIndex(0, 479, 1) // bottom-left pixel is the first stored bit

	var buf bytes.Buffer
	if err := render.EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP returned error: %v", err)
	}
	data := buf.Bytes()
	if len(data) != render.EncodedSize(800, 480) || len(data) != 48062 {
		t.Fatalf("unexpected size %d", len(data))
	}
	if string(data[:2]) != "BM" {
		t.Fatalf("missing BM signature")
	}
	if got := binary.LittleEndian.Uint32(data[2:]); got != uint32(len(data)) {
		t.Fatalf("file size field %d, want %d", got, len(data))
	}
	if got := binary.LittleEndian.Uint16(data[28:]); got != 1 {
		t.Fatalf("expected 1 bit per pixel, got %d", got)
	}
	offset := binary.LittleEndian.Uint32(data[10:])
	if data[offset] != 0x80 {
		t.Fatalf("expected first stored pixel set, got %08b", data[offset])
	}
	if data[54] != 0 || data[58] != 0xff {
		t.Fatalf("unexpected palette bytes %v", data[54:62])
	}
}

func TestEncodeBMPRejectsWidePalette(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White, color.Gray{Y: 128}})
	if err := render.EncodeBMP(&bytes.Buffer{}, img); err == nil {
		t.Fatal("expected error for three-colour palette")
	}
}

func TestMonochromeScalesAndDithers(t *testing.T) {
	out := render.Monochrome(gradient(400, 240), 800, 480)
	if out.Bounds().Dx() != 800 || out.Bounds().Dy() != 480 {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	var left, right int
	for y := 0; y < 480; y++ {
		for x := 0; x < 40; x++ {
			left += int(out.ColorIndexAt(x, y))
			right += int(out.ColorIndexAt(799-x, y))
		}
	}
	if left >= right {
		t.Fatalf("expected dark left edge and light right edge, white counts %d vs %d", left, right)
	}
}

func TestWriteBMPEnforcesByteLimit(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "big.bmp")
	img := render.Monochrome(gradient(10, 10), 800, 480)

	_, err := render.WriteBMP(dest, img, 1000)
	if !errors.Is(err, render.ErrTooLarge) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, stat err %v", statErr)
	}
	entries, _ := os.ReadDir(filepath.Dir(dest))
	if len(entries) != 0 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestConvertFileProducesDisplayBitmap(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, gradient(1024, 768))

	dest := filepath.Join(dir, "out", "photo.bmp")
	size, err := render.ConvertFile(src, dest, render.DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertFile returned error: %v", err)
	}
	if size != 48062 {
		t.Fatalf("unexpected size %d", size)
	}
	info, err := os.Stat(dest)
	if err != nil || info.Size() != int64(size) {
		t.Fatalf("unexpected output stat %v %v", info, err)
	}
}

func TestIsSupportedImage(t *testing.T) {
	for _, name := range []string{"a.PNG", "b.jpeg", "c.tiff", "d.bmp"} {
		if !render.IsSupportedImage(name) {
			t.Fatalf("expected %s supported", name)
		}
	}
	if render.IsSupportedImage("notes.txt") {
		t.Fatal("expected txt to be unsupported")
	}
}

func TestChromiumRendererRunsHeadlessScreenshot(t *testing.T) {
	var gotArgs []string
	runner := func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "chromium-test" {
			t.Fatalf("unexpected binary %q", name)
		}
		gotArgs = args
		for _, arg := range args {
			if shot, ok := strings.CutPrefix(arg, "--screenshot="); ok {
				writePNG(t, shot, gradient(800, 480))
			}
		}
		return nil, nil
	}
	renderer := render.NewChromiumRenderer("chromium-test", render.DefaultOptions(), time.Minute, nil).WithRunner(runner)

	dest := filepath.Join(t.TempDir(), "poem_oread.bmp")
	path, err := renderer.Render(context.Background(), "<p>Whirl up, sea</p>", dest)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if path != dest {
		t.Fatalf("unexpected path %q", path)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--headless") || !strings.Contains(joined, "--window-size=800,480") {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected bitmap at dest: %v", err)
	}
}

func TestChromiumRendererReportsFailure(t *testing.T) {
	runner := func(context.Context, string, ...string) ([]byte, error) {
		return []byte("no display"), errors.New("exit status 1")
	}
	renderer := render.NewChromiumRenderer("", render.DefaultOptions(), 0, nil).WithRunner(runner)
	_, err := renderer.Render(context.Background(), "<p>x</p>", filepath.Join(t.TempDir(), "x.bmp"))
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestExtractText(t *testing.T) {
	fragment := `<div style="display:flex">
        <b><p>OREAD by H.D.</p></b>
        <p>Whirl up, sea&mdash;<br>whirl your pointed pines,<br><br>splash   your great pines</p>
    </div>`
	lines, err := render.ExtractText(fragment)
	if err != nil {
		t.Fatalf("ExtractText returned error: %v", err)
	}
	want := []string{"OREAD by H.D.", "", "Whirl up, sea—", "whirl your pointed pines,", "", "splash your great pines"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines:\n got %q\nwant %q", lines, want)
	}
}

func TestTextRendererWritesBitmap(t *testing.T) {
	renderer := render.NewTextRenderer(render.DefaultOptions(), nil)
	dest := filepath.Join(t.TempDir(), "poem.bmp")
	if _, err := renderer.Render(context.Background(), "<p>so much depends<br>upon</p>", dest); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() != 48062 {
		t.Fatalf("unexpected size %d", info.Size())
	}
}

func TestNewSelectsRendererFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Renderer = config.RendererBuiltin
	if _, ok := render.New(&cfg, nil).(*render.TextRenderer); !ok {
		t.Fatal("expected builtin renderer")
	}
	cfg.Render.Renderer = config.RendererChromium
	if _, ok := render.New(&cfg, nil).(*render.ChromiumRenderer); !ok {
		t.Fatal("expected chromium renderer")
	}
}
