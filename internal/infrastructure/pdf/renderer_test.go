package pdf

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	readpdf "github.com/ledongthuc/pdf"

	"lifestory/internal/bootstrap/config"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/layout"
)

func buildDocument(t *testing.T, chapters ...layout.Chapter) layout.Document {
	t.Helper()
	doc, err := layout.Build(layout.Input{
		AuthorName: "Hanako",
		Chapters:   chapters,
		Date:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("layout.Build() error = %v", err)
	}
	return doc
}

func TestRenderPageCountMatchesLayout(t *testing.T) {
	long := strings.Repeat(strings.Repeat("a", 80)+"\n", 40)
	doc := buildDocument(t,
		layout.Chapter{Number: 1, Content: "Short chapter."},
		layout.Chapter{Number: 2, Content: long},
	)

	r := &Renderer{compress: false}
	out, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf: %q", out[:min(len(out), 16)])
	}

	reader, err := readpdf.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("read back pdf: %v", err)
	}
	if got := reader.NumPage(); got != len(doc.Pages) {
		t.Fatalf("NumPage() = %d, want %d", got, len(doc.Pages))
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := buildDocument(t, layout.Chapter{Number: 1, Content: "Same text."})
	r := NewRenderer(config.PDFConfig{})

	first, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := r.Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("Render() output differs between runs")
	}
}

func TestRenderMissingFontFails(t *testing.T) {
	doc := buildDocument(t, layout.Chapter{Number: 1, Content: "x"})
	r := NewRenderer(config.PDFConfig{FontPath: t.TempDir() + "/missing.ttf"})
	if _, err := r.Render(context.Background(), doc); err == nil {
		t.Fatal("Render() error = nil, want font error")
	}
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	if _, err := NewRenderer(config.PDFConfig{}).Render(context.Background(), layout.Document{}); err == nil {
		t.Fatal("Render() error = nil")
	}
}

func TestRenderWarnsWhenCoreFontDropsJapanese(t *testing.T) {
	doc := buildDocument(t, layout.Chapter{Number: 1, Content: "昭和二十年に生まれました。"})

	var logs bytes.Buffer
	ctx := logging.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))

	r := NewRenderer(config.PDFConfig{})
	if _, err := r.Render(ctx, doc); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "core font cannot draw Japanese text") {
		t.Fatalf("missing fallback warning, logs = %q", out)
	}
}
