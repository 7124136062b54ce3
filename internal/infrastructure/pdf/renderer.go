// Package pdf renders a laid-out book with gofpdf.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"lifestory/internal/bootstrap/config"
	"lifestory/internal/bootstrap/logging"
	"lifestory/internal/domain/layout"
	"lifestory/internal/errs"
	"lifestory/internal/ports"
)

const bodyFamily = "body"

// Renderer draws every positioned text of a layout.Document. Without a
// configured TrueType font it falls back to Helvetica, which cannot show
// Japanese glyphs but keeps pagination intact.
type Renderer struct {
	fontPath string
	compress bool
}

var _ ports.DocumentRenderer = (*Renderer)(nil)

func NewRenderer(cfg config.PDFConfig) *Renderer {
	return &Renderer{fontPath: strings.TrimSpace(cfg.FontPath), compress: true}
}

func (r *Renderer) Render(ctx context.Context, doc layout.Document) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if len(doc.Pages) == 0 {
		return nil, errors.New("document has no pages")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(layout.MarginLeft, layout.MarginTop, layout.MarginLeft)
	pdf.SetCatalogSort(true)
	if !doc.Date.IsZero() {
		pdf.SetCreationDate(doc.Date)
	}

	utf8 := r.fontPath != ""
	family := "Helvetica"
	encode := pdf.UnicodeTranslatorFromDescriptor("")
	if utf8 {
		pdf.AddUTF8Font(bodyFamily, "", r.fontPath)
		family = bodyFamily
		encode = func(s string) string { return s }
	}
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator("lifestory", false)
	if err := pdf.Error(); err != nil {
		return nil, errs.Wrap(err, "prepare pdf font")
	}
	if !utf8 {
		if n := unencodableTexts(doc); n > 0 {
			logging.Warn(
				logging.WithComponent(ctx, "pdf.renderer"),
				"no pdf.font_path configured, core font cannot draw Japanese text",
				slog.Int("affected_texts", n),
			)
		}
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, t := range page.Texts {
			pdf.SetFont(family, "", t.Size)
			value := encode(t.Value)
			x := t.X
			if t.Align == layout.AlignCenter {
				x -= pdf.GetStringWidth(value) / 2
			}
			pdf.Text(x, t.Y, value)
		}
		if err := pdf.Error(); err != nil {
			return nil, errs.Wrapf(err, "render %s page", page.Kind)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(err, "write pdf")
	}

	logging.Debug(
		logging.WithComponent(ctx, "pdf.renderer"),
		"pdf rendered",
		slog.Int("pages", len(doc.Pages)),
		slog.Int("bytes", buf.Len()),
		slog.Bool("utf8_font", utf8),
	)
	return buf.Bytes(), nil
}

// unencodableTexts counts texts with runes outside Latin-1, which the core
// fonts cannot draw.
func unencodableTexts(doc layout.Document) int {
	n := 0
	for _, page := range doc.Pages {
		for _, t := range page.Texts {
			for _, r := range t.Value {
				if r > 0xff {
					n++
					break
				}
			}
		}
	}
	return n
}
