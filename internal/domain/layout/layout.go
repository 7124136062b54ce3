// Package layout paginates a life-story book: cover, table of contents,
// chapter bodies and a closing disclaimer. It produces positioned text only;
// rendering to PDF happens elsewhere.
package layout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lifestory/internal/domain/catalog"
	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
)

// Page geometry in millimetres (A4 portrait) and font sizes in points.
const (
	PageWidth    = 210.0
	PageHeight   = 297.0
	MarginTop    = 30.0
	MarginBottom = 30.0
	MarginLeft   = 30.0

	LineBudget  = 40
	BodyStartY  = 55.0
	LineSpacing = 7.0

	coverTitleSize  = 28.0
	coverAuthorSize = 16.0
	coverDateSize   = 12.0
	tocHeadingSize  = 20.0
	tocEntrySize    = 14.0
	tocHeadingY     = 40.0
	tocEntryX       = 40.0
	tocFirstEntryY  = 70.0
	tocEntrySpacing = 15.0
	chapterTitleY   = 35.0
	chapterTitle    = 18.0
	bodySize        = 11.0
	disclaimerSize  = 10.0
	disclaimerGap   = 8.0
)

// DisclaimerText closes every book.
const DisclaimerText = "本書はご本人の語りをもとにAIが編集した記録です。\nプライバシー保護のため、一部表現を調整しています。"

var ErrAuthorRequired = errs.New(errs.KindValidation, "author name is required")

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

type PageKind string

const (
	PageCover      PageKind = "cover"
	PageContents   PageKind = "contents"
	PageChapter    PageKind = "chapter"
	PageDisclaimer PageKind = "disclaimer"
)

// Text is one line placed on a page. For AlignCenter, X is the centre.
type Text struct {
	Value string
	X, Y  float64
	Size  float64
	Align Align
	Body  bool
}

type Page struct {
	Kind    PageKind
	Chapter int
	Texts   []Text
}

type Chapter struct {
	Number  int
	Content string
}

type Input struct {
	AuthorName string
	Title      string
	Chapters   []Chapter
	Date       time.Time
	Catalog    *catalog.Catalog
}

type Document struct {
	Title  string
	Author string
	Date   time.Time
	Pages  []Page
}

// BodyLines returns the wrapped body lines of every page of chapter n.
func (d Document) BodyLines(n int) []string {
	var out []string
	for _, p := range d.Pages {
		if p.Kind != PageChapter || p.Chapter != n {
			continue
		}
		for _, t := range p.Texts {
			if t.Body {
				out = append(out, t.Value)
			}
		}
	}
	return out
}

func (d Document) CountPages(kind PageKind) int {
	n := 0
	for _, p := range d.Pages {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func DefaultTitle(author string) string {
	return author + "の自分史"
}

func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// Build lays out the whole book. Chapters appear in input order.
func Build(in Input) (Document, error) {
	author := strings.TrimSpace(in.AuthorName)
	if author == "" {
		return Document{}, ErrAuthorRequired
	}
	if len(in.Chapters) == 0 {
		return Document{}, manuscript.ErrNothingToDeliver
	}
	if in.Date.IsZero() {
		return Document{}, errors.New("layout date is required")
	}
	cat := in.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle(author)
	}

	doc := Document{Title: title, Author: author, Date: in.Date}
	doc.Pages = append(doc.Pages, coverPage(title, author, in.Date))
	doc.Pages = append(doc.Pages, contentsPage(cat, in.Chapters))
	for _, ch := range in.Chapters {
		doc.Pages = append(doc.Pages, chapterPages(cat, ch)...)
	}
	doc.Pages = append(doc.Pages, disclaimerPage())
	return doc, nil
}

func coverPage(title, author string, date time.Time) Page {
	cx, cy := PageWidth/2, PageHeight/2
	return Page{
		Kind: PageCover,
		Texts: []Text{
			{Value: title, X: cx, Y: cy - 30, Size: coverTitleSize, Align: AlignCenter},
			{Value: author, X: cx, Y: cy + 10, Size: coverAuthorSize, Align: AlignCenter},
			{Value: FormatDate(date), X: cx, Y: cy + 30, Size: coverDateSize, Align: AlignCenter},
		},
	}
}

func contentsPage(cat *catalog.Catalog, chapters []Chapter) Page {
	p := Page{Kind: PageContents}
	p.Texts = append(p.Texts, Text{Value: "目次", X: PageWidth / 2, Y: tocHeadingY, Size: tocHeadingSize, Align: AlignCenter})
	for i, ch := range chapters {
		p.Texts = append(p.Texts, Text{
			Value: cat.ChapterHeading(ch.Number),
			X:     tocEntryX,
			Y:     tocFirstEntryY + float64(i)*tocEntrySpacing,
			Size:  tocEntrySize,
		})
	}
	return p
}

func chapterPages(cat *catalog.Catalog, ch Chapter) []Page {
	current := Page{Kind: PageChapter, Chapter: ch.Number}
	current.Texts = append(current.Texts, Text{
		Value: cat.ChapterHeading(ch.Number),
		X:     PageWidth / 2,
		Y:     chapterTitleY,
		Size:  chapterTitle,
		Align: AlignCenter,
	})

	var pages []Page
	maxY := PageHeight - MarginBottom
	y := BodyStartY
	for _, line := range WrapLines(strings.TrimRight(ch.Content, " \t\r\n"), LineBudget) {
		if y+LineSpacing > maxY {
			pages = append(pages, current)
			current = Page{Kind: PageChapter, Chapter: ch.Number}
			y = MarginTop
		}
		if line == "" {
			y += LineSpacing / 2
			continue
		}
		current.Texts = append(current.Texts, Text{Value: line, X: MarginLeft, Y: y, Size: bodySize, Body: true})
		y += LineSpacing
	}
	return append(pages, current)
}

func disclaimerPage() Page {
	p := Page{Kind: PageDisclaimer}
	for i, line := range strings.Split(DisclaimerText, "\n") {
		p.Texts = append(p.Texts, Text{
			Value: line,
			X:     PageWidth / 2,
			Y:     PageHeight - 50 + float64(i)*disclaimerGap,
			Size:  disclaimerSize,
			Align: AlignCenter,
		})
	}
	return p
}
