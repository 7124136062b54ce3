package catalog

import (
	"fmt"
	"strings"
	"testing"
)

func TestDefaultCatalogShape(t *testing.T) {
	c := Default()
	if c.ChapterCount() != 5 {
		t.Fatalf("chapters = %d, want 5", c.ChapterCount())
	}
	if c.SessionCount() != 6 {
		t.Fatalf("sessions = %d, want 6", c.SessionCount())
	}

	ch, ok := c.Chapter(3)
	if !ok || ch.Title == "" || ch.Description == "" {
		t.Fatalf("Chapter(3) = %+v, %v", ch, ok)
	}
	if _, ok := c.Chapter(6); ok {
		t.Fatalf("Chapter(6) should not exist")
	}
	if _, ok := c.Session(6); !ok {
		t.Fatalf("Session(6) should exist")
	}
}

func TestChapterHeadingFallback(t *testing.T) {
	c := Default()
	if got := c.ChapterHeading(1); !strings.HasPrefix(got, "第1章　") || !strings.HasSuffix(got, "生い立ち") {
		t.Fatalf("ChapterHeading(1) = %q", got)
	}
	if got := c.ChapterHeading(9); got != "第9章" {
		t.Fatalf("ChapterHeading(9) = %q, want bare label", got)
	}
}

func TestParseRejectsGaps(t *testing.T) {
	data := []byte("sessions:\n  - number: 1\n    theme: a\nchapters:\n  - number: 1\n    title: a\n  - number: 3\n    title: c\n")
	if _, err := Parse(data); err == nil {
		t.Fatalf("Parse() expected error for non-sequential chapters")
	}
	if _, err := Parse([]byte("chapters: []\n")); err == nil {
		t.Fatalf("Parse() expected error for empty catalog")
	}
}

func TestParseRequiresFixedShape(t *testing.T) {
	if _, err := Parse([]byte(fixedShapeYAML(6, 7))); err == nil {
		t.Fatal("Parse() accepted 7 chapters")
	}

	if _, err := Parse([]byte(fixedShapeYAML(3, 5))); err == nil {
		t.Fatal("Parse() accepted 3 sessions")
	}

	c, err := Parse([]byte(fixedShapeYAML(6, 5)))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.ChapterCount() != ChapterTotal || c.SessionCount() != SessionTotal {
		t.Fatalf("counts = %d/%d", c.ChapterCount(), c.SessionCount())
	}
}

func fixedShapeYAML(sessions, chapters int) string {
	var b strings.Builder
	b.WriteString("sessions:\n")
	for i := 1; i <= sessions; i++ {
		fmt.Fprintf(&b, "  - number: %d\n    theme: s%d\n", i, i)
	}
	b.WriteString("chapters:\n")
	for i := 1; i <= chapters; i++ {
		fmt.Fprintf(&b, "  - number: %d\n    title: c%d\n", i, i)
	}
	return b.String()
}
