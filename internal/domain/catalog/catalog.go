// Package catalog holds the static interview-session themes and chapter
// templates. The data is embedded and read-only.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// A book always has five chapters fed by six interview sessions.
const (
	ChapterTotal = 5
	SessionTotal = 6
)

type ChapterTemplate struct {
	Number      int    `yaml:"number" json:"number"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type InterviewSession struct {
	Number    int      `yaml:"number" json:"sessionNumber"`
	Theme     string   `yaml:"theme" json:"theme"`
	Questions []string `yaml:"questions" json:"questions,omitempty"`
}

type Catalog struct {
	Sessions []InterviewSession `yaml:"sessions" json:"sessions"`
	Chapters []ChapterTemplate  `yaml:"chapters" json:"chapters"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the embedded catalog. It panics if the embedded data is
// invalid, which is a build defect rather than a runtime condition.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates catalog YAML. Numbers must run 1..n in order
// and the chapter and session counts are fixed.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Chapters) != ChapterTotal {
		return nil, fmt.Errorf("catalog needs exactly %d chapters, got %d", ChapterTotal, len(c.Chapters))
	}
	if len(c.Sessions) != SessionTotal {
		return nil, fmt.Errorf("catalog needs exactly %d sessions, got %d", SessionTotal, len(c.Sessions))
	}
	for i, ch := range c.Chapters {
		if ch.Number != i+1 {
			return nil, fmt.Errorf("chapter %d out of sequence at position %d", ch.Number, i+1)
		}
		if strings.TrimSpace(ch.Title) == "" {
			return nil, fmt.Errorf("chapter %d has no title", ch.Number)
		}
	}
	for i, s := range c.Sessions {
		if s.Number != i+1 {
			return nil, fmt.Errorf("session %d out of sequence at position %d", s.Number, i+1)
		}
		if strings.TrimSpace(s.Theme) == "" {
			return nil, fmt.Errorf("session %d has no theme", s.Number)
		}
	}
	return &c, nil
}

func (c *Catalog) Chapter(number int) (ChapterTemplate, bool) {
	for _, ch := range c.Chapters {
		if ch.Number == number {
			return ch, true
		}
	}
	return ChapterTemplate{}, false
}

func (c *Catalog) Session(number int) (InterviewSession, bool) {
	for _, s := range c.Sessions {
		if s.Number == number {
			return s, true
		}
	}
	return InterviewSession{}, false
}

func (c *Catalog) ChapterCount() int { return len(c.Chapters) }

func (c *Catalog) SessionCount() int { return len(c.Sessions) }

// ChapterHeading is the label used in the table of contents and on chapter
// pages. Unknown numbers fall back to the bare chapter label.
func (c *Catalog) ChapterHeading(number int) string {
	if ch, ok := c.Chapter(number); ok {
		return fmt.Sprintf("第%d章　%s", ch.Number, ch.Title)
	}
	return fmt.Sprintf("第%d章", number)
}
