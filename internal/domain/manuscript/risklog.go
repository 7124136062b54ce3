package manuscript

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryThirdParty     Category = "third_party"
	CategoryDiscrimination Category = "discrimination"
	CategoryDefamation     Category = "defamation"
)

// Categories lists every category in a stable order.
func Categories() []Category {
	return []Category{CategoryThirdParty, CategoryDiscrimination, CategoryDefamation}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryThirdParty, CategoryDiscrimination, CategoryDefamation:
		return true
	}
	return false
}

// RiskCheckLogEntry records one corrected passage. Entries keep the order
// the detector reported them in.
type RiskCheckLogEntry struct {
	Category Category `json:"category" jsonschema:"enum=third_party,enum=discrimination,enum=defamation"`
	Original string   `json:"original" jsonschema:"description=offending excerpt as it appears in the manuscript"`
	Modified string   `json:"modified" jsonschema:"description=replacement excerpt"`
	Reason   string   `json:"reason" jsonschema:"description=why the passage was changed"`
}

func (e RiskCheckLogEntry) Validate() error {
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if strings.TrimSpace(e.Original) == "" {
		return fmt.Errorf("log entry (%s) has empty original excerpt", e.Category)
	}
	return nil
}

// RiskCheckResult is the structured reply of a risk check.
type RiskCheckResult struct {
	CorrectedContent string              `json:"correctedContent" jsonschema:"required,description=full manuscript text with every issue corrected"`
	Log              []RiskCheckLogEntry `json:"log" jsonschema:"required,description=one entry per corrected issue"`
}

func (r RiskCheckResult) Validate() error {
	if strings.TrimSpace(r.CorrectedContent) == "" {
		return fmt.Errorf("corrected content is empty")
	}
	for i, entry := range r.Log {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("log[%d]: %w", i, err)
		}
	}
	return nil
}
