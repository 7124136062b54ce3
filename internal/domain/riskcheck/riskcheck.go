// Package riskcheck builds the privacy/defamation screening instruction and
// parses the generator's reply into a typed result.
package riskcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
)

// ErrMalformedResponse marks a reply that does not contain a usable result.
// It is terminal for the request.
var ErrMalformedResponse = errs.New(errs.KindGeneration, "malformed risk-check response")

var categoryDefinitions = []struct {
	category manuscript.Category
	label    string
	rule     string
}{
	{manuscript.CategoryThirdParty, "第三者特定リスク", "実名、勤務先、住所、学校名など第三者を特定できる情報を一般的な表現に置き換える"},
	{manuscript.CategoryDiscrimination, "差別表現", "出自、性別、障害、職業などに関する差別的・侮蔑的な表現を中立的な表現に改める"},
	{manuscript.CategoryDefamation, "名誉毀損リスク", "他者の社会的評価を下げる断定的な記述を、語り手の主観としての表現に改める"},
}

var (
	schemaOnce sync.Once
	schemaText string
)

// responseSchema renders the JSON schema of manuscript.RiskCheckResult.
func responseSchema() string {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
		s := r.Reflect(&manuscript.RiskCheckResult{})
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			panic(fmt.Sprintf("marshal risk-check schema: %v", err))
		}
		schemaText = string(data)
	})
	return schemaText
}

// Build returns the instruction asking the generator to correct content and
// report each change.
func Build(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", manuscript.ErrNoRawContent
	}

	var b strings.Builder
	b.WriteString("あなたは出版前の原稿を確認する校閲者です。\n")
	b.WriteString("以下の自分史原稿を読み、次の観点で問題のある箇所を修正してください。\n\n")
	b.WriteString("【チェック観点】\n")
	for i, def := range categoryDefinitions {
		fmt.Fprintf(&b, "%d. %s（category: %s）: %s\n", i+1, def.label, def.category, def.rule)
	}
	b.WriteString("\n【修正方針】\n")
	b.WriteString("- 問題のない箇所は一字一句変更しない\n")
	b.WriteString("- 語り手の想いや文体は保つ\n")
	b.WriteString("- 修正した箇所ごとに log に1件ずつ記録する（修正がなければ空配列）\n\n")
	b.WriteString("【原稿】\n")
	b.WriteString(content)
	b.WriteString("\n\n【出力形式】\n")
	b.WriteString("次の JSON スキーマに従う JSON オブジェクトのみを出力してください。\n")
	b.WriteString(responseSchema())
	return b.String(), nil
}

type wireResult struct {
	CorrectedContent *string                         `json:"correctedContent"`
	Log              *[]manuscript.RiskCheckLogEntry `json:"log"`
}

// Parse extracts the first top-level JSON object from reply and decodes it.
// Surrounding prose or code fences are ignored; a missing, unbalanced or
// invalid object fails with ErrMalformedResponse.
func Parse(reply string) (manuscript.RiskCheckResult, error) {
	raw, ok := FirstObject(reply)
	if !ok {
		return manuscript.RiskCheckResult{}, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	var wire wireResult
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(&wire); err != nil {
		return manuscript.RiskCheckResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.CorrectedContent == nil {
		return manuscript.RiskCheckResult{}, fmt.Errorf("%w: correctedContent missing", ErrMalformedResponse)
	}
	if wire.Log == nil {
		return manuscript.RiskCheckResult{}, fmt.Errorf("%w: log missing", ErrMalformedResponse)
	}

	result := manuscript.RiskCheckResult{
		CorrectedContent: *wire.CorrectedContent,
		Log:              *wire.Log,
	}
	if err := result.Validate(); err != nil {
		return manuscript.RiskCheckResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return result, nil
}

// FirstObject returns the substring from the first '{' to its matching '}',
// skipping braces that appear inside JSON strings.
func FirstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
