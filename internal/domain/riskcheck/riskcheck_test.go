package riskcheck

import (
	"errors"
	"strings"
	"testing"

	"lifestory/internal/domain/manuscript"
	"lifestory/internal/errs"
)

func TestParseToleratesSurroundingText(t *testing.T) {
	got, err := Parse(`here you go: {"correctedContent":"x","log":[]} thanks`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.CorrectedContent != "x" {
		t.Fatalf("CorrectedContent = %q", got.CorrectedContent)
	}
	if got.Log == nil || len(got.Log) != 0 {
		t.Fatalf("Log = %#v, want empty slice", got.Log)
	}
}

func TestParseCodeFenceAndEntries(t *testing.T) {
	reply := "```json\n" + `{
  "correctedContent": "私は恩師に教わりました。{注}",
  "log": [
    {"category": "third_party", "original": "田中先生", "modified": "恩師", "reason": "実名のため"},
    {"category": "defamation", "original": "嘘つきだった", "modified": "そう感じていた", "reason": "断定を避ける"}
  ]
}` + "\n```\n以上です。{補足}"

	got, err := Parse(reply)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.CorrectedContent != "私は恩師に教わりました。{注}" {
		t.Fatalf("CorrectedContent = %q", got.CorrectedContent)
	}
	if len(got.Log) != 2 {
		t.Fatalf("Log len = %d", len(got.Log))
	}
	if got.Log[0].Category != manuscript.CategoryThirdParty || got.Log[1].Category != manuscript.CategoryDefamation {
		t.Fatalf("log order/categories = %+v", got.Log)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"no braces":        "I could not process this manuscript.",
		"unbalanced":       `{"correctedContent":"x","log":[]`,
		"invalid json":     `{correctedContent: x}`,
		"missing content":  `{"log":[]}`,
		"missing log":      `{"correctedContent":"x"}`,
		"unknown category": `{"correctedContent":"x","log":[{"category":"gossip","original":"a","modified":"b","reason":"c"}]}`,
		"wrong type":       `{"correctedContent":1,"log":[]}`,
	}
	for name, reply := range cases {
		_, err := Parse(reply)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("%s: error = %v, want ErrMalformedResponse", name, err)
		}
		if !errs.Is(err, errs.KindGeneration) {
			t.Fatalf("%s: kind = %q", name, errs.KindOf(err))
		}
	}
}

func TestFirstObjectIgnoresBracesInStrings(t *testing.T) {
	got, ok := FirstObject(`prefix {"a":"}\"{","b":{"c":1}} suffix {"d":2}`)
	if !ok {
		t.Fatalf("FirstObject() not found")
	}
	if got != `{"a":"}\"{","b":{"c":1}}` {
		t.Fatalf("FirstObject() = %q", got)
	}
}

func TestBuildEmbedsContentAndSchema(t *testing.T) {
	if _, err := Build("  "); !errors.Is(err, manuscript.ErrNoRawContent) {
		t.Fatalf("Build(blank) error = %v", err)
	}

	got, err := Build("本文です。")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, want := range []string{"本文です。", "correctedContent", "third_party", "discrimination", "defamation"} {
		if !strings.Contains(got, want) {
			t.Fatalf("instruction missing %q", want)
		}
	}
}
