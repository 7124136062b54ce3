package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestContextAttrsAreMergedIntoRecords(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "debug", "json"))
	ctx = WithComponent(ctx, "usecase.pipeline")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithComponent(ctx, "httpapi")

	Info(ctx, "chapter generated", slog.Int("chapter", 2))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log record: %v (%s)", err, buf.String())
	}
	if record["component"] != "httpapi" {
		t.Fatalf("component = %v, want latest value", record["component"])
	}
	if record["request_id"] != "req-1" {
		t.Fatalf("request_id = %v", record["request_id"])
	}
	if record["chapter"] != float64(2) {
		t.Fatalf("chapter = %v", record["chapter"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "warn", "text"))

	Info(ctx, "dropped")
	Debug(ctx, "dropped too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	Warn(ctx, "kept")
	if !bytes.Contains(buf.Bytes(), []byte("kept")) {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
