package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf}).With(String("component", "baseline"))

	log.Debug(context.Background(), "batch done",
		Int("baselines", 8128),
		Float("seconds", 0.25),
		Err(errors.New("boom")),
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["msg"] != "batch done" || rec["component"] != "baseline" {
		t.Fatalf("unexpected record %v", rec)
	}
	if rec["baselines"] != float64(8128) || rec["error"] != "boom" {
		t.Fatalf("fields missing from %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("level filtering failed: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEnsureBatchID(t *testing.T) {
	ctx, id := EnsureBatchID(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("batch id %q is not a UUID: %v", id, err)
	}
	again, id2 := EnsureBatchID(ctx)
	if id2 != id || BatchIDFromContext(again) != id {
		t.Fatalf("existing batch id replaced: %q -> %q", id, id2)
	}
	if BatchIDFromContext(context.Background()) != "" {
		t.Fatal("empty context has a batch id")
	}
}

func TestBatchLoggerTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Format: "json", Output: &buf})

	ctx, log := WithBatchLogger(context.Background(), base)
	log.Info(ctx, "start")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["batch_id"] != BatchIDFromContext(ctx) {
		t.Fatalf("batch_id = %v, want %s", rec["batch_id"], BatchIDFromContext(ctx))
	}
	if FromContext(ctx, nil) != base {
		t.Fatal("logger not stored on context")
	}
}

func TestFromContextFallback(t *testing.T) {
	fallback := Noop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("fallback not returned")
	}
	if FromContext(context.Background(), nil) == nil {
		t.Fatal("nil fallback should give a noop logger")
	}
}
