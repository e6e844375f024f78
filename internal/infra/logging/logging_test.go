//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"pitwall-gateway/internal/config"
)

func TestWithCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, config.LogConfig{Level: "debug", Format: "json"}, false)

	ctx := WithSessID(WithTraceID(context.Background(), "t-1"), "abc123")
	With(ctx, base).Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["trace_id"] != "t-1" || line["session_id"] != "abc123" {
		t.Fatalf("fields missing: %v", line)
	}
}

func TestLevelIsRespected(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LogConfig{Level: "warn", Format: "json"}, false)
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Fatal("warn must be written")
	}
}

func TestRedact(t *testing.T) {
	if got := Redact("abc", false); got != "***" {
		t.Fatalf("short = %q", got)
	}
	if got := Redact("0f8c2a9e-1111-2222", false); got != "0f8c...22" {
		t.Fatalf("long = %q", got)
	}
	if got := Redact("abc123", true); got != "abc123" {
		t.Fatalf("dev = %q", got)
	}
}
