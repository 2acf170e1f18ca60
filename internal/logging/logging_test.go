package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel)

	l.Debug("hidden")
	l.Info("converted", "objects", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %q", out)
	}
	if !strings.Contains(out, "converted") || !strings.Contains(out, "objects=4") {
		t.Errorf("expected info message with fields, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil || lvl != log.InfoLevel {
		t.Errorf("empty level: got %v, %v", lvl, err)
	}
	lvl, err = ParseLevel("debug")
	if err != nil || lvl != log.DebugLevel {
		t.Errorf("debug level: got %v, %v", lvl, err)
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected logger from context")
	}
	if FromContext(context.Background()) != log.Default() {
		t.Error("expected default logger without one attached")
	}
}
