// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "dispatcher", LevelWarn)

	l.Debug("prefix table built with %d entries", 4)
	l.Info("port %s bound", "A")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below min level, got %q", buf.String())
	}

	l.Warn("publisher backpressure on %s", "B")
	if !strings.Contains(buf.String(), "[WARNING]") || !strings.Contains(buf.String(), "[dispatcher]") {
		t.Fatalf("unexpected log line: %q", buf.String())
	}
}

func TestLoggerSetMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loader", LevelErr)
	l.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be dropped at LevelErr")
	}

	l.SetMinLevel(LevelDebug)
	l.Info("visible now")
	if !strings.Contains(buf.String(), "visible now") {
		t.Fatalf("expected message after lowering level, got %q", buf.String())
	}
}
