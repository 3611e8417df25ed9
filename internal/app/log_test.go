package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogHandler_Handle(t *testing.T) {
	ts := time.Date(2026, 10, 17, 18, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "20261017T183045Z",
			level:   slog.LevelInfo,
			message: "rule updated",
			want:    "2026-10-17T18:30:45Z\tINFO\t20261017T183045Z\trule updated\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-1",
			level:   slog.LevelWarn,
			message: "invalid child record",
			attrs:   []slog.Attr{slog.String("child", "2"), slog.Int("days", 5)},
			want:    "2026-10-17T18:30:45Z\tWARN\top-1\tinvalid child record\tchild=2\tdays=5\n",
		},
		{
			name:    "values with spaces are quoted",
			opID:    "op-2",
			level:   slog.LevelError,
			message: "marking notifications read",
			attrs:   []slog.Attr{slog.String("error", "data access: offline")},
			want:    "2026-10-17T18:30:45Z\tERROR\top-2\tmarking notifications read\terror=\"data access: offline\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &logHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLogHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &logHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "vault")}).(*logHandler)
	if len(h.attrs) != 1 || len(h2.attrs) != 2 {
		t.Errorf("attrs: original %d (want 1), derived %d (want 2)", len(h.attrs), len(h2.attrs))
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "upload", 0)
	r.AddAttrs(slog.String("key", "abc"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "\ta=1\tcomponent=vault\tkey=abc\n") {
		t.Errorf("Handle() output = %q", got)
	}
}

func TestLogHandler_Enabled(t *testing.T) {
	h := &logHandler{minLevel: slog.LevelWarn}
	tests := map[slog.Level]bool{
		slog.LevelDebug: false,
		slog.LevelInfo:  false,
		slog.LevelWarn:  true,
		slog.LevelError: true,
	}
	for level, want := range tests {
		if got := h.Enabled(context.Background(), level); got != want {
			t.Errorf("Enabled(%v) = %v, want %v", level, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	var stderr bytes.Buffer

	logger, f, err := newLogger(dir, "op-7", &stderr, slog.LevelWarn)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Info("child added", "child", "c1")
	logger.Warn("invalid child record", "child", "c2")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Errorf("log file has %d lines, want 2:\n%s", lines, data)
	}
	if got := stderr.String(); strings.Contains(got, "child added") || !strings.Contains(got, "\top-7\tinvalid child record\tchild=c2") {
		t.Errorf("stderr = %q, want only the warning", got)
	}
}
