package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()
	log, buf := newBufLogger()

	log.Debug(ctx, "d")
	log.Info(ctx, "i")
	log.Warn(ctx, "w")
	log.Error(ctx, "e")

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "level=INFO")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "level=ERROR")
}

func TestSlogLogger_WithAddsAttrs(t *testing.T) {
	ctx := context.Background()
	log, buf := newBufLogger()

	child := log.With("component", "session")
	child.Info(ctx, "saved")

	require.Contains(t, buf.String(), "component=session")
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := NewText(&buf)
	log.Info(context.Background(), "hello")
	require.Contains(t, buf.String(), "msg=hello")
}
