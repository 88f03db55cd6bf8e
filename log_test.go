package wicket

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() must never be nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should discard everything")
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	Logger().Debug("branch skipped", "portal", 3)
	if !strings.Contains(buf.String(), "branch skipped") {
		t.Errorf("log output %q missing message", buf.String())
	}
	if !strings.Contains(buf.String(), "portal=3") {
		t.Errorf("log output %q missing attrs", buf.String())
	}

	// nil reinstalls the silent default.
	SetLogger(nil)
	buf.Reset()
	Logger().Debug("dropped")
	if buf.Len() != 0 {
		t.Errorf("silenced logger still wrote %q", buf.String())
	}
}

func TestLoggerUnlinkDiagnostic(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	reg := NewRegistry()
	a := reg.Add(NewPortal(mgl32.Ident4(), 1, 1))
	b := reg.Add(NewPortal(mgl32.Translate3D(5, 0, 0), 1, 1))
	if err := reg.Link(a, b); err != nil {
		t.Fatal(err)
	}
	reg.Destroy(b)

	if !strings.Contains(buf.String(), "portal unlinked") {
		t.Errorf("destroying a linked portal should log the auto-unlink, got %q", buf.String())
	}
}
