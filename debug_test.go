package wicket

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected to a pipe and returns
// everything written.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestDebugMaskBudgetWarning(t *testing.T) {
	out := captureStderr(t, func() {
		debugCheckMaskBudget(100, 4)
	})
	if !strings.Contains(out, "mask references") {
		t.Errorf("expected budget warning in stderr, got: %q", out)
	}
}

func TestDebugMaskBudgetQuiet(t *testing.T) {
	out := captureStderr(t, func() {
		debugCheckMaskBudget(10, 4)
	})
	if out != "" {
		t.Errorf("no warning expected for 40 references, got: %q", out)
	}
}

func TestDebugFrameReport(t *testing.T) {
	reg, _, _ := linkedPair(t)
	c := &Compositor{Registry: reg, Device: &recordingDevice{}}
	c.SetDebug(true)

	out := captureStderr(t, func() {
		c.RenderPortals(frontViewpoint())
	})
	if !strings.Contains(out, "[wicket] branches:") {
		t.Errorf("expected traversal report in stderr, got: %q", out)
	}
	if !strings.Contains(out, "aperture draws:") {
		t.Errorf("expected draw counts in stderr, got: %q", out)
	}
}

func TestDebugOffByDefault(t *testing.T) {
	reg, _, _ := linkedPair(t)
	c := &Compositor{Registry: reg, Device: &recordingDevice{}}

	out := captureStderr(t, func() {
		c.RenderPortals(frontViewpoint())
	})
	if out != "" {
		t.Errorf("quiet by default, got: %q", out)
	}
}
