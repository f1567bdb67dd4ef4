package clipboard

import (
	"os/exec"
	"testing"
)

func TestRunClipboardCmd_MissingBinary(t *testing.T) {
	if err := runClipboardCmd("clipdeck-no-such-clipboard-tool", nil, "x"); err == nil {
		t.Fatalf("expected error for missing binary")
	}
}

func TestRunClipboardCmd_FeedsStdin(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	// The command fails unless stdin carries the payload.
	if err := runClipboardCmd("sh", []string{"-c", `test "$(cat)" = "hello"`}, "hello"); err != nil {
		t.Fatalf("expected payload on stdin: %v", err)
	}
	if err := runClipboardCmd("sh", []string{"-c", `test "$(cat)" = "hello"`}, "other"); err == nil {
		t.Fatalf("expected mismatch to fail")
	}
}
