package log_test

import (
	"io"
	"os"
	"testing"

	"github.com/dimasma0305/juicectf/function/log"
	"github.com/fatih/color"
)

// capture redirects *stream while fn runs and returns what was written.
func capture(t *testing.T, stream **os.File, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := *stream
	*stream = w
	defer func() { *stream = orig }()

	fn()
	w.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestConsoleHelpers(t *testing.T) {
	color.NoColor = true

	stdout := capture(t, &os.Stdout, func() {
		log.Info("Fetched data from %s", "http://localhost:3000")
		log.InfoH2("%d challenges", 2)
		log.SuccessWrite("Export", "out.json")
	})
	want := "[x] Fetched data from http://localhost:3000\n  [x] 2 challenges\n[x] Export written to out.json\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	stderr := capture(t, &os.Stderr, func() {
		log.Error("Failed to print records: %s", "boom")
		log.Warning("careful")
	})
	want = "[x] Failed to print records: boom\n[!] careful\n"
	if stderr != want {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}
}
