package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestQuietKeepsFileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "swara.log")
	if err := Setup("info", logFile); err != nil {
		t.Fatal(err)
	}

	before := Component("test")
	before.Info().Msg("before quiet")
	Quiet()
	after := Component("test")
	after.Info().Msg("after quiet")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "before quiet") {
		t.Errorf("log file missing pre-quiet event: %q", out)
	}
	if !strings.Contains(out, "after quiet") {
		t.Errorf("log file missing post-quiet event: %q", out)
	}
}

func TestQuietWithoutFileDiscards(t *testing.T) {
	if err := Setup("info", ""); err != nil {
		t.Fatal(err)
	}
	Quiet()
	// Must not panic with no file sink configured.
	logger := Component("test")
	logger.Info().Msg("dropped")
}
