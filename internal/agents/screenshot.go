package agents

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

// CaptureFunc captures the screen to the given path. Injectable so tests
// never touch a display.
type CaptureFunc func(path string) error

// DefaultCapture shells out to the platform screenshot tool.
func DefaultCapture(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("screencapture", "-x", path)
	case "windows":
		cmd = exec.Command("powershell", "-NoProfile", "-Command",
			fmt.Sprintf(`Add-Type -AssemblyName System.Windows.Forms; `+
				`$b = New-Object Drawing.Bitmap([Windows.Forms.Screen]::PrimaryScreen.Bounds.Width, [Windows.Forms.Screen]::PrimaryScreen.Bounds.Height); `+
				`[Drawing.Graphics]::FromImage($b).CopyFromScreen(0, 0, 0, 0, $b.Size); `+
				`$b.Save('%s')`, path))
	default:
		cmd = exec.Command("scrot", path)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("capture screen: %w: %s", err, out)
	}
	return nil
}

// ScreenshotAgent captures the screen to a timestamped file.
type ScreenshotAgent struct {
	capture CaptureFunc
	dir     string
	now     func() time.Time
	log     zerolog.Logger
}

// NewScreenshot creates the screenshot agent. Captures land under dir; an
// empty dir falls back to the OS temp directory.
func NewScreenshot(capture CaptureFunc, dir string) *ScreenshotAgent {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ScreenshotAgent{
		capture: capture,
		dir:     dir,
		now:     time.Now,
		log:     logging.Component("screenshot"),
	}
}

// Name implements agent.Agent.
func (s *ScreenshotAgent) Name() string { return "screenshot" }

// Process captures the screen and reports the saved path.
func (s *ScreenshotAgent) Process(_ context.Context, _ string) *agent.Result {
	if s.capture == nil {
		return agent.Fail("screen capture is not available on this system")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return agent.Fail(fmt.Sprintf("could not prepare screenshot directory: %v", err))
	}
	path := filepath.Join(s.dir, fmt.Sprintf("screenshot_%s.png", s.now().Format("20060102_150405")))

	if err := s.capture(path); err != nil {
		s.log.Error().Err(err).Msg("screen capture failed")
		return agent.Fail(fmt.Sprintf("could not capture the screen: %v", err))
	}
	s.log.Info().Str("path", path).Msg("screenshot saved")

	return agent.OK(fmt.Sprintf("Screenshot saved to %s", path)).With("path", path)
}
