package agents

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

// "open chrome", "launch calculator", "start spotify"
var appNamePattern = regexp.MustCompile(`(?i)\b(?:open|launch|start|run)\s+([\w .-]+)`)

// webApps are names that resolve to a URL instead of a local executable.
var webApps = map[string]string{
	"youtube": "https://www.youtube.com",
	"gmail":   "https://mail.google.com",
	"maps":    "https://www.google.com/maps",
	"github":  "https://github.com",
}

// LaunchFunc starts a local application by name. Injectable so tests never
// spawn real processes.
type LaunchFunc func(app string) error

// DefaultLauncher starts the app with the platform's launcher command.
func DefaultLauncher(app string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-a", app)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", app)
	default:
		cmd = exec.Command(app)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", app, err)
	}
	return nil
}

// AppLauncherAgent opens local applications and well-known web apps.
type AppLauncherAgent struct {
	launch LaunchFunc
	opener URLOpener
	log    zerolog.Logger
}

// NewAppLauncher creates the app launcher agent. Either hook may be nil, in
// which case the agent reports what it would have opened without acting.
func NewAppLauncher(launch LaunchFunc, opener URLOpener) *AppLauncherAgent {
	return &AppLauncherAgent{launch: launch, opener: opener, log: logging.Component("applauncher")}
}

// Name implements agent.Agent.
func (a *AppLauncherAgent) Name() string { return "app_launcher" }

// Process extracts the app name and launches it, preferring the web-app map
// over a local executable.
func (a *AppLauncherAgent) Process(_ context.Context, command string) *agent.Result {
	m := appNamePattern.FindStringSubmatch(command)
	if m == nil {
		return agent.Fail("could not tell which app to open; try 'open [app name]'")
	}
	app := strings.ToLower(strings.TrimSpace(m[1]))

	if url, ok := webApps[app]; ok {
		if err := open(a.opener, url); err != nil {
			return agent.Fail(fmt.Sprintf("could not open %s: %v", app, err))
		}
		a.log.Info().Str("app", app).Str("url", url).Msg("web app opened")
		return agent.OK(fmt.Sprintf("Opening %s", app)).
			With("app", app).
			With("url", url)
	}

	if a.launch != nil {
		if err := a.launch(app); err != nil {
			return agent.Fail(fmt.Sprintf("could not launch %s: %v", app, err))
		}
	}
	a.log.Info().Str("app", app).Msg("app launched")
	return agent.OK(fmt.Sprintf("Launching %s", app)).With("app", app)
}
