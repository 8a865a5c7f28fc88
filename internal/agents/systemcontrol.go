package agents

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

// RunFunc executes a system command. Injectable so tests never change real
// system state.
type RunFunc func(name string, args ...string) error

// DefaultRunner executes the command directly.
func DefaultRunner(name string, args ...string) error {
	if out, err := exec.Command(name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// systemAction is one controllable operation with per-OS commands.
type systemAction struct {
	name     string
	keywords []string
	commands map[string][]string // GOOS -> argv
	reply    string
}

var systemActions = []systemAction{
	{
		name:     "volume up",
		keywords: []string{"volume up", "increase volume", "louder", "turn up"},
		commands: map[string][]string{
			"darwin":  {"osascript", "-e", "set volume output volume ((output volume of (get volume settings)) + 10)"},
			"linux":   {"amixer", "-D", "pulse", "sset", "Master", "10%+"},
			"windows": {"powershell", "-NoProfile", "-Command", "(New-Object -ComObject WScript.Shell).SendKeys([char]175)"},
		},
		reply: "Volume increased",
	},
	{
		name:     "volume down",
		keywords: []string{"volume down", "decrease volume", "quieter", "turn down"},
		commands: map[string][]string{
			"darwin":  {"osascript", "-e", "set volume output volume ((output volume of (get volume settings)) - 10)"},
			"linux":   {"amixer", "-D", "pulse", "sset", "Master", "10%-"},
			"windows": {"powershell", "-NoProfile", "-Command", "(New-Object -ComObject WScript.Shell).SendKeys([char]174)"},
		},
		reply: "Volume decreased",
	},
	{
		name:     "mute",
		keywords: []string{"mute", "unmute", "silence"},
		commands: map[string][]string{
			"darwin":  {"osascript", "-e", "set volume with output muted"},
			"linux":   {"amixer", "-D", "pulse", "sset", "Master", "toggle"},
			"windows": {"powershell", "-NoProfile", "-Command", "(New-Object -ComObject WScript.Shell).SendKeys([char]173)"},
		},
		reply: "Audio mute toggled",
	},
	{
		name:     "lock screen",
		keywords: []string{"lock screen", "lock the screen", "lock my"},
		commands: map[string][]string{
			"darwin":  {"pmset", "displaysleepnow"},
			"linux":   {"loginctl", "lock-session"},
			"windows": {"rundll32", "user32.dll,LockWorkStation"},
		},
		reply: "Screen locked",
	},
	{
		name:     "sleep",
		keywords: []string{"sleep", "hibernate", "suspend"},
		commands: map[string][]string{
			"darwin":  {"pmset", "sleepnow"},
			"linux":   {"systemctl", "suspend"},
			"windows": {"rundll32", "powrprof.dll,SetSuspendState", "0,1,0"},
		},
		reply: "Going to sleep",
	},
	{
		name:     "brightness up",
		keywords: []string{"brightness up", "increase brightness", "brighter"},
		commands: map[string][]string{
			"linux": {"brightnessctl", "set", "+10%"},
		},
		reply: "Brightness increased",
	},
	{
		name:     "brightness down",
		keywords: []string{"brightness down", "decrease brightness", "dimmer"},
		commands: map[string][]string{
			"linux": {"brightnessctl", "set", "10%-"},
		},
		reply: "Brightness decreased",
	},
}

// SystemControlAgent handles volume, brightness, power, battery and time.
type SystemControlAgent struct {
	run RunFunc
	now func() time.Time
	log zerolog.Logger
}

// NewSystemControl creates the system control agent. run may be nil, which
// reports actions without executing them.
func NewSystemControl(run RunFunc) *SystemControlAgent {
	return &SystemControlAgent{
		run: run,
		now: time.Now,
		log: logging.Component("systemcontrol"),
	}
}

// Name implements agent.Agent.
func (s *SystemControlAgent) Name() string { return "system_control" }

// Process answers time and battery queries inline and runs the matching
// system command for everything else. Shutdown and restart are deliberately
// excluded from voice control.
func (s *SystemControlAgent) Process(_ context.Context, command string) *agent.Result {
	lower := strings.ToLower(command)

	if strings.Contains(lower, "time") {
		now := s.now()
		return agent.OK(fmt.Sprintf("It's %s", now.Format("3:04 PM on Monday, January 2"))).
			With("time", now.Format(time.RFC3339))
	}
	if strings.Contains(lower, "battery") {
		return s.batteryStatus()
	}
	if strings.Contains(lower, "shutdown") || strings.Contains(lower, "shut down") ||
		strings.Contains(lower, "restart") || strings.Contains(lower, "reboot") {
		return agent.Fail("power off and restart are not available by voice command")
	}

	for _, action := range systemActions {
		if !containsAnyKeyword(lower, action.keywords) {
			continue
		}
		argv, ok := action.commands[runtime.GOOS]
		if !ok {
			return agent.Fail(fmt.Sprintf("%s is not supported on this system", action.name))
		}
		if s.run != nil {
			if err := s.run(argv[0], argv[1:]...); err != nil {
				s.log.Error().Err(err).Str("action", action.name).Msg("system command failed")
				return agent.Fail(fmt.Sprintf("could not %s: %v", action.name, err))
			}
		}
		s.log.Info().Str("action", action.name).Msg("system action done")
		return agent.OK(action.reply).With("action", action.name)
	}

	return agent.Fail("could not understand the system control command")
}

// batteryStatus reads the battery level where a simple source exists.
func (s *SystemControlAgent) batteryStatus() *agent.Result {
	if runtime.GOOS == "linux" {
		if out, err := exec.Command("cat", "/sys/class/power_supply/BAT0/capacity").Output(); err == nil {
			level := strings.TrimSpace(string(out))
			return agent.OK(fmt.Sprintf("Battery is at %s%%", level)).With("battery", level)
		}
	}
	return agent.OK("Battery status is not available on this system")
}

func containsAnyKeyword(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
