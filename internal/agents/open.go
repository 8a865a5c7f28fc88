package agents

import (
	"fmt"
	"os/exec"
	"runtime"
)

// URLOpener launches a URL in the user's default browser. Agents that build
// action links call it after composing the URL; a nil opener means
// "compose only", which is what tests and the HTTP server use.
type URLOpener func(url string) error

// OpenInBrowser is the default URLOpener, dispatching to the platform's
// open command.
func OpenInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// open invokes the opener if one is configured.
func open(opener URLOpener, url string) error {
	if opener == nil {
		return nil
	}
	return opener(url)
}
