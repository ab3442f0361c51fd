package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser opens url in the default system browser. Backs the
// `spotx playlist open` command, which hands an open.spotify.com link to the
// desktop player or web client.
//
// Supports macOS, Linux, and Windows.
func OpenBrowser(url string) error {
	rt := getRuntime()

	var cmd *exec.Cmd
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
