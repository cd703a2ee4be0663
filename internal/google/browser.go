package google

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// BrowserOpener prints the URL to w and tries to open it in the default
// browser. Failing to start a browser is not an error since the user can
// copy the printed link.
func BrowserOpener(w io.Writer) Opener {
	return func(authURL string) error {
		_, _ = fmt.Fprintf(w, "Open this URL in your browser to connect Google Drive:\n\n  %s\n\n", authURL)

		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", authURL)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", authURL)
		default:
			cmd = exec.Command("xdg-open", authURL)
		}
		if err := cmd.Start(); err == nil {
			go func() { _ = cmd.Wait() }()
		}
		return nil
	}
}
