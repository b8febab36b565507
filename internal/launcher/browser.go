package launcher

import (
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

// OpenBrowser points the default browser at url. Failure is never fatal:
// the URL is already printed for the operator, so errors only show up at
// debug level.
func OpenBrowser(url string) {
	var candidates [][]string

	switch runtime.GOOS {
	case "darwin":
		candidates = [][]string{{"open", url}}
	case "linux":
		candidates = [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
		}
	case "windows":
		candidates = [][]string{{"rundll32", "url.dll,FileProtocolHandler", url}}
	default:
		return
	}

	for _, argv := range candidates {
		cmd := exec.Command(argv[0], argv[1:]...)
		if err := cmd.Start(); err == nil {
			return
		} else {
			log.Debug("browser open failed", "command", argv[0], "error", err)
		}
	}
}
