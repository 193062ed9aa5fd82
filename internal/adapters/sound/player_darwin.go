//go:build darwin

package sound

import (
	"os/exec"

	"github.com/renato0307/vigia/internal/domain"
)

// playForKind plays sounds on macOS using afplay
func playForKind(kind domain.EventKind) error {
	var soundFiles []string

	switch kind {
	case domain.KindStop, domain.KindSubagentStop:
		// A task finished - calm, completion sound
		soundFiles = []string{
			"/System/Library/Sounds/Glass.aiff",
			"/System/Library/Sounds/Tink.aiff",
		}
	case domain.KindNotification:
		// Claude needs attention - more insistent sound
		soundFiles = []string{
			"/System/Library/Sounds/Ping.aiff",
			"/System/Library/Sounds/Pop.aiff",
		}
	default:
		soundFiles = []string{"/System/Library/Sounds/Glass.aiff"}
	}

	// Try each sound file
	for _, soundFile := range soundFiles {
		cmd := exec.Command("afplay", soundFile)
		if err := cmd.Start(); err == nil {
			return nil
		}
	}

	return terminalBell()
}
