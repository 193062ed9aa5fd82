//go:build !darwin && !linux

package sound

import "github.com/renato0307/vigia/internal/domain"

// playForKind falls back to terminal bell on unsupported platforms
func playForKind(kind domain.EventKind) error {
	return terminalBell()
}
