package sound

import (
	"fmt"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/ports"
)

// Player implements ports.SoundPlayer
type Player struct{}

// Verify interface compliance at compile time
var _ ports.SoundPlayer = (*Player)(nil)

// NewPlayer creates a new sound player
func NewPlayer() *Player {
	return &Player{}
}

// PlaySound plays the default notification sound
func (p *Player) PlaySound() error {
	return p.PlaySoundForEvent(domain.KindStop)
}

// PlaySoundForEvent plays different sounds based on the event kind.
// Platform-specific implementations are in player_*.go files with build tags.
func (p *Player) PlaySoundForEvent(kind domain.EventKind) error {
	return playForKind(kind)
}

// terminalBell outputs a terminal bell character as fallback
func terminalBell() error {
	fmt.Print("\a")
	return nil
}
