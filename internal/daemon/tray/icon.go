package tray

import (
	_ "embed"

	"github.com/ollamatray-io/ollamatray/internal/service"
)

// Pre-rendered tray icons, one per display state. The status indicator is
// baked into each variant instead of being painted at runtime.
var (
	//go:embed icon_running.png
	iconRunning []byte

	//go:embed icon_stopped.png
	iconStopped []byte

	//go:embed icon_unknown.png
	iconUnknown []byte
)

// iconFor returns the icon bytes for the given service state.
func iconFor(state service.State) []byte {
	switch state {
	case service.StateRunning:
		return iconRunning
	case service.StateStopped:
		return iconStopped
	default:
		return iconUnknown
	}
}
