// Package tray implements the system tray icon and menu for ollamatrayd.
package tray

import (
	"github.com/ollamatray-io/ollamatray/internal/daemon/controller"
	"github.com/ollamatray-io/ollamatray/internal/service"
)

// Controller provides the tray's view of the service state and the two
// core operations. The tray never mutates state directly; it renders
// snapshots and forwards user intent.
type Controller interface {
	Snapshot() controller.Snapshot
	Subscribe() (string, <-chan controller.Snapshot)
	Unsubscribe(id string)
	Poll()
	Toggle(forceStop bool) (service.Outcome, error)
}
