//go:build !linux

package service

import (
	"context"
	"errors"
)

// ErrDBusUnsupported is returned by the D-Bus backend on non-linux systems.
var ErrDBusUnsupported = errors.New("dbus backend is only available on linux")

// DBusPoller is a stub on non-linux systems; every poll reports unknown.
type DBusPoller struct {
	unit string
}

// NewDBusPoller creates a stub D-Bus poller.
func NewDBusPoller(unit string) *DBusPoller {
	return &DBusPoller{unit: unit}
}

// Poll always reports unknown on non-linux systems.
func (p *DBusPoller) Poll(ctx context.Context) Status {
	return Status{State: StateUnknown, Err: ErrDBusUnsupported.Error()}
}

// Close is a no-op.
func (p *DBusPoller) Close() error {
	return nil
}
