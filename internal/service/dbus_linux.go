//go:build linux

package service

import (
	"context"
	"strings"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"
)

// DBusPoller queries the unit's ActiveState over the system D-Bus instead
// of spawning systemctl. Selected with `backend: dbus` in settings.
type DBusPoller struct {
	unit string

	mu   sync.Mutex
	conn *dbus.Conn
}

// NewDBusPoller creates a D-Bus backed poller for the given unit. The
// connection is established lazily on the first poll.
func NewDBusPoller(unit string) *DBusPoller {
	return &DBusPoller{unit: unit}
}

// Poll reads the unit's ActiveState property. Only the literal "active"
// maps to running, matching the systemctl backend's classification.
func (p *DBusPoller) Poll(ctx context.Context) Status {
	conn, err := p.connect(ctx)
	if err != nil {
		return Status{State: StateUnknown, Err: err.Error()}
	}

	unitName := p.unit
	if !strings.Contains(unitName, ".") {
		unitName += ".service"
	}

	props, err := conn.GetUnitPropertiesContext(ctx, unitName)
	if err != nil {
		// The connection may have gone stale (e.g. daemon-reexec);
		// drop it so the next poll reconnects.
		p.mu.Lock()
		if p.conn == conn {
			p.conn.Close()
			p.conn = nil
		}
		p.mu.Unlock()
		return Status{State: StateUnknown, Err: err.Error()}
	}

	activeState, _ := props["ActiveState"].(string)
	if activeState == "active" {
		return Status{State: StateRunning}
	}
	return Status{State: StateStopped}
}

// Close releases the D-Bus connection.
func (p *DBusPoller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
	return nil
}

func (p *DBusPoller) connect(ctx context.Context) (*dbus.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return p.conn, nil
	}
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return conn, nil
}
