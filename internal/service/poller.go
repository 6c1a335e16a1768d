package service

import (
	"context"
	"strings"
)

// StatusSource reports the current state of the managed service.
type StatusSource interface {
	Poll(ctx context.Context) Status
}

// Poller queries the unit state by running `systemctl is-active <unit>`.
type Poller struct {
	Unit      string
	Systemctl string // binary override, defaults to "systemctl"
	Runner    Runner
}

// NewPoller creates a poller for the given unit using the exec runner.
func NewPoller(unit string, runner Runner) *Poller {
	return &Poller{Unit: unit, Systemctl: "systemctl", Runner: runner}
}

// Poll runs the state query once, synchronously. The exit code is
// irrelevant; classification is on the trimmed stdout token only:
// exactly "active" means running, everything else (inactive, failed,
// activating, empty, ...) is reported as stopped. An invocation failure
// is reported as unknown, never as stopped.
func (p *Poller) Poll(ctx context.Context) Status {
	systemctl := p.Systemctl
	if systemctl == "" {
		systemctl = "systemctl"
	}

	res, err := p.Runner.Run(ctx, systemctl, "is-active", p.Unit)
	if err != nil {
		return Status{State: StateUnknown, Err: err.Error()}
	}

	if strings.TrimSpace(res.Stdout) == "active" {
		return Status{State: StateRunning}
	}
	return Status{State: StateStopped}
}
