package service

import (
	"context"
	"strings"
)

// OutcomeKind classifies the result of a toggle attempt.
type OutcomeKind int

// Toggle outcomes.
const (
	OutcomeApplied OutcomeKind = iota // privileged command exited 0
	OutcomeFailed                     // non-zero exit; Diagnostic carries stderr
	OutcomeErrored                    // command could not be launched at all
)

// Outcome is the result of a single toggle attempt.
type Outcome struct {
	Kind       OutcomeKind
	Action     string // "start" or "stop"
	Diagnostic string
}

// Applied reports whether the toggle took effect.
func (o Outcome) Applied() bool {
	return o.Kind == OutcomeApplied
}

// ActionFor computes the target action for a toggle: stop when forced or
// when the service is currently running, start otherwise.
func ActionFor(current State, forceStop bool) string {
	if forceStop || current == StateRunning {
		return "stop"
	}
	return "start"
}

// Toggler starts or stops the unit through the privileged-execution
// wrapper (`pkexec systemctl <start|stop> <unit>`). The unit lifecycle is
// system-scoped, so every toggle goes through interactive elevation.
type Toggler struct {
	Unit      string
	Pkexec    string // binary override, defaults to "pkexec"
	Systemctl string // defaults to "systemctl"
	Runner    Runner
}

// NewToggler creates a toggler for the given unit using the exec runner.
func NewToggler(unit string, runner Runner) *Toggler {
	return &Toggler{Unit: unit, Pkexec: "pkexec", Systemctl: "systemctl", Runner: runner}
}

// Toggle issues the privileged start/stop command and reports the outcome.
// It does not consult or mutate any shared state; confirmation and
// re-polling are the caller's responsibility.
func (t *Toggler) Toggle(ctx context.Context, current State, forceStop bool) Outcome {
	action := ActionFor(current, forceStop)

	pkexec := t.Pkexec
	if pkexec == "" {
		pkexec = "pkexec"
	}
	systemctl := t.Systemctl
	if systemctl == "" {
		systemctl = "systemctl"
	}

	res, err := t.Runner.Run(ctx, pkexec, systemctl, action, t.Unit)
	if err != nil {
		return Outcome{Kind: OutcomeErrored, Action: action, Diagnostic: err.Error()}
	}
	if res.ExitCode != 0 {
		return Outcome{Kind: OutcomeFailed, Action: action, Diagnostic: strings.TrimSpace(res.Stderr)}
	}
	return Outcome{Kind: OutcomeApplied, Action: action}
}
