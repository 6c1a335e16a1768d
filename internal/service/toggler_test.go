package service

import (
	"context"
	"errors"
	"testing"
)

func TestActionFor(t *testing.T) {
	tests := []struct {
		name      string
		current   State
		forceStop bool
		expected  string
	}{
		{name: "stopped starts", current: StateStopped, forceStop: false, expected: "start"},
		{name: "running stops", current: StateRunning, forceStop: false, expected: "stop"},
		{name: "unknown starts", current: StateUnknown, forceStop: false, expected: "start"},
		{name: "force stop while running", current: StateRunning, forceStop: true, expected: "stop"},
		{name: "force stop while stopped", current: StateStopped, forceStop: true, expected: "stop"},
		{name: "force stop while unknown", current: StateUnknown, forceStop: true, expected: "stop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActionFor(tt.current, tt.forceStop); got != tt.expected {
				t.Errorf("ActionFor(%v, %v) = %q, want %q", tt.current, tt.forceStop, got, tt.expected)
			}
		})
	}
}

func TestToggleApplied(t *testing.T) {
	runner := &fakeRunner{result: Result{ExitCode: 0}}
	tog := NewToggler("ollama", runner)

	out := tog.Toggle(context.Background(), StateStopped, false)
	if !out.Applied() {
		t.Fatalf("Toggle() = %+v, want applied", out)
	}
	if out.Action != "start" {
		t.Errorf("Action = %q, want %q", out.Action, "start")
	}

	got := runner.calls[0]
	want := []string{"pkexec", "systemctl", "start", "ollama"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("invocation = %v, want %v", got, want)
		}
	}
}

func TestToggleFailure(t *testing.T) {
	runner := &fakeRunner{result: Result{ExitCode: 1, Stderr: "Failed to stop ollama.service: Access denied\n"}}
	tog := NewToggler("ollama", runner)

	out := tog.Toggle(context.Background(), StateRunning, false)
	if out.Kind != OutcomeFailed {
		t.Fatalf("Kind = %v, want %v", out.Kind, OutcomeFailed)
	}
	if out.Action != "stop" {
		t.Errorf("Action = %q, want %q", out.Action, "stop")
	}
	if out.Diagnostic != "Failed to stop ollama.service: Access denied" {
		t.Errorf("Diagnostic = %q, want trimmed stderr", out.Diagnostic)
	}
}

func TestToggleLaunchError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec: \"pkexec\": executable file not found in $PATH")}
	tog := NewToggler("ollama", runner)

	out := tog.Toggle(context.Background(), StateStopped, false)
	if out.Kind != OutcomeErrored {
		t.Fatalf("Kind = %v, want %v", out.Kind, OutcomeErrored)
	}
	if out.Diagnostic == "" {
		t.Error("Diagnostic is empty, want the launch error text")
	}
}
