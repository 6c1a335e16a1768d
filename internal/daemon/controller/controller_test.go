package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ollamatray-io/ollamatray/internal/service"
)

type fakePoller struct {
	mu     sync.Mutex
	status service.Status
	polls  int
}

func (f *fakePoller) Poll(ctx context.Context) service.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	return f.status
}

func (f *fakePoller) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

type fakeToggler struct {
	mu      sync.Mutex
	outcome service.Outcome
	calls   int
	block   chan struct{} // when set, Toggle blocks until closed
}

func (f *fakeToggler) Toggle(ctx context.Context, current service.State, forceStop bool) service.Outcome {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcome.Action = service.ActionFor(current, forceStop)
	return f.outcome
}

func (f *fakeToggler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestController(poller *fakePoller, toggler *fakeToggler, confirm func(string) bool) *Controller {
	return New(Options{
		Poller:       poller,
		Toggler:      toggler,
		Confirm:      confirm,
		PollInterval: time.Hour, // periodic polling is irrelevant here
		RepollDelay:  20 * time.Millisecond,
	})
}

func TestDeclinedConfirmationSkipsCommand(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateStopped}}
	toggler := &fakeToggler{outcome: service.Outcome{Kind: service.OutcomeApplied}}

	var asked string
	c := newTestController(poller, toggler, func(action string) bool {
		asked = action
		return false
	})
	c.Poll()

	_, err := c.Toggle(false)
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("Toggle() error = %v, want ErrDeclined", err)
	}
	if toggler.count() != 0 {
		t.Errorf("privileged command invoked %d times after decline, want 0", toggler.count())
	}
	if asked != "start" {
		t.Errorf("confirmation asked for %q, want %q", asked, "start")
	}
}

func TestForceStopSkipsConfirmation(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateRunning}}
	toggler := &fakeToggler{outcome: service.Outcome{Kind: service.OutcomeApplied}}

	c := newTestController(poller, toggler, func(action string) bool {
		t.Error("confirmation requested for a forced stop")
		return false
	})
	c.Poll()

	out, err := c.Toggle(true)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if out.Action != "stop" {
		t.Errorf("Action = %q, want %q", out.Action, "stop")
	}
	if toggler.count() != 1 {
		t.Errorf("privileged command invoked %d times, want 1", toggler.count())
	}
}

func TestSuccessSchedulesExactlyOneRepoll(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateStopped}}
	toggler := &fakeToggler{outcome: service.Outcome{Kind: service.OutcomeApplied}}

	c := newTestController(poller, toggler, nil)
	c.Poll()
	if got := poller.count(); got != 1 {
		t.Fatalf("polls before toggle = %d, want 1", got)
	}

	if _, err := c.Toggle(false); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	// No synchronous poll on the toggle path
	if got := poller.count(); got != 1 {
		t.Errorf("polls immediately after toggle = %d, want 1", got)
	}

	// Exactly one re-poll after the delay
	time.Sleep(100 * time.Millisecond)
	if got := poller.count(); got != 2 {
		t.Errorf("polls after repoll delay = %d, want 2", got)
	}
	time.Sleep(60 * time.Millisecond)
	if got := poller.count(); got != 2 {
		t.Errorf("polls well after repoll delay = %d, want 2 (re-poll must fire once)", got)
	}
}

func TestFailureLeavesStateUnchanged(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateRunning}}
	toggler := &fakeToggler{outcome: service.Outcome{Kind: service.OutcomeFailed, Diagnostic: "Access denied"}}

	c := newTestController(poller, toggler, nil)
	c.Poll()

	before := c.Snapshot().State
	out, err := c.Toggle(false)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if out.Applied() {
		t.Fatal("outcome reports applied, want failure")
	}

	if after := c.Snapshot().State; after != before {
		t.Errorf("state changed %v -> %v on a failed toggle", before, after)
	}

	// Failures must not schedule a re-poll
	time.Sleep(100 * time.Millisecond)
	if got := poller.count(); got != 1 {
		t.Errorf("polls after failed toggle = %d, want 1", got)
	}
}

func TestConcurrentToggleIsRejected(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateRunning}}
	toggler := &fakeToggler{
		outcome: service.Outcome{Kind: service.OutcomeApplied},
		block:   make(chan struct{}),
	}

	c := newTestController(poller, toggler, nil)
	c.Poll()

	id, snapshots := c.Subscribe()
	defer c.Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Toggle(true)
	}()

	// Wait for the busy snapshot before racing the second toggle
	waitBusy := time.After(time.Second)
	for busy := false; !busy; {
		select {
		case snap := <-snapshots:
			busy = snap.Busy
		case <-waitBusy:
			t.Fatal("never observed a busy snapshot")
		}
	}

	if _, err := c.Toggle(true); !errors.Is(err, ErrBusy) {
		t.Errorf("second Toggle() error = %v, want ErrBusy", err)
	}

	close(toggler.block)
	<-done

	if toggler.count() != 1 {
		t.Errorf("privileged command invoked %d times, want 1", toggler.count())
	}
}

func TestSubscribersSeePollResults(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateRunning}}
	c := newTestController(poller, &fakeToggler{}, nil)

	id, snapshots := c.Subscribe()
	defer c.Unsubscribe(id)

	c.Poll()

	select {
	case snap := <-snapshots:
		if snap.State != service.StateRunning {
			t.Errorf("snapshot state = %v, want %v", snap.State, service.StateRunning)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot broadcast after poll")
	}
}

func TestQueryErrorReportedAsUnknown(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateUnknown, Err: "no such binary"}}
	c := newTestController(poller, &fakeToggler{}, nil)

	c.Poll()

	snap := c.Snapshot()
	if snap.State != service.StateUnknown {
		t.Fatalf("state = %v, want %v", snap.State, service.StateUnknown)
	}
	if snap.Err != "no such binary" {
		t.Errorf("Err = %q, want raw failure text", snap.Err)
	}
}

func TestSetPollIntervalRestartsWait(t *testing.T) {
	poller := &fakePoller{status: service.Status{State: service.StateStopped}}
	c := newTestController(poller, &fakeToggler{}, nil)

	go c.Run()
	defer c.Stop()

	// Initial poll from Run
	time.Sleep(50 * time.Millisecond)
	if got := poller.count(); got != 1 {
		t.Fatalf("polls after start = %d, want 1", got)
	}

	// Shrink the hour-long interval; the next tick should arrive quickly
	c.SetPollInterval(30 * time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	if got := poller.count(); got < 2 {
		t.Errorf("polls after interval change = %d, want at least 2", got)
	}
}
