// Package controller owns the observed service state and drives polling.
//
// All mutation of the state happens here: the periodic poll, the startup
// poll, and the single delayed re-poll after a successful toggle. External
// commands run on the calling goroutine, never concurrently with another
// toggle; a busy flag provides the serialization.
package controller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ollamatray-io/ollamatray/internal/models"
	"github.com/ollamatray-io/ollamatray/internal/ollama"
	"github.com/ollamatray-io/ollamatray/internal/service"
)

// Toggle request errors. Neither is a failure of the privileged command
// itself; both mean it was never invoked.
var (
	ErrBusy     = errors.New("a toggle is already in flight")
	ErrDeclined = errors.New("toggle declined by user")
)

// Snapshot is an immutable view of the controller state, safe to hand to
// any goroutine. The UI renders snapshots only; it never caches its own
// running/stopped boolean.
type Snapshot struct {
	State     service.State
	Err       string // raw query error text when State is unknown
	Models    []models.Model
	ModelsErr string // listing diagnostic, shown in place of the list
	NoModels  bool   // listing succeeded but found nothing
	Busy      bool   // a toggle is in flight
	CheckedAt time.Time
}

// Lister enumerates installed models.
type Lister interface {
	List(ctx context.Context) ([]models.Model, error)
}

// Toggler applies a start/stop action to the managed service.
type Toggler interface {
	Toggle(ctx context.Context, current service.State, forceStop bool) service.Outcome
}

// Options configures a Controller.
type Options struct {
	Poller  service.StatusSource
	Lister  Lister // optional; nil disables model listing
	Toggler Toggler

	// Confirm is consulted before a non-forced toggle. nil means no
	// confirmation step (the CLI confirms in the terminal instead).
	Confirm func(action string) bool

	PollInterval time.Duration // default 10 minutes
	RepollDelay  time.Duration // default 1 second
}

// Controller polls the service state and applies toggles.
type Controller struct {
	poller  service.StatusSource
	lister  Lister
	toggler Toggler
	confirm func(action string) bool

	repollDelay time.Duration

	mu        sync.RWMutex
	interval  time.Duration
	status    service.Status
	mdls      []models.Model
	modelsErr string
	noModels  bool
	busy      bool
	checkedAt time.Time

	subMu sync.RWMutex
	subs  map[string]chan Snapshot

	reload   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a controller. Run must be called to start periodic polling.
func New(opts Options) *Controller {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 600 * time.Second
	}
	repoll := opts.RepollDelay
	if repoll <= 0 {
		repoll = time.Second
	}

	return &Controller{
		poller:      opts.Poller,
		lister:      opts.Lister,
		toggler:     opts.Toggler,
		confirm:     opts.Confirm,
		repollDelay: repoll,
		interval:    interval,
		status:      service.Status{State: service.StateUnknown},
		subs:        make(map[string]chan Snapshot),
		reload:      make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// Run polls once immediately, then on every interval tick until Stop.
// It blocks the calling goroutine.
func (c *Controller) Run() {
	c.Poll()

	for {
		c.mu.RLock()
		interval := c.interval
		c.mu.RUnlock()

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
			c.Poll()
		case <-c.reload:
			// Interval changed; restart the wait with the new value
			timer.Stop()
		case <-c.done:
			timer.Stop()
			return
		}
	}
}

// Stop halts periodic polling. Safe to call multiple times.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// SetPollInterval changes the periodic poll interval. The in-flight wait
// is restarted so the new interval takes effect immediately.
func (c *Controller) SetPollInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	changed := c.interval != d
	c.interval = d
	c.mu.Unlock()

	if changed {
		select {
		case c.reload <- struct{}{}:
		default:
		}
	}
}

// Poll queries the service state once and, when running, refreshes the
// model list. The resulting snapshot is broadcast to all subscribers.
func (c *Controller) Poll() {
	ctx := context.Background()
	st := c.poller.Poll(ctx)

	var mdls []models.Model
	var modelsErr string
	var noModels bool

	if st.State == service.StateRunning && c.lister != nil {
		list, err := c.lister.List(ctx)
		switch {
		case errors.Is(err, ollama.ErrNoModels):
			noModels = true
		case err != nil:
			modelsErr = err.Error()
		default:
			mdls = list
		}
	}

	if st.State == service.StateUnknown {
		log.Printf("[controller] status query failed: %s", st.Err)
	}

	c.mu.Lock()
	c.status = st
	c.mdls = mdls
	c.modelsErr = modelsErr
	c.noModels = noModels
	c.checkedAt = time.Now()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.broadcast(snap)
}

// Toggle applies a start/stop action against the managed service.
//
// The action is computed from the current observed state (stop when
// running or forced, start otherwise). Non-forced toggles go through the
// confirmation hook first; declining returns ErrDeclined with zero
// privileged invocations. On success exactly one re-poll is scheduled
// after the configured delay, never synchronously, since elevation
// prompts and service managers need a moment to settle. On failure the
// observed state is left untouched.
func (c *Controller) Toggle(forceStop bool) (service.Outcome, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return service.Outcome{}, ErrBusy
	}
	current := c.status.State
	c.mu.Unlock()

	action := service.ActionFor(current, forceStop)

	if !forceStop && c.confirm != nil && !c.confirm(action) {
		return service.Outcome{}, ErrDeclined
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return service.Outcome{}, ErrBusy
	}
	c.busy = true
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.broadcast(snap)

	outcome := c.toggler.Toggle(context.Background(), current, forceStop)

	c.mu.Lock()
	c.busy = false
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.broadcast(snap)

	if outcome.Applied() {
		log.Printf("[controller] %s applied, re-polling in %s", outcome.Action, c.repollDelay)
		time.AfterFunc(c.repollDelay, c.Poll)
	} else {
		log.Printf("[controller] %s failed: %s", outcome.Action, outcome.Diagnostic)
	}

	return outcome, nil
}

// Snapshot returns the current state view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// snapshotLocked builds a Snapshot. Callers must hold mu (read or write).
func (c *Controller) snapshotLocked() Snapshot {
	mdls := make([]models.Model, len(c.mdls))
	copy(mdls, c.mdls)
	return Snapshot{
		State:     c.status.State,
		Err:       c.status.Err,
		Models:    mdls,
		ModelsErr: c.modelsErr,
		NoModels:  c.noModels,
		Busy:      c.busy,
		CheckedAt: c.checkedAt,
	}
}

// Subscribe registers a snapshot subscriber and returns its id and channel.
func (c *Controller) Subscribe() (string, <-chan Snapshot) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := uuid.NewString()
	ch := make(chan Snapshot, 16)
	c.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a snapshot subscriber.
func (c *Controller) Unsubscribe(id string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if ch, ok := c.subs[id]; ok {
		close(ch)
		delete(c.subs, id)
	}
}

// broadcast sends a snapshot to all subscribers. Non-blocking: drops if a
// subscriber can't keep up.
func (c *Controller) broadcast(snap Snapshot) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
