package tray

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/getlantern/systray"

	"github.com/ollamatray-io/ollamatray/internal/daemon/controller"
	"github.com/ollamatray-io/ollamatray/internal/daemon/dialog"
	"github.com/ollamatray-io/ollamatray/internal/service"
)

const appName = "Ollama Tray Controller"

const maxModelSlots = 8

var (
	ctrl          Controller
	notifications bool
	onStart       func()
	onExit        func()

	statusItem *systray.MenuItem
	toggleItem *systray.MenuItem

	// Pre-allocated model menu slots
	modelsHeader *systray.MenuItem
	modelSlots   [maxModelSlots]*systray.MenuItem
	noModelsItem *systray.MenuItem

	turnOffItem *systray.MenuItem
	quitItem    *systray.MenuItem

	// Maps slot index → model name for copy actions
	slotMu     sync.RWMutex
	slotModels [maxModelSlots]string
)

// Run starts the system tray. This blocks the calling goroutine (must be
// main). onStartFn is called when the tray is ready (start the controller
// there). onExitFn is called when the tray exits (cleanup here).
func Run(c Controller, notify bool, onStartFn, onExitFn func()) {
	ctrl = c
	notifications = notify
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetIcon(iconFor(service.StateUnknown))
	systray.SetTooltip(formatTooltip(service.StateUnknown))

	// Header
	header := systray.AddMenuItem(appName, "")
	header.Disable()

	systray.AddSeparator()

	// Status
	statusItem = systray.AddMenuItem("Status: Checking...", "")
	statusItem.Disable()

	// Toggle
	toggleItem = systray.AddMenuItem("Toggle Ollama", "Start or stop the Ollama service")

	systray.AddSeparator()

	// Models section (hidden until the service is running)
	modelsHeader = systray.AddMenuItem("Models (click to copy):", "")
	modelsHeader.Disable()
	modelsHeader.Hide()

	for i := 0; i < maxModelSlots; i++ {
		modelSlots[i] = systray.AddMenuItem("", "Copy model name")
		modelSlots[i].Hide()
	}

	noModelsItem = systray.AddMenuItem("No models found", "")
	noModelsItem.Disable()
	noModelsItem.Hide()

	systray.AddSeparator()

	// Unconditional stop, then exit
	turnOffItem = systray.AddMenuItem("Turn off Ollama service", "Stop the service without confirmation")
	quitItem = systray.AddMenuItem("Exit Ollama Tray Controller", "Quit the tray (the service keeps its state)")

	if onStart != nil {
		onStart()
	}

	go watchState()
	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

// watchState re-renders the menu whenever the controller broadcasts a new
// snapshot.
func watchState() {
	id, ch := ctrl.Subscribe()
	defer ctrl.Unsubscribe(id)

	// Render whatever state exists before the first broadcast
	render(ctrl.Snapshot())

	for snap := range ch {
		render(snap)
	}
}

func handleClicks() {
	for {
		select {
		case <-toggleItem.ClickedCh:
			go doToggle(false)

		case <-turnOffItem.ClickedCh:
			// Mirrors the unconditional "turn off" affordance: only
			// meaningful while the service is observed running.
			if ctrl.Snapshot().State == service.StateRunning {
				go doToggle(true)
			}

		case <-quitItem.ClickedCh:
			systray.Quit()

		// Model slot clicks
		case <-modelSlots[0].ClickedCh:
			copyModelAtSlot(0)
		case <-modelSlots[1].ClickedCh:
			copyModelAtSlot(1)
		case <-modelSlots[2].ClickedCh:
			copyModelAtSlot(2)
		case <-modelSlots[3].ClickedCh:
			copyModelAtSlot(3)
		case <-modelSlots[4].ClickedCh:
			copyModelAtSlot(4)
		case <-modelSlots[5].ClickedCh:
			copyModelAtSlot(5)
		case <-modelSlots[6].ClickedCh:
			copyModelAtSlot(6)
		case <-modelSlots[7].ClickedCh:
			copyModelAtSlot(7)
		}
	}
}

// doToggle runs a toggle and surfaces any failure as a modal alert. The
// controller already serializes concurrent toggles and schedules the
// post-toggle re-poll.
func doToggle(forceStop bool) {
	outcome, err := ctrl.Toggle(forceStop)
	if err != nil {
		if errors.Is(err, controller.ErrBusy) {
			log.Println("[tray] toggle ignored: one already in flight")
		}
		return
	}

	if !outcome.Applied() {
		dialog.ToggleError(outcome.Diagnostic)
		return
	}

	if notifications {
		switch outcome.Action {
		case "start":
			dialog.Notify("Ollama service started")
		case "stop":
			dialog.Notify("Ollama service stopped")
		}
	}
}

// copyModelAtSlot copies the model name assigned to the given menu slot.
func copyModelAtSlot(slot int) {
	slotMu.RLock()
	name := slotModels[slot]
	slotMu.RUnlock()

	if name == "" {
		return
	}

	if err := clipboard.WriteAll(name); err != nil {
		log.Printf("[tray] clipboard copy failed: %v", err)
		return
	}
	if notifications {
		dialog.Notify(fmt.Sprintf("Copied %q to clipboard", name))
	}
}

// render refreshes the icon, tooltip, and menu items from a snapshot.
func render(snap controller.Snapshot) {
	systray.SetIcon(iconFor(snap.State))
	systray.SetTooltip(formatTooltip(snap.State))

	statusItem.SetTitle("Status: " + formatStatus(snap))

	if snap.State == service.StateRunning {
		toggleItem.SetTitle("Stop Ollama")
	} else {
		toggleItem.SetTitle("Start Ollama")
	}
	if snap.Busy {
		toggleItem.Disable()
		turnOffItem.Disable()
	} else {
		toggleItem.Enable()
		turnOffItem.Enable()
	}

	renderModels(snap)
}

// renderModels fills the pre-allocated model slots from a snapshot.
func renderModels(snap controller.Snapshot) {
	slotMu.Lock()
	for i := 0; i < maxModelSlots; i++ {
		slotModels[i] = ""
	}
	for i, m := range snap.Models {
		if i >= maxModelSlots {
			break
		}
		slotModels[i] = m.Name
	}
	slotMu.Unlock()

	for i := 0; i < maxModelSlots; i++ {
		modelSlots[i].Hide()
	}

	if snap.State != service.StateRunning {
		modelsHeader.Hide()
		noModelsItem.Hide()
		return
	}

	modelsHeader.Show()

	switch {
	case snap.ModelsErr != "":
		noModelsItem.SetTitle("Error getting models: " + snap.ModelsErr)
		noModelsItem.Show()
	case snap.NoModels || len(snap.Models) == 0:
		noModelsItem.SetTitle("No models found")
		noModelsItem.Show()
	default:
		noModelsItem.Hide()
		for i, m := range snap.Models {
			if i >= maxModelSlots {
				break
			}
			modelSlots[i].SetTitle(fmt.Sprintf("%s (%s)", m.Name, m.Size))
			modelSlots[i].Show()
		}
	}
}

func formatStatus(snap controller.Snapshot) string {
	if snap.State == service.StateUnknown && snap.Err != "" {
		return "Error - " + snap.Err
	}
	return snap.State.String()
}

func formatTooltip(state service.State) string {
	return fmt.Sprintf("%s\nStatus: %s", appName, state)
}
