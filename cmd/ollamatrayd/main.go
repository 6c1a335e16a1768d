// Package main is the entry point for the ollamatrayd tray daemon.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ollamatray-io/ollamatray/internal/config"
	"github.com/ollamatray-io/ollamatray/internal/daemon/controller"
	"github.com/ollamatray-io/ollamatray/internal/daemon/dialog"
	"github.com/ollamatray-io/ollamatray/internal/daemon/tray"
	"github.com/ollamatray-io/ollamatray/internal/models"
	"github.com/ollamatray-io/ollamatray/internal/ollama"
	"github.com/ollamatray-io/ollamatray/internal/service"
)

func main() {
	foreground := flag.Bool("foreground", false, "Run without a system tray (log status to stdout)")
	flag.Parse()

	log.SetPrefix("[ollamatrayd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	// Single instance: two trays polling the same unit is just confusing
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("ollamatrayd already running (PID %d)", info.PID)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	ctrl := newController(settings, !*foreground)

	if *foreground {
		log.Println("Running in foreground mode (no system tray)")
		runForeground(ctrl, settings)
	} else {
		log.Println("Running with system tray")
		runWithTray(ctrl, settings)
	}
}

// newController wires the poller, lister, and toggler from settings.
// Confirmation dialogs are only wired when a tray is present; the
// foreground mode has no interactive surface and never toggles on its own.
func newController(settings *models.Settings, withDialogs bool) *controller.Controller {
	runner := service.ExecRunner{}

	var poller service.StatusSource
	switch settings.Backend {
	case models.BackendDBus:
		poller = service.NewDBusPoller(settings.Unit)
	default:
		p := service.NewPoller(settings.Unit, runner)
		if settings.Commands.Systemctl != "" {
			p.Systemctl = settings.Commands.Systemctl
		}
		poller = p
	}

	lister := ollama.NewLister(runner)
	if settings.Commands.Ollama != "" {
		lister.Binary = settings.Commands.Ollama
	}

	toggler := service.NewToggler(settings.Unit, runner)
	if settings.Commands.Pkexec != "" {
		toggler.Pkexec = settings.Commands.Pkexec
	}
	if settings.Commands.Systemctl != "" {
		toggler.Systemctl = settings.Commands.Systemctl
	}

	var confirm func(string) bool
	if withDialogs && settings.ConfirmToggle {
		confirm = dialog.ConfirmToggle
	}

	return controller.New(controller.Options{
		Poller:       poller,
		Lister:       lister,
		Toggler:      toggler,
		Confirm:      confirm,
		PollInterval: settings.PollInterval(),
	})
}

// watchSettings hot-reloads the poll interval when settings.yaml changes.
// Unit or backend changes need a restart; they are only logged.
func watchSettings(ctrl *controller.Controller, current *models.Settings) *config.SettingsWatcher {
	watcher, err := config.WatchSettings()
	if err != nil {
		log.Printf("Settings watcher unavailable: %v", err)
		return nil
	}

	go func() {
		for range watcher.Events() {
			settings, err := config.LoadSettings()
			if err != nil {
				log.Printf("Settings reload failed: %v", err)
				continue
			}
			log.Printf("Settings reloaded (poll interval %s)", settings.PollInterval())
			ctrl.SetPollInterval(settings.PollInterval())

			if settings.Unit != current.Unit || settings.Backend != current.Backend {
				log.Printf("Unit/backend changed in settings; restart ollamatrayd to apply")
			}
		}
	}()

	return watcher
}

// runForeground polls without a tray, logging state changes until a signal.
func runForeground(ctrl *controller.Controller, settings *models.Settings) {
	if err := config.SaveDaemonInfo(models.NewDaemonInfo(os.Getpid())); err != nil {
		log.Fatalf("Failed to write daemon info: %v", err)
	}

	watcher := watchSettings(ctrl, settings)

	id, snapshots := ctrl.Subscribe()
	go func() {
		for snap := range snapshots {
			if snap.Busy {
				continue
			}
			if snap.State == service.StateUnknown {
				log.Printf("Status: Unknown (%s)", snap.Err)
			} else {
				log.Printf("Status: %s (%d models)", snap.State, len(snap.Models))
			}
		}
	}()

	go ctrl.Run()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	ctrl.Unsubscribe(id)
	shutdown(ctrl, watcher)
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(ctrl *controller.Controller, settings *models.Settings) {
	var watcher *config.SettingsWatcher

	onStart := func() {
		if err := config.SaveDaemonInfo(models.NewDaemonInfo(os.Getpid())); err != nil {
			log.Fatalf("Failed to write daemon info: %v", err)
		}
		log.Printf("Started (PID %d), polling %q every %s", os.Getpid(), settings.Unit, settings.PollInterval())

		watcher = watchSettings(ctrl, settings)

		go ctrl.Run()

		// Quit the tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()
	}

	onExit := func() {
		shutdown(ctrl, watcher)
	}

	// This blocks the main goroutine until the tray exits.
	tray.Run(ctrl, settings.Notifications, onStart, onExit)
}

func shutdown(ctrl *controller.Controller, watcher *config.SettingsWatcher) {
	ctrl.Stop()
	if watcher != nil {
		watcher.Stop()
	}
	if err := config.RemoveDaemonInfo(); err != nil {
		log.Printf("Failed to remove daemon info: %v", err)
	}
	fmt.Println("ollamatrayd stopped")
}
