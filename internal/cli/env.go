package cli

import (
	"fmt"

	"github.com/ollamatray-io/ollamatray/internal/config"
	"github.com/ollamatray-io/ollamatray/internal/models"
	"github.com/ollamatray-io/ollamatray/internal/ollama"
	"github.com/ollamatray-io/ollamatray/internal/service"
)

// loadEnv loads settings and wires the external-command collaborators.
// Every CLI command goes through here so binary overrides and the unit
// name behave identically to the tray daemon.
type env struct {
	settings *models.Settings
	poller   service.StatusSource
	lister   *ollama.Lister
	toggler  *service.Toggler
}

func loadEnv() (*env, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

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

	return &env{
		settings: settings,
		poller:   poller,
		lister:   lister,
		toggler:  toggler,
	}, nil
}
