package models

import "time"

// Poll backends.
const (
	BackendSystemctl = "systemctl"
	BackendDBus      = "dbus"
)

// CommandsConfig holds binary path overrides for external tools.
// Empty means lookup in PATH.
type CommandsConfig struct {
	Systemctl string `yaml:"systemctl"`
	Pkexec    string `yaml:"pkexec"`
	Ollama    string `yaml:"ollama"`
}

// Settings represents global application settings.
// This corresponds to ~/.ollamatray/settings.yaml.
type Settings struct {
	Version             int            `yaml:"version"`
	Unit                string         `yaml:"unit"`    // systemd unit to manage
	Backend             string         `yaml:"backend"` // "systemctl" | "dbus"
	PollIntervalSeconds int            `yaml:"poll_interval_seconds"`
	ConfirmToggle       bool           `yaml:"confirm_toggle"`
	Notifications       bool           `yaml:"notifications"`
	Commands            CommandsConfig `yaml:"commands"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:             1,
		Unit:                "ollama",
		Backend:             BackendSystemctl,
		PollIntervalSeconds: 600, // refresh every 10 minutes
		ConfirmToggle:       true,
		Notifications:       true,
		Commands:            CommandsConfig{}, // lookup in PATH
	}
}

// PollInterval returns the poll interval as a duration, falling back to
// the default when the configured value is not positive.
func (s *Settings) PollInterval() time.Duration {
	secs := s.PollIntervalSeconds
	if secs <= 0 {
		secs = 600
	}
	return time.Duration(secs) * time.Second
}
