package models

import "time"

// DaemonInfo records the running tray daemon for single-instance checks.
// This corresponds to ~/.ollamatray/daemon.yaml.
type DaemonInfo struct {
	Version   int       `yaml:"version"`
	PID       int       `yaml:"pid"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(pid int) *DaemonInfo {
	return &DaemonInfo{
		Version:   1,
		PID:       pid,
		StartedAt: time.Now().UTC(),
	}
}
