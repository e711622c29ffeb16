package models

import "time"

// InstanceInfo describes the running menu instance.
// This corresponds to ~/.colama/instance.yaml.
type InstanceInfo struct {
	PID       int       `yaml:"pid" json:"pid"`
	Mode      string    `yaml:"mode" json:"mode"` // "tray" or "foreground"
	Backend   string    `yaml:"backend" json:"backend"`
	Profile   string    `yaml:"profile" json:"profile"`
	StartedAt time.Time `yaml:"started_at" json:"started_at"`
}

// NewInstanceInfo creates instance info for this process.
func NewInstanceInfo(mode, backend, profile string, pid int) *InstanceInfo {
	return &InstanceInfo{
		PID:       pid,
		Mode:      mode,
		Backend:   backend,
		Profile:   profile,
		StartedAt: time.Now().UTC(),
	}
}
