package config

import (
	"os"
	"syscall"

	"github.com/lvonsydow/colama/internal/models"
)

// LoadInstanceInfo loads ~/.colama/instance.yaml. Returns nil if the file
// doesn't exist.
func LoadInstanceInfo() (*models.InstanceInfo, error) {
	path, err := InstanceFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return nil, nil
	}

	var info models.InstanceInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveInstanceInfo records the running menu instance.
func SaveInstanceInfo(info *models.InstanceInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}
	path, err := InstanceFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveInstanceInfo removes instance.yaml.
func RemoveInstanceInfo() error {
	path, err := InstanceFile()
	if err != nil {
		return err
	}
	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsInstanceRunning reports whether another menu instance is alive.
// A stale instance.yaml is removed.
func IsInstanceRunning() (bool, *models.InstanceInfo, error) {
	info, err := LoadInstanceInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}
	if info.PID == os.Getpid() {
		return false, info, nil
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return false, info, nil
	}
	// Signal 0 only checks that the process exists.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = RemoveInstanceInfo()
		return false, info, nil
	}
	return true, info, nil
}
