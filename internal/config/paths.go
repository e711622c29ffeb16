// Package config handles the search-path setting and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global Co-lama directory.
	GlobalDirName = ".colama"

	// ColimaDirName is the directory colima keeps its profiles in.
	ColimaDirName = ".colima"

	// DefaultProfile is the colima profile used when none is given.
	DefaultProfile = "default"
)

// File names
const (
	SearchPathFileName = "path.txt"
	LogFileName        = "colama.log"
	DockerSocketName   = "docker.sock"
	InstanceFileName   = "instance.yaml"
)

// GlobalDir returns the path to the global Co-lama directory (~/.colama/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// SearchPathFile returns the path to the path.txt file.
func SearchPathFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SearchPathFileName), nil
}

// InstanceFile returns the path to the instance.yaml file.
func InstanceFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, InstanceFileName), nil
}

// LogFile returns the path to the log file.
func LogFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// ColimaProfileDir returns ~/.colima/<profile>.
func ColimaProfileDir(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if profile == "" {
		profile = DefaultProfile
	}
	return filepath.Join(home, ColimaDirName, profile), nil
}

// DockerSocket returns the docker socket colima exposes for a profile.
func DockerSocket(profile string) (string, error) {
	dir, err := ColimaProfileDir(profile)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DockerSocketName), nil
}

// EnsureGlobalDir creates the global Co-lama directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
