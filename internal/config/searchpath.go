package config

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSearchPath is offered by the setup prompt.
const DefaultSearchPath = "/opt/homebrew/bin"

// Asker asks the user for a single line of text. ok is false when the user
// dismissed the prompt.
type Asker interface {
	Ask(ctx context.Context, title, message, defaultText string) (answer string, ok bool, err error)
}

// LoadSearchPath reads the directory stored in ~/.colama/path.txt.
// If the file is missing an empty one is created and "" is returned.
func LoadSearchPath() (string, error) {
	path, err := SearchPathFile()
	if err != nil {
		return "", err
	}

	if !FileExists(path) {
		if err := EnsureGlobalDir(); err != nil {
			return "", fmt.Errorf("failed to create global directory: %w", err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", path, err)
		}
		return "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}

// SaveSearchPath stores dir as the only content of path.txt.
func SaveSearchPath(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("search path must not be empty")
	}
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := SearchPathFile()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(dir), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// EnsureSearchPath returns the stored search path, asking for it when the
// file is missing or empty. saved is true when the answer was written.
func EnsureSearchPath(ctx context.Context, asker Asker) (dir string, saved bool, err error) {
	dir, err = LoadSearchPath()
	if err != nil {
		return "", false, err
	}
	if dir != "" || asker == nil {
		return dir, false, nil
	}

	answer, ok, err := asker.Ask(ctx,
		"¡Hola!",
		"Can you please tell me the path to your programs? 🙏 (The directory where your package manager installs colima and docker)",
		DefaultSearchPath,
	)
	if err != nil {
		return "", false, fmt.Errorf("search path prompt failed: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if !ok || answer == "" {
		return "", false, nil
	}

	if err := SaveSearchPath(answer); err != nil {
		return "", false, err
	}
	return answer, true, nil
}

// PrependPath puts dir in front of a PATH-style list unless it already leads it.
func PrependPath(pathEnv, dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return pathEnv
	}
	if pathEnv == "" {
		return dir
	}
	first, _, _ := strings.Cut(pathEnv, string(filepath.ListSeparator))
	if first == dir {
		return pathEnv
	}
	return dir + string(filepath.ListSeparator) + pathEnv
}

// ApplySearchPath prepends dir to this process's PATH so colima and docker
// resolve from it.
func ApplySearchPath(dir string) error {
	return os.Setenv("PATH", PrependPath(os.Getenv("PATH"), dir))
}
