package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "clickupai"

// GetStateHome returns a directory path for storing user-specific state
// (logs, traces). The directory is created following the XDG base directory layout if
// needed. Can be overridden by setting CLICKUPAI_STATE_HOME.
func GetStateHome() (string, error) {
	stateDir := os.Getenv("CLICKUPAI_STATE_HOME")
	if stateDir != "" {
		err := os.MkdirAll(stateDir, 0755)
		if err != nil {
			return "", fmt.Errorf("failed to create state directory from CLICKUPAI_STATE_HOME: %w", err)
		}
		return stateDir, nil
	}

	stateDir = filepath.Join(xdg.StateHome, appDirName)
	err := os.MkdirAll(stateDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return stateDir, nil
}

// GetConfigHome returns the directory searched for the optional config file.
// Can be overridden by setting CLICKUPAI_CONFIG_HOME.
func GetConfigHome() string {
	if dir := os.Getenv("CLICKUPAI_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, appDirName)
}
