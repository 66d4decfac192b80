package configs

import (
	"os"
	"path/filepath"
)

// AppName names the config and data directories.
const AppName = "ahasecret"

type UserSettings struct {
	ConfigDir  string
	ConfigPath string
	DataDir    string
}

// Settings is independent of the working directory, so it is resolved once at startup.
var Settings *UserSettings

func init() {
	Settings = ResolveSettings()
}

// ResolveSettings computes the config and data paths from the environment.
// Unresolvable directories fall back to the current directory rather than
// aborting, since only history and config commands touch the filesystem.
func ResolveSettings() *UserSettings {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(homeDir, ".local", "share")
		} else {
			dataDir = "."
		}
	}

	return &UserSettings{
		ConfigDir:  filepath.Join(configDir, AppName),
		ConfigPath: filepath.Join(configDir, AppName, "config.toml"),
		DataDir:    filepath.Join(dataDir, AppName),
	}
}
