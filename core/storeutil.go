package core

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG base directories
const AppName = "mcmpmgr"

// GetProfileStorePath returns the path of the file that stores profiles, creating its parent directory
func GetProfileStorePath() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, "data.toml"))
}

// GetConfigPath returns the path of the optional CLI config file, creating its parent directory
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, "config.toml"))
}
