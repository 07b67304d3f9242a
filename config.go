package dedihelper

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const (
	// Steam application ID for Arma 3. Workshop content for the game
	// lives under a directory named after it.
	armaAppID = "107410"

	defaultProfilesDirName = "ServerProfiles"
	defaultPort            = 2302

	defaultBaseServerURL = "https://raw.githubusercontent.com/rekterakathom/ArmaDediHelper/main/configs/base_server.cfg"
	defaultBaseBasicURL  = "https://raw.githubusercontent.com/rekterakathom/ArmaDediHelper/main/configs/base_basic.cfg"

	baseServerConfigName = "base_server.cfg"
	baseBasicConfigName  = "base_basic.cfg"
)

// Config carries every path and endpoint the tool touches. Root must be
// absolute; nothing below falls back to the working directory.
type Config struct {
	Root            string // server installation root
	ProfilesDirName string
	WorkshopDir     string // directory holding workshop content for armaAppID
	BaseServerURL   string
	BaseBasicURL    string
	Port            int
	Platform        string // GOOS value, picks the startup script flavor
}

// Load builds a Config for the given installation root from ADH_*
// environment variables, with defaults for everything unset. The
// default workshop dir sits two levels above the root, next to the
// steamapps/common tree the server is installed in.
func Load(root string) *Config {
	cfg := &Config{
		Root:            root,
		ProfilesDirName: getEnv("ADH_PROFILES_DIR", defaultProfilesDirName),
		WorkshopDir:     getEnv("ADH_WORKSHOP_DIR", filepath.Clean(filepath.Join(root, "..", "..", "workshop", "content", armaAppID))),
		BaseServerURL:   getEnv("ADH_BASE_SERVER_URL", defaultBaseServerURL),
		BaseBasicURL:    getEnv("ADH_BASE_BASIC_URL", defaultBaseBasicURL),
		Port:            getEnvAsInt("ADH_PORT", defaultPort),
		Platform:        getEnv("ADH_PLATFORM", runtime.GOOS),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		cfg.Port = defaultPort
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if val, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return val
	}
	return fallback
}

// ProfilesDir is the directory holding base configs and presets.
func (c *Config) ProfilesDir() string {
	return filepath.Join(c.Root, c.ProfilesDirName)
}

// ProfileDir is the per-preset directory the tool materializes.
func (c *Config) ProfileDir(name string) string {
	return filepath.Join(c.ProfilesDir(), name)
}

// BaseServerConfig is the path of the server config template.
func (c *Config) BaseServerConfig() string {
	return filepath.Join(c.ProfilesDir(), baseServerConfigName)
}

// BaseBasicConfig is the path of the basic config template.
func (c *Config) BaseBasicConfig() string {
	return filepath.Join(c.ProfilesDir(), baseBasicConfigName)
}

// WorkshopPath is the on-disk location of a subscribed mod.
func (c *Config) WorkshopPath(id string) string {
	return filepath.Join(c.WorkshopDir, id)
}
