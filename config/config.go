// Package config loads and saves the TOML-backed settings this project's
// command-line front end and debugger read at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every user-tunable setting for a simulation session.
type Config struct {
	// Board overrides the built-in ATmega168 descriptor, letting a user
	// experiment with other AVR parts' address-space extents without a
	// code change.
	Board struct {
		RAMEnd   int `toml:"ram_end"`
		FlashEnd int `toml:"flash_end"`
	} `toml:"board"`

	// Execution controls the default load address used when the command
	// line does not specify one.
	Execution struct {
		DefaultEntry string `toml:"default_entry"`
	} `toml:"execution"`

	// Debugger controls REPL/TUI display preferences.
	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`

	// Display controls number formatting in register and memory dumps.
	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec, both
	} `toml:"display"`
}

// DefaultConfig returns a Config populated with this simulator's defaults:
// the ATmega168 descriptor, entry at word address 0, and hex display.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Board.RAMEnd = 1024
	cfg.Board.FlashEnd = 16 * 1024 / 2

	cfg.Execution.DefaultEntry = "0x0000"

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowRegisters = true

	cfg.Display.NumberFormat = "hex"

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its containing directory if necessary.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "avr-db")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "avr-db")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// LoadConfig reads and decodes path as TOML. A missing file is not an
// error: it yields DefaultConfig() so a first run needs no setup step.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes c to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c to path as TOML, creating its containing directory if
// necessary.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user-provided config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
