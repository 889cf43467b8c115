package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/rv64imc/sim/vm"
)

// Config represents the simulator configuration: memory layout, stack
// pointer initialization and endianness (spec.md §6's Construct(layout,
// sp_pos, endianness)), plus debugger and display settings.
type Config struct {
	// Memory layout
	Memory struct {
		DataBase        uint64 `toml:"data_base"`
		StackBase       uint64 `toml:"stack_base"`
		StackSize       uint64 `toml:"stack_size"`
		InitialHeapSize uint64 `toml:"initial_heap_size"`
		BigEndian       bool   `toml:"big_endian"`
	} `toml:"memory"`

	// Execution settings
	Execution struct {
		SpPos string `toml:"sp_pos"` // "zero", "stack_bottom", "stack_top"
	} `toml:"execution"`

	// Debugger settings
	Debugger struct {
		HistorySize    int  `toml:"history_size"`
		AutoSaveBreaks bool `toml:"auto_save_breakpoints"`
		ShowSource     bool `toml:"show_source"`
		ShowRegisters  bool `toml:"show_registers"`
	} `toml:"debugger"`

	// Display settings
	Display struct {
		ColorOutput   bool   `toml:"color_output"`
		BytesPerLine  int    `toml:"bytes_per_line"`
		DisasmContext int    `toml:"disasm_context"`
		SourceContext int    `toml:"source_context"`
		NumberFormat  string `toml:"number_format"` // hex, dec, both
	} `toml:"display"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Memory layout defaults, matching vm.DefaultLayout()
	cfg.Memory.DataBase = 0x400000
	cfg.Memory.StackBase = 0x7FF00000
	cfg.Memory.StackSize = 1024 * 1024
	cfg.Memory.InitialHeapSize = 128
	cfg.Memory.BigEndian = false

	// Execution defaults
	cfg.Execution.SpPos = "stack_top"

	// Debugger defaults
	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.AutoSaveBreaks = true
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true

	// Display defaults
	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.DisasmContext = 5
	cfg.Display.SourceContext = 5
	cfg.Display.NumberFormat = "hex"

	return cfg
}

// VMConfig builds a vm.Config from the loaded settings, resolving the
// string-valued sp_pos into its vm.SpPos enum form.
func (c *Config) VMConfig() vm.Config {
	return vm.Config{
		Layout: vm.Layout{
			DataBase:        c.Memory.DataBase,
			StackBase:       c.Memory.StackBase,
			StackSize:       c.Memory.StackSize,
			InitialHeapSize: c.Memory.InitialHeapSize,
			BigEndian:       c.Memory.BigEndian,
		},
		SpPos: parseSpPos(c.Execution.SpPos),
	}
}

func parseSpPos(s string) vm.SpPos {
	switch s {
	case "zero":
		return vm.SpZero
	case "stack_bottom":
		return vm.SpStackBottom
	default:
		return vm.SpStackTop
	}
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\rv64imc-sim\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rv64imc-sim")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/rv64imc-sim/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rv64imc-sim")

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\rv64imc-sim\logs
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "rv64imc-sim", "logs")

	case "darwin", "linux":
		// macOS/Linux: ~/.local/share/rv64imc-sim/logs
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "rv64imc-sim", "logs")

	default:
		return "logs"
	}

	// Ensure directory exists
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read and parse config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	// Encode to TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
