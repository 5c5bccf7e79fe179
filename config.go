package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Sort method identifiers for Config.SortMethod.
const (
	SortLexical = iota
	SortNatural
	SortScanOrder
)

// Config is the persisted application configuration (~/.riv.json).
type Config struct {
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`

	CacheSize     int `json:"cache_size"`      // max decoded images kept
	CacheBudgetMB int `json:"cache_budget_mb"` // decoded pixel budget
	PreloadCount  int `json:"preload_count"`   // neighbors prefetched per side

	SortMethod int  `json:"sort_method"`
	Recursive  bool `json:"recursive"`

	// BackgroundBrightness is the window clear shade, 0.0 black to 1.0 white.
	BackgroundBrightness float64 `json:"background_brightness"`

	Keybindings map[string][]string `json:"keybindings"`
	Mouse       MouseSettings       `json:"mouse"`
}

func getDefaultConfig() *Config {
	return &Config{
		WindowWidth:          800,
		WindowHeight:         500,
		CacheSize:            32,
		CacheBudgetMB:        512,
		PreloadCount:         2,
		SortMethod:           SortLexical,
		Recursive:            false,
		BackgroundBrightness: 0.25,
		Keybindings:          GetDefaultKeybindings(),
		Mouse:                DefaultMouseSettings(),
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".riv.json"), nil
}

// LoadConfig reads the config file, falling back to defaults when it is
// missing. A malformed file is reported and replaced by defaults rather than
// aborting startup.
func LoadConfig() *Config {
	path, err := configPath()
	if err != nil {
		log.Printf("Warning: %v, using default config", err)
		return getDefaultConfig()
	}
	return loadConfigFromPath(path)
}

func loadConfigFromPath(path string) *Config {
	cfg := getDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read config %s: %v", path, err)
		}
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("Warning: malformed config %s: %v, using defaults", path, err)
		return getDefaultConfig()
	}

	validateAndFixConfig(cfg)
	return cfg
}

// SaveConfig writes the config back, pretty-printed like a hand-edited file.
func SaveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// validateAndFixConfig clamps out-of-range values and repairs unusable
// sections instead of rejecting the file.
func validateAndFixConfig(cfg *Config) {
	cfg.WindowWidth = clampInt(cfg.WindowWidth, 200, 16384)
	cfg.WindowHeight = clampInt(cfg.WindowHeight, 150, 16384)
	cfg.CacheSize = clampInt(cfg.CacheSize, 4, 1024)
	cfg.CacheBudgetMB = clampInt(cfg.CacheBudgetMB, 32, 65536)
	cfg.PreloadCount = clampInt(cfg.PreloadCount, 0, 16)
	cfg.BackgroundBrightness = clampFloat(cfg.BackgroundBrightness, 0.0, 1.0)

	if cfg.SortMethod < SortLexical || cfg.SortMethod > SortScanOrder {
		log.Printf("Warning: unknown sort_method %d, using lexical", cfg.SortMethod)
		cfg.SortMethod = SortLexical
	}

	if cfg.Keybindings == nil {
		cfg.Keybindings = GetDefaultKeybindings()
	} else {
		validateKeybindings(cfg)
	}

	if cfg.Mouse.DragSensitivity <= 0 {
		cfg.Mouse.DragSensitivity = 1.0
	}
	if cfg.Mouse.DragThreshold < 0 {
		cfg.Mouse.DragThreshold = 0
	}
	if cfg.Mouse.WheelSensitivity <= 0 {
		cfg.Mouse.WheelSensitivity = 1.0
	}
	if cfg.Mouse.DoubleClickTime <= 0 {
		cfg.Mouse.DoubleClickTime = 350
	}
}

// validateKeybindings drops unknown actions and unparsable combos, and fills
// in defaults for actions the file leaves unbound.
func validateKeybindings(cfg *Config) {
	known := GetActionDescriptions()
	for action, combos := range cfg.Keybindings {
		if _, ok := known[action]; !ok {
			log.Printf("Warning: unknown action %q in keybindings, ignoring", action)
			delete(cfg.Keybindings, action)
			continue
		}
		valid := combos[:0]
		for _, combo := range combos {
			if _, ok := parseKeyCombo(combo); !ok {
				log.Printf("Warning: invalid key combo %q for action %q, ignoring", combo, action)
				continue
			}
			valid = append(valid, combo)
		}
		cfg.Keybindings[action] = valid
	}
	for action, defaults := range GetDefaultKeybindings() {
		if len(cfg.Keybindings[action]) == 0 {
			cfg.Keybindings[action] = defaults
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
