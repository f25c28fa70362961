package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/odvcencio/rove/pkg/keynav"
)

// Default configuration values exported for documentation and validation
const (
	DefaultEntryPolicy     = "previous"
	DefaultTheme           = "auto"
	DefaultReloadDebounce  = 200
	DefaultTelemetryOutput = ""
)

// defaultKeySets is the binding selection used when no config names one.
var defaultKeySets = []string{"arrows", "home-end"}

// keySetBindings maps config key-set names onto controller binding groups.
var keySetBindings = map[string]keynav.Binding{
	"arrows":            keynav.BindArrows,
	"horizontal-arrows": keynav.BindHorizontalArrows,
	"vertical-arrows":   keynav.BindVerticalArrows,
	"wasd":              keynav.BindWASD,
	"ijkl":              keynav.BindIJKL,
	"gamer":             keynav.BindGamerKeys,
	"home-end":          keynav.BindHomeEnd,
	"page-keys":         keynav.BindPageKeys,
	"tab":               keynav.BindTab,
	"all":               keynav.BindAll,
}

// letterKeySets are the key-set names that claim plain letter keys.
var letterKeySets = map[string]bool{
	"wasd":  true,
	"ijkl":  true,
	"gamer": true,
	"all":   true,
}

// Config represents the complete gallery configuration
type Config struct {
	Navigation NavigationConfig `yaml:"navigation"`
	Theme      ThemeConfig      `yaml:"theme"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Reload     ReloadConfig     `yaml:"reload"`
}

// NavigationConfig shapes the controllers the gallery attaches
type NavigationConfig struct {
	Wrap    bool     `yaml:"wrap"`
	KeySets []string `yaml:"key_sets"`
	Entry   string   `yaml:"entry"` // previous or first
}

// ThemeConfig selects the render palette
type ThemeConfig struct {
	Name string `yaml:"name"` // auto, dark, light, mono
}

// TelemetryConfig controls metrics collection and the exit snapshot
type TelemetryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputPath string `yaml:"output_path"` // empty writes the snapshot to stderr
}

// ReloadConfig controls live config re-reads while the gallery runs
type ReloadConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMS int  `yaml:"debounce_ms"`
}

// DefaultConfig returns the configuration used when no file overrides it
func DefaultConfig() *Config {
	return &Config{
		Navigation: NavigationConfig{
			Wrap:    false,
			KeySets: append([]string{}, defaultKeySets...),
			Entry:   DefaultEntryPolicy,
		},
		Theme: ThemeConfig{
			Name: DefaultTheme,
		},
		Telemetry: TelemetryConfig{
			Enabled:    true,
			OutputPath: DefaultTelemetryOutput,
		},
		Reload: ReloadConfig{
			Enabled:    true,
			DebounceMS: DefaultReloadDebounce,
		},
	}
}

// Load reads configuration with the standard precedence:
// defaults, then ~/.rove/config.yaml, then ./.rove/config.yaml,
// then ROVE_* environment overrides.
func Load() (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Load user config (~/.rove/config.yaml)
	if userConfigPath := UserConfigPath(); userConfigPath != "" {
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	// Load project config (./.rove/config.yaml)
	if err := loadAndMerge(cfg, ProjectConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Load from the specified path
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverridesForTest exposes env override logic for tests without file I/O.
func ApplyEnvOverridesForTest(cfg *Config) {
	applyEnvOverrides(cfg)
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if v, ok := envBool("ROVE_WRAP"); ok {
		cfg.Navigation.Wrap = v
	}
	if v := os.Getenv("ROVE_KEY_SETS"); v != "" {
		cfg.Navigation.KeySets = splitCommaList(v)
	}
	if v := os.Getenv("ROVE_ENTRY"); v != "" {
		cfg.Navigation.Entry = v
	}

	if v := os.Getenv("ROVE_THEME"); v != "" {
		cfg.Theme.Name = v
	}

	if v, ok := envBool("ROVE_TELEMETRY_ENABLED"); ok {
		cfg.Telemetry.Enabled = v
	}
	if v := os.Getenv("ROVE_TELEMETRY_OUTPUT"); v != "" {
		cfg.Telemetry.OutputPath = v
	}

	if v, ok := envBool("ROVE_RELOAD_ENABLED"); ok {
		cfg.Reload.Enabled = v
	}
	if v := os.Getenv("ROVE_RELOAD_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Reload.DebounceMS = ms
		}
	}
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	validEntries := map[string]bool{
		"previous": true,
		"first":    true,
	}
	if !validEntries[strings.ToLower(c.Navigation.Entry)] {
		return fmt.Errorf("invalid entry policy: %s (must be previous or first)", c.Navigation.Entry)
	}

	for _, name := range c.Navigation.KeySets {
		if _, ok := keySetBindings[strings.ToLower(name)]; !ok {
			return fmt.Errorf("unknown key set: %s (valid: %s)", name, strings.Join(keySetNames(), ", "))
		}
	}

	validThemes := map[string]bool{
		"auto":  true,
		"dark":  true,
		"light": true,
		"mono":  true,
	}
	if !validThemes[strings.ToLower(c.Theme.Name)] {
		return fmt.Errorf("invalid theme: %s (valid: auto, dark, light, mono)", c.Theme.Name)
	}

	if c.Reload.DebounceMS < 0 {
		return fmt.Errorf("reload debounce must be non-negative, got %d", c.Reload.DebounceMS)
	}

	return nil
}

// ValidationWarnings returns non-fatal advisories about the configuration
func (c *Config) ValidationWarnings() []string {
	var warnings []string

	if len(c.Navigation.KeySets) == 0 {
		warnings = append(warnings, "navigation.key_sets is empty; controllers fall back to their built-in bindings")
	}

	for _, name := range c.Navigation.KeySets {
		if letterKeySets[strings.ToLower(name)] {
			warnings = append(warnings, fmt.Sprintf("key set %q claims letter keys; text widgets lose direct insertion for those letters", name))
			break
		}
	}

	if c.Telemetry.OutputPath != "" && !c.Telemetry.Enabled {
		warnings = append(warnings, "telemetry.output_path is set but telemetry is disabled; no snapshot will be written")
	}

	return warnings
}

// Bindings resolves the configured key-set names into a controller binding
// mask. Unknown names contribute nothing; Validate reports them.
func (n NavigationConfig) Bindings() keynav.Binding {
	var mask keynav.Binding
	for _, name := range n.KeySets {
		mask |= keySetBindings[strings.ToLower(name)]
	}
	return mask
}

// EntryPolicy resolves the configured entry name. Anything but "first"
// keeps the previous-element default.
func (n NavigationConfig) EntryPolicy() keynav.EntryPolicy {
	if strings.EqualFold(n.Entry, "first") {
		return keynav.EntryFirst
	}
	return keynav.EntryPrevious
}

func keySetNames() []string {
	names := make([]string, 0, len(keySetBindings))
	for name := range keySetBindings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
