package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadAndMerge reads a YAML file and merges it into cfg. The raw document
// is unmarshalled a second time into a map so that explicit false values
// can be told apart from absent fields.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if boolFieldSet(raw, "navigation", "wrap") {
		base.Navigation.Wrap = override.Navigation.Wrap
	}
	if override.Navigation.KeySets != nil {
		base.Navigation.KeySets = append([]string{}, override.Navigation.KeySets...)
	}
	if strings.TrimSpace(override.Navigation.Entry) != "" {
		base.Navigation.Entry = override.Navigation.Entry
	}

	if strings.TrimSpace(override.Theme.Name) != "" {
		base.Theme.Name = override.Theme.Name
	}

	if boolFieldSet(raw, "telemetry", "enabled") {
		base.Telemetry.Enabled = override.Telemetry.Enabled
	}
	if strings.TrimSpace(override.Telemetry.OutputPath) != "" {
		base.Telemetry.OutputPath = override.Telemetry.OutputPath
	}

	if boolFieldSet(raw, "reload", "enabled") {
		base.Reload.Enabled = override.Reload.Enabled
	}
	if override.Reload.DebounceMS != 0 {
		base.Reload.DebounceMS = override.Reload.DebounceMS
	}
}

// boolFieldSet reports whether the raw YAML document carries an explicit
// value at the given path. Needed for boolean fields whose zero value is a
// meaningful override.
func boolFieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
