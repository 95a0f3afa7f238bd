// Package config loads the optional .zephyrrc.yaml settings file,
// following a parse-then-validate-then-default shape for a small
// settings surface: REPL prompt text and a stale-payload flag that is
// parsed but not acted on (see Settings.StalePayloadFatal).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings is the parsed .zephyrrc.yaml document.
type Settings struct {
	// Prompt overrides the REPL's default "zephyr> " prompt text.
	Prompt string `yaml:"prompt,omitempty"`

	// StalePayloadFatal is read from the file but nothing in the CLI
	// consults it: a stale .zphc payload always warns and still runs, and
	// a corrupt self-embedded payload always falls back to the normal CLI.
	StalePayloadFatal bool `yaml:"stale_payload_fatal,omitempty"`
}

// defaultSettings is returned whenever no .zephyrrc.yaml is found;
// absence of the file is not an error.
func defaultSettings() Settings {
	return Settings{Prompt: "zephyr> ", StalePayloadFatal: false}
}

// Load searches dir and its parents for .zephyrrc.yaml and parses it
// if found. Returns the defaults, unmodified, if no file exists
// anywhere up the tree.
func Load(dir string) (Settings, error) {
	path, err := find(dir)
	if err != nil {
		return Settings{}, err
	}
	if path == "" {
		return defaultSettings(), nil
	}
	return Parse(path)
}

// Parse reads and unmarshals a specific .zephyrrc.yaml path, filling
// in defaults for any field the file omits.
func Parse(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	settings := defaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return settings, nil
}

// find walks up from dir looking for .zephyrrc.yaml, returning "" if
// none exists anywhere up to the filesystem root.
func find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ".zephyrrc.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
