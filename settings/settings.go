// Package settings persists the saved shortcut configuration. The
// subsystem hands finished bindings to this store and reads the last one
// back at startup; nothing else in the repo touches the storage format.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hark/hotkey"
)

// Settings holds everything persisted between runs.
type Settings struct {
	// Hotkey is the textual binding spec, e.g. "ctrl+shift+space" or "fn".
	Hotkey string `yaml:"hotkey"`
	Label  string `yaml:"label,omitempty"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hark")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns the out-of-the-box configuration.
func Default() *Settings {
	return &Settings{
		Hotkey: "ctrl+shift+space",
		Label:  "Push to talk",
	}
}

// Load reads and parses a YAML settings file. Missing fields are filled
// with defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}
	return s, nil
}

// Validate checks the settings for invalid values.
func (s *Settings) Validate() error {
	if s.Hotkey == "" {
		return fmt.Errorf("hotkey must not be empty")
	}
	if _, err := hotkey.Parse(s.Hotkey); err != nil {
		return fmt.Errorf("hotkey: %w", err)
	}
	return nil
}

// Binding resolves the stored spec into a Binding.
func (s *Settings) Binding() (hotkey.Binding, error) {
	b, err := hotkey.Parse(s.Hotkey)
	if err != nil {
		return hotkey.Binding{}, err
	}
	b.Label = s.Label
	return b, nil
}

// FromBinding captures a finished binding for persistence.
func FromBinding(b hotkey.Binding) *Settings {
	return &Settings{Hotkey: b.Spec(), Label: b.Label}
}

// Save writes the settings to path, creating parent directories as
// needed.
func Save(path string, s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
