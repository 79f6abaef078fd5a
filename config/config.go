// Copyright 2026 The braillebridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and persists the service's YAML configuration:
// socket path, timing defaults, the chosen authentication method, and
// table paths. It is deliberately separate from the key/text table
// compilers, which read their own declarative formats.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// settings is the YAML-shaped document, kept separate from Config so
// Load/Reset can replace it wholesale without touching Config's mutex
// or path.
type settings struct {
	SocketPath         string        `yaml:"socket_path"`
	LongPressTime      time.Duration `yaml:"long_press_time"`
	RefreshQuantum     time.Duration `yaml:"refresh_quantum"`
	StickyResetTime    time.Duration `yaml:"sticky_reset_time"`
	AutoRepeatRate     time.Duration `yaml:"auto_repeat_rate"`
	AuthMethod         string        `yaml:"auth_method"`
	KeyfilePath        string        `yaml:"keyfile_path,omitempty"`
	KeyTablePath       string        `yaml:"key_table_path"`
	TextTablePath      string        `yaml:"text_table_path"`
	ContractionTable   string        `yaml:"contraction_table_path,omitempty"`
	SkipIdenticalLines bool          `yaml:"skip_identical_lines"`
	AudibleAlerts      bool          `yaml:"audible_alerts"`
}

func defaultSettings() settings {
	return settings{
		SocketPath:      "/run/braillebridge/braillebridge.sock",
		LongPressTime:   400 * time.Millisecond,
		RefreshQuantum:  40 * time.Millisecond,
		StickyResetTime: 10 * time.Second,
		AutoRepeatRate:  100 * time.Millisecond,
		AuthMethod:      "none",
		KeyTablePath:    "/etc/braillebridge/default.ktb",
		TextTablePath:   "/etc/braillebridge/default.ttb",
	}
}

// Config is the service-level configuration document (spec §9's design
// note on startup parameters, generalized to a loadable file so the
// daemon doesn't require a recompile to change a timeout). It satisfies
// dispatch.PreferencesStore.
type Config struct {
	mu   sync.Mutex
	path string
	s    settings
}

// New returns a Config backed by path, seeded with defaults. Load
// populates it from disk; a missing file is not an error, matching a
// fresh install with no config.yaml yet.
func New(path string) *Config {
	return &Config{path: path, s: defaultSettings()}
}

// Load reads and validates the YAML document at c's path, replacing the
// in-memory settings. A missing file leaves the current values in place.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("braille bridge: read config %s: %w", c.path, err)
	}
	loaded := defaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("braille bridge: parse config %s: %w", c.path, err)
	}
	if err := loaded.validate(); err != nil {
		return fmt.Errorf("braille bridge: invalid config %s: %w", c.path, err)
	}
	c.s = loaded
	return nil
}

// Save writes c's current settings to its path as YAML, creating parent
// directories as needed.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("braille bridge: create config dir: %w", err)
	}
	data, err := yaml.Marshal(c.s)
	if err != nil {
		return fmt.Errorf("braille bridge: marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("braille bridge: write config %s: %w", c.path, err)
	}
	return nil
}

// Reset restores default settings in place. It does not write to disk;
// callers that want the reset persisted call Save afterward, matching
// how CmdPrefReset and CmdPrefSave are distinct commands (spec §4.3).
func (c *Config) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s = defaultSettings()
}

func (c *Config) get() settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

func (c *Config) SocketPath() string          { return c.get().SocketPath }
func (c *Config) LongPressTime() time.Duration { return c.get().LongPressTime }
func (c *Config) RefreshQuantum() time.Duration { return c.get().RefreshQuantum }
func (c *Config) StickyResetTime() time.Duration { return c.get().StickyResetTime }
func (c *Config) AutoRepeatRate() time.Duration { return c.get().AutoRepeatRate }
func (c *Config) AuthMethod() string          { return c.get().AuthMethod }
func (c *Config) KeyfilePath() string         { return c.get().KeyfilePath }
func (c *Config) KeyTablePath() string        { return c.get().KeyTablePath }
func (c *Config) TextTablePath() string       { return c.get().TextTablePath }
func (c *Config) ContractionTable() string    { return c.get().ContractionTable }
func (c *Config) SkipIdenticalLines() bool    { return c.get().SkipIdenticalLines }
func (c *Config) AudibleAlerts() bool         { return c.get().AudibleAlerts }

var validAuthMethods = map[string]bool{"none": true, "keyfile": true, "credentials": true, "polkit": true}

func (s settings) validate() error {
	if !validAuthMethods[s.AuthMethod] {
		return fmt.Errorf("auth_method: unknown value %q", s.AuthMethod)
	}
	if s.AuthMethod == "keyfile" && s.KeyfilePath == "" {
		return fmt.Errorf("auth_method: keyfile requires keyfile_path")
	}
	if s.RefreshQuantum <= 0 {
		return fmt.Errorf("refresh_quantum: must be positive")
	}
	return nil
}
