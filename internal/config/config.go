/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older builds tolerate newer files.

type EditorConfig struct {
	// UndoDepth caps the number of applied transactions kept for undo.
	// Zero or negative means unlimited.
	UndoDepth int `yaml:"undo_depth"`
	// GridSize is the edge length of one grid cell in export units.
	GridSize float64 `yaml:"grid_size"`
	// SegmentTolerance is the perpendicular hit-test distance for wires,
	// in grid units.
	SegmentTolerance float64 `yaml:"segment_tolerance"`
	Autosave         bool    `yaml:"autosave"`
	AutosaveSec      int     `yaml:"autosave_sec"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor:        EditorConfig{UndoDepth: 256, GridSize: 20, SegmentTolerance: 0.3, Autosave: false, AutosaveSec: 120},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvUndoDepth   = "GRIDCAD_UNDO_DEPTH"
	EnvGridSize    = "GRIDCAD_GRID_SIZE"
	EnvAutosave    = "GRIDCAD_AUTOSAVE"
	EnvAutosaveSec = "GRIDCAD_AUTOSAVE_SEC"
	// logging envs
	EnvLogLevel  = "GRIDCAD_LOG_LEVEL"
	EnvLogFormat = "GRIDCAD_LOG_FORMAT"
	EnvLogSource = "GRIDCAD_LOG_SOURCE"
	EnvLogFile   = "GRIDCAD_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GridCAD")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GridCAD")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gridcad")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML atomically (temp file + rename).
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Editor.UndoDepth != 0 {
		dst.Editor.UndoDepth = src.Editor.UndoDepth
	}
	if src.Editor.GridSize > 0 {
		dst.Editor.GridSize = src.Editor.GridSize
	}
	if src.Editor.SegmentTolerance > 0 {
		dst.Editor.SegmentTolerance = src.Editor.SegmentTolerance
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Editor.Autosave = src.Editor.Autosave
	if src.Editor.AutosaveSec > 0 {
		dst.Editor.AutosaveSec = src.Editor.AutosaveSec
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvUndoDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Editor.UndoDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvGridSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Editor.GridSize = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutosave)); v != "" {
		cfg.Editor.Autosave = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutosaveSec)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.AutosaveSec = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "editor.undo_depth":
		if os.Getenv(EnvUndoDepth) != "" {
			return EnvUndoDepth, true
		}
	case "editor.grid_size":
		if os.Getenv(EnvGridSize) != "" {
			return EnvGridSize, true
		}
	case "editor.autosave":
		if os.Getenv(EnvAutosave) != "" {
			return EnvAutosave, true
		}
	case "editor.autosave_sec":
		if os.Getenv(EnvAutosaveSec) != "" {
			return EnvAutosaveSec, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
