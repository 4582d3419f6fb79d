/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are read-only overrides applied at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AnalysisConfig tunes the timeline pass. Steps are the abstract timeline unit.
type AnalysisConfig struct {
	StartStep       int    `yaml:"start_step"`
	StepSize        int    `yaml:"step_size"`
	TransitionSteps int    `yaml:"transition_steps"`
	TransitionTrack int    `yaml:"transition_track"`
	MovieEras       int    `yaml:"movie_eras"`
	MovieGenres     int    `yaml:"movie_genres"`
	SequenceGenres  int    `yaml:"sequence_genres"`
	DefaultRegion   string `yaml:"default_region"`
	Seed            int64  `yaml:"seed"` // 0 picks a time-based seed
	StylePack       string `yaml:"style_pack"`
}

type TelemetryConfig struct {
	OptIn       bool   `yaml:"opt_in"`
	ProgressURL string `yaml:"progress_url"`
	CrashURL    string `yaml:"crash_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	Logging       LoggingConfig   `yaml:"logging"`
	Analysis      AnalysisConfig  `yaml:"analysis"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		Analysis: AnalysisConfig{
			StartStep:       1,
			StepSize:        2,
			TransitionSteps: 2,
			TransitionTrack: 7,
			MovieEras:       2,
			MovieGenres:     20,
			SequenceGenres:  2,
			DefaultRegion:   "american",
		},
		Telemetry: TelemetryConfig{TimeoutMs: 1500},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile = "GSP_CONFIG"

	EnvLogLevel  = "GSP_LOG_LEVEL"
	EnvLogFormat = "GSP_LOG_FORMAT"
	EnvLogSource = "GSP_LOG_SOURCE"
	EnvLogFile   = "GSP_LOG_FILE"

	EnvSeed      = "GSP_SEED"
	EnvStepSize  = "GSP_STEP_SIZE"
	EnvRegion    = "GSP_DEFAULT_REGION"
	EnvStylePack = "GSP_STYLE_PACK"

	EnvTelemetryOptIn   = "GSP_TELEMETRY_OPT_IN"
	EnvProgressURL      = "GSP_PROGRESS_URL"
	EnvCrashURL         = "GSP_CRASH_UPLOAD_URL"
	EnvTelemetryTimeout = "GSP_TELEMETRY_TIMEOUT_MS"
)

// ConfigPath returns the per-user config file path, honoring GSP_CONFIG.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "goscreenplay")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "goscreenplay")
	default:
		home := os.Getenv("HOME")
		if home == "" {
			return "", errors.New("cannot resolve config directory")
		}
		base = filepath.Join(home, ".config", "goscreenplay")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config file at path (or ConfigPath when empty), applies defaults
// and merges environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects values the analyzer cannot work with.
func (c AppConfig) Validate() error {
	a := c.Analysis
	if a.StepSize <= 0 {
		return fmt.Errorf("analysis.step_size must be > 0")
	}
	if a.TransitionSteps <= 0 {
		return fmt.Errorf("analysis.transition_steps must be > 0")
	}
	if a.MovieEras <= 0 || a.MovieGenres <= 0 || a.SequenceGenres <= 0 {
		return fmt.Errorf("analysis era/genre counts must be > 0")
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
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

	a, s := &dst.Analysis, src.Analysis
	mergeInt(&a.StartStep, s.StartStep)
	mergeInt(&a.StepSize, s.StepSize)
	mergeInt(&a.TransitionSteps, s.TransitionSteps)
	mergeInt(&a.TransitionTrack, s.TransitionTrack)
	mergeInt(&a.MovieEras, s.MovieEras)
	mergeInt(&a.MovieGenres, s.MovieGenres)
	mergeInt(&a.SequenceGenres, s.SequenceGenres)
	if s.DefaultRegion != "" {
		a.DefaultRegion = s.DefaultRegion
	}
	if s.Seed != 0 {
		a.Seed = s.Seed
	}
	if s.StylePack != "" {
		a.StylePack = s.StylePack
	}

	dst.Telemetry.OptIn = src.Telemetry.OptIn
	if src.Telemetry.ProgressURL != "" {
		dst.Telemetry.ProgressURL = src.Telemetry.ProgressURL
	}
	if src.Telemetry.CrashURL != "" {
		dst.Telemetry.CrashURL = src.Telemetry.CrashURL
	}
	mergeInt(&dst.Telemetry.TimeoutMs, src.Telemetry.TimeoutMs)
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Analysis.Seed = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvStepSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.StepSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRegion)); v != "" {
		cfg.Analysis.DefaultRegion = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStylePack)); v != "" {
		cfg.Analysis.StylePack = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.Telemetry.OptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvProgressURL)); v != "" {
		cfg.Telemetry.ProgressURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashURL)); v != "" {
		cfg.Telemetry.CrashURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryTimeout)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Telemetry.TimeoutMs = n
		}
	}
}

var envNames = map[string]string{
	"logging.level":           EnvLogLevel,
	"logging.format":          EnvLogFormat,
	"logging.source":          EnvLogSource,
	"logging.file":            EnvLogFile,
	"analysis.seed":           EnvSeed,
	"analysis.step_size":      EnvStepSize,
	"analysis.default_region": EnvRegion,
	"analysis.style_pack":     EnvStylePack,
	"telemetry.opt_in":        EnvTelemetryOptIn,
	"telemetry.progress_url":  EnvProgressURL,
	"telemetry.crash_url":     EnvCrashURL,
	"telemetry.timeout_ms":    EnvTelemetryTimeout,
}

// OverridableKeys lists the config keys that have an environment override, sorted.
func OverridableKeys() []string {
	keys := make([]string, 0, len(envNames))
	for k := range envNames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envNames[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
