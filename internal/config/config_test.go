/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Analysis.StepSize, Defaults().Analysis.StepSize; got != want {
		t.Fatalf("StepSize = %d, want %d", got, want)
	}
	if cfg.Analysis.TransitionTrack != 7 || cfg.Analysis.TransitionSteps != 2 {
		t.Fatalf("unexpected transition defaults: %+v", cfg.Analysis)
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
logging:
  level: DEBUG
  format: json
analysis:
  step_size: 4
  seed: 42
  default_region: british
telemetry:
  opt_in: true
  progress_url: http://localhost:9999/progress
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging not merged: %#v", cfg.Logging)
	}
	if cfg.Analysis.StepSize != 4 || cfg.Analysis.Seed != 42 || cfg.Analysis.DefaultRegion != "british" {
		t.Fatalf("analysis not merged: %#v", cfg.Analysis)
	}
	if cfg.Analysis.MovieGenres != 20 {
		t.Fatalf("unset field should keep default, got %d", cfg.Analysis.MovieGenres)
	}
	if !cfg.Telemetry.OptIn || cfg.Telemetry.ProgressURL == "" {
		t.Fatalf("telemetry not merged: %#v", cfg.Telemetry)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("analysis: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/gsp.log")
	t.Setenv(EnvSeed, "7")
	t.Setenv(EnvProgressURL, "http://example.test/progress")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/gsp.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
	if cfg.Analysis.Seed != 7 {
		t.Fatalf("seed override not applied: %d", cfg.Analysis.Seed)
	}
	if name, ok := EnvOverrideFor("telemetry.progress_url"); !ok || name != EnvProgressURL {
		t.Fatalf("EnvOverrideFor = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("analysis.start_step"); ok {
		t.Fatalf("start_step has no env override")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Analysis.StepSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero step size")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.Analysis.Seed = 99
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Analysis.Seed != 99 {
		t.Fatalf("seed not persisted: %d", got.Analysis.Seed)
	}
}

func TestOverridableKeysAreSortedAndResolvable(t *testing.T) {
	keys := OverridableKeys()
	if len(keys) == 0 {
		t.Fatalf("no overridable keys")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not sorted: %v", keys)
		}
	}
	t.Setenv(EnvRegion, "british")
	found := false
	for _, k := range keys {
		if env, ok := EnvOverrideFor(k); ok && env == EnvRegion {
			found = k == "analysis.default_region"
		}
	}
	if !found {
		t.Fatalf("analysis.default_region should report %s", EnvRegion)
	}
}
