/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPack(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if len(p.Music) == 0 {
		t.Fatalf("expected a music vocabulary")
	}
	classic := p.Genre("classic")
	if classic.Label != "classic" || len(classic.Prompts.Style) == 0 {
		t.Fatalf("classic genre missing: %+v", classic)
	}
	contemporary := p.Era("CONTEMPORARY")
	if contemporary.Label != "contemporary" || len(contemporary.Prompts.Era) == 0 {
		t.Fatalf("contemporary era missing: %+v", contemporary)
	}
	labels := p.GenreLabels()
	for i := 1; i < len(labels); i++ {
		if labels[i-1] > labels[i] {
			t.Fatalf("genre labels not sorted: %v", labels)
		}
	}
}

func TestUnknownProfileIsEmpty(t *testing.T) {
	p, _ := Default()
	prof := p.Era("steampunk")
	if prof.Label != "steampunk" || len(prof.Keywords) != 0 || len(prof.Prompts.Style) != 0 {
		t.Fatalf("unexpected profile: %+v", prof)
	}
}

func TestLoadMergesOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.yaml")
	data := []byte(`
eras:
  Steampunk:
    keywords: [airship, brass]
    prompts:
      style: [steampunk]
genres:
  noir:
    keywords: [detective]
    prompts:
      style: [neo-noir]
music: [kazoo solo]
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := p.Era("steampunk").Prompts.Style; len(got) != 1 || got[0] != "steampunk" {
		t.Fatalf("steampunk era not merged: %v", got)
	}
	if got := p.Genre("noir").Prompts.Style; len(got) != 1 || got[0] != "neo-noir" {
		t.Fatalf("noir not replaced: %v", got)
	}
	if len(p.Genre("thriller").Keywords) == 0 {
		t.Fatalf("built-in genres should survive a merge")
	}
	if len(p.Music) != 1 || p.Music[0] != "kazoo solo" {
		t.Fatalf("music not replaced: %v", p.Music)
	}
	// the embedded pack is untouched
	def, _ := Default()
	if def.Genre("noir").Prompts.Style[0] != "film noir" {
		t.Fatalf("default pack mutated")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(bad, []byte("eras: [unclosed"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
