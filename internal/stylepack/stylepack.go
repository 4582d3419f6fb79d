/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package stylepack provides the era and genre profiles used to enrich timeline prompts.
// A built-in pack is embedded; a user pack (YAML, same layout) can extend or replace profiles.
package stylepack

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	applog "goscreenplay/internal/log"
)

//go:embed default.yaml
var defaultYAML []byte

// Prompts are the additive fragments a profile contributes per segment category.
type Prompts struct {
	Style    []string `yaml:"style"`
	Camera   []string `yaml:"camera"`
	Lighting []string `yaml:"lighting"`
	Weather  []string `yaml:"weather"`
	Sound    []string `yaml:"sound"`
	Music    []string `yaml:"music"`
	Era      []string `yaml:"era"`
}

// Profile is one era or genre.
type Profile struct {
	Label    string   `yaml:"-"`
	Keywords []string `yaml:"keywords"`
	Prompts  Prompts  `yaml:"prompts"`
}

// Pack groups all profiles plus the mock music vocabulary.
type Pack struct {
	Eras   map[string]Profile `yaml:"eras"`
	Genres map[string]Profile `yaml:"genres"`
	Music  []string           `yaml:"music"`
}

var (
	defaultOnce sync.Once
	defaultPack *Pack
	defaultErr  error
)

// Default returns the embedded pack. The returned value must not be modified.
func Default() (*Pack, error) {
	defaultOnce.Do(func() {
		defaultPack, defaultErr = Parse(defaultYAML)
	})
	return defaultPack, defaultErr
}

// Parse decodes a pack from YAML and fills profile labels from their keys.
func Parse(data []byte) (*Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse style pack: %w", err)
	}
	p.Eras = labelled(p.Eras)
	p.Genres = labelled(p.Genres)
	return &p, nil
}

// Load reads a user pack from path and merges it over the default pack.
// Profiles with the same label replace the built-in ones; a non-empty music list replaces the default.
func Load(path string) (*Pack, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "load").With(slog.String("path", path))
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("style pack path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style pack: %w", err)
	}
	user, err := Parse(data)
	if err != nil {
		return nil, err
	}
	merged := base.Merge(user)
	l.Info("style pack loaded", slog.Int("eras", len(merged.Eras)), slog.Int("genres", len(merged.Genres)))
	return merged, nil
}

// Merge returns a new pack with other's profiles layered over p.
func (p *Pack) Merge(other *Pack) *Pack {
	out := &Pack{
		Eras:   make(map[string]Profile, len(p.Eras)+len(other.Eras)),
		Genres: make(map[string]Profile, len(p.Genres)+len(other.Genres)),
		Music:  append([]string(nil), p.Music...),
	}
	for k, v := range p.Eras {
		out.Eras[k] = v
	}
	for k, v := range other.Eras {
		out.Eras[k] = v
	}
	for k, v := range p.Genres {
		out.Genres[k] = v
	}
	for k, v := range other.Genres {
		out.Genres[k] = v
	}
	if len(other.Music) > 0 {
		out.Music = append([]string(nil), other.Music...)
	}
	return out
}

// Era returns the profile for label. Unknown labels yield an empty profile carrying the label.
func (p *Pack) Era(label string) Profile { return lookup(p.Eras, label) }

// Genre returns the profile for label. Unknown labels yield an empty profile carrying the label.
func (p *Pack) Genre(label string) Profile { return lookup(p.Genres, label) }

// EraLabels returns era labels in sorted order.
func (p *Pack) EraLabels() []string { return sortedKeys(p.Eras) }

// GenreLabels returns genre labels in sorted order.
func (p *Pack) GenreLabels() []string { return sortedKeys(p.Genres) }

func lookup(m map[string]Profile, label string) Profile {
	key := strings.ToLower(strings.TrimSpace(label))
	if prof, ok := m[key]; ok {
		return prof
	}
	return Profile{Label: key}
}

func labelled(in map[string]Profile) map[string]Profile {
	out := make(map[string]Profile, len(in))
	for k, v := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		v.Label = key
		out[key] = v
	}
	return out
}

func sortedKeys(m map[string]Profile) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
