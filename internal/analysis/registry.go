/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package analysis

import (
	"context"
	"fmt"
	"sort"

	"goscreenplay/internal/domain"
)

// Asset is the working record kept per trigger name while the pass runs.
type Asset struct {
	ID          string
	Category    domain.EntityCategory
	Label       string
	Occurrences int
	// Sequences holds the full text of each distinct sequence the asset was seen in.
	Sequences []string
}

// Registry deduplicates entities by trigger name. The forward map and the by-id
// map always hold the same pointers; entries are never replaced or removed.
type Registry struct {
	names  NameAnalyzer
	region string

	byLabel map[string]*domain.Entity
	byID    map[string]*domain.Entity
	assets  map[string]*Asset
}

func NewRegistry(names NameAnalyzer, region string) *Registry {
	return &Registry{
		names:   names,
		region:  region,
		byLabel: map[string]*domain.Entity{},
		byID:    map[string]*domain.Entity{},
		assets:  map[string]*Asset{},
	}
}

// Location registers a place seen in the heading of the sequence with full text seqText.
func (r *Registry) Location(name, seqText string) *domain.Entity {
	if e, ok := r.byLabel[name]; ok {
		r.touch(name, seqText)
		return e
	}
	e := domain.NewEntity(domain.Entity{
		Category:    domain.EntityLocation,
		TriggerName: name,
		Label:       name,
		Gender:      domain.GenderObject,
	})
	r.add(e, seqText)
	return e
}

// Character registers a speaker. On first sighting the name analyzer is consulted;
// when it fails nothing is recorded.
func (r *Registry) Character(ctx context.Context, name, seqText string) (*domain.Entity, error) {
	if e, ok := r.byLabel[name]; ok {
		r.touch(name, seqText)
		return e, nil
	}
	info, err := r.names.AnalyzeName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("analyze name %q: %w", name, err)
	}
	label := info.Name
	if label == "" {
		label = name
	}
	e := domain.NewEntity(domain.Entity{
		Category:    domain.EntityCharacter,
		TriggerName: name,
		Label:       label,
		Description: fmt.Sprintf("%s is a %s", label, info.Gender),
		Age:         info.Age,
		Gender:      info.Gender,
		Region:      r.region,
	})
	r.add(e, seqText)
	return e, nil
}

func (r *Registry) add(e *domain.Entity, seqText string) {
	r.byLabel[e.TriggerName] = e
	r.byID[e.ID] = e
	r.assets[e.TriggerName] = &Asset{
		ID:          e.ID,
		Category:    e.Category,
		Label:       e.TriggerName,
		Occurrences: 1,
		Sequences:   []string{seqText},
	}
}

func (r *Registry) touch(name, seqText string) {
	a := r.assets[name]
	a.Occurrences++
	for _, s := range a.Sequences {
		if s == seqText {
			return
		}
	}
	a.Sequences = append(a.Sequences, seqText)
}

// ByLabel returns a copy of the trigger name index.
func (r *Registry) ByLabel() map[string]*domain.Entity {
	out := make(map[string]*domain.Entity, len(r.byLabel))
	for k, v := range r.byLabel {
		out[k] = v
	}
	return out
}

// ByID returns a copy of the id index.
func (r *Registry) ByID() map[string]*domain.Entity {
	out := make(map[string]*domain.Entity, len(r.byID))
	for k, v := range r.byID {
		out[k] = v
	}
	return out
}

// Assets returns copies of the working records, sorted by label.
func (r *Registry) Assets() []Asset {
	out := make([]Asset, 0, len(r.assets))
	for _, a := range r.assets {
		c := *a
		c.Sequences = append([]string(nil), a.Sequences...)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
