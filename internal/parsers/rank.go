/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package parsers

import (
	"context"
	"sort"

	"goscreenplay/internal/stylepack"
)

// MostProbableEras ranks era labels by keyword hits in text, best first, at most n.
// Profiles without a single hit are left out.
func (p *Parsers) MostProbableEras(ctx context.Context, text string, n int) ([]string, error) {
	return rank(ctx, p.pack.Eras, text, n)
}

// MostProbableGenres ranks genre labels by keyword hits in text, best first, at most n.
func (p *Parsers) MostProbableGenres(ctx context.Context, text string, n int) ([]string, error) {
	return rank(ctx, p.pack.Genres, text, n)
}

// Era returns the prompt profile of an era label.
func (p *Parsers) Era(label string) stylepack.Profile { return p.pack.Era(label) }

// Genre returns the prompt profile of a genre label.
func (p *Parsers) Genre(label string) stylepack.Profile { return p.pack.Genre(label) }

type scored struct {
	label string
	score int
}

func rank(ctx context.Context, profiles map[string]stylepack.Profile, text string, n int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 || text == "" {
		return nil, nil
	}
	var hits []scored
	for label, prof := range profiles {
		score := 0
		for _, kw := range prof.Keywords {
			score += countKeyword(text, kw)
		}
		if score > 0 {
			hits = append(hits, scored{label: label, score: score})
		}
	}
	// ties are broken by label so rankings do not depend on map order
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].label < hits[j].label
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.label
	}
	return out, nil
}
