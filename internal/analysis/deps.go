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
	"errors"
	"log/slog"

	"goscreenplay/internal/domain"
	"goscreenplay/internal/screenplay"
	"goscreenplay/internal/stylepack"
)

// EraParser ranks eras over a text and resolves an era label into its prompt profile.
type EraParser interface {
	MostProbableEras(ctx context.Context, text string, n int) ([]string, error)
	Era(label string) stylepack.Profile
}

// GenreParser ranks genres over a text and resolves a genre label into its prompt profile.
type GenreParser interface {
	MostProbableGenres(ctx context.Context, text string, n int) ([]string, error)
	Genre(label string) stylepack.Profile
}

type TransitionParser interface {
	ParseTransition(ctx context.Context, text string) (string, error)
}

type LocationParser interface {
	ParseLocations(ctx context.Context, texts []string) ([]string, error)
	ParseLocationType(ctx context.Context, texts []string) (screenplay.SequenceType, error)
}

type LightParser interface {
	ParseLights(ctx context.Context, texts []string) ([]string, error)
}

type WeatherParser interface {
	ParseWeather(ctx context.Context, texts []string) ([]string, error)
}

type ShotParser interface {
	ParseShots(ctx context.Context, texts []string) ([]string, error)
}

type SoundParser interface {
	ParseSounds(ctx context.Context, texts []string) ([]string, error)
}

type DialogueParser interface {
	ParseDialogueLine(text string) string
	IsVoiceOver(text string) bool
}

// EntityExtractor finds upper-case references (cues, place names) in a text.
type EntityExtractor interface {
	Entities(text string) []string
}

// NameAnalyzer normalizes raw cues into trigger names and infers demographics.
type NameAnalyzer interface {
	CharacterName(raw string) string
	AnalyzeName(ctx context.Context, name string) (domain.NameInfo, error)
}

// ProgressFunc receives coarse progress notifications. Errors are ignored.
type ProgressFunc func(ctx context.Context, percent int, message string) error

// Deps are the collaborators of an Analyzer. Everything but Progress and Logger is required.
type Deps struct {
	Eras        EraParser
	Genres      GenreParser
	Transitions TransitionParser
	Locations   LocationParser
	Lights      LightParser
	Weather     WeatherParser
	Shots       ShotParser
	Sounds      SoundParser
	Dialogue    DialogueParser
	Entities    EntityExtractor
	Names       NameAnalyzer
	// Pickers returns the picker for one pass. Nil means NewPicker(Options.Seed),
	// so repeated passes with a non-zero seed pick the same defaults.
	Pickers func() Picker
	// Music is the vocabulary default music prompts are picked from.
	Music    []string
	Progress ProgressFunc
	Logger   *slog.Logger
}

func (d Deps) validate() error {
	var errs []error
	missing := func(ok bool, name string) {
		if !ok {
			errs = append(errs, errors.New("missing dependency: "+name))
		}
	}
	missing(d.Eras != nil, "eras")
	missing(d.Genres != nil, "genres")
	missing(d.Transitions != nil, "transitions")
	missing(d.Locations != nil, "locations")
	missing(d.Lights != nil, "lights")
	missing(d.Weather != nil, "weather")
	missing(d.Shots != nil, "shots")
	missing(d.Sounds != nil, "sounds")
	missing(d.Dialogue != nil, "dialogue")
	missing(d.Entities != nil, "entities")
	missing(d.Names != nil, "names")
	return errors.Join(errs...)
}
