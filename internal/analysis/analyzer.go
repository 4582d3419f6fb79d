/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package analysis turns a screenplay into a flat multi-track timeline of segments
// and a registry of the characters and locations it references.
//
// The pass walks sequences, scenes and events in document order. Sparse signals
// found in the text (lighting, weather, shot type, sound) are carried forward in a
// sliding window until a sequence with a location heading resets it. Each event
// fans out into category segments placed on tracks 1..n at the current cursor;
// transitions get a single segment on a fixed track.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"goscreenplay/internal/domain"
	applog "goscreenplay/internal/log"
	"goscreenplay/internal/screenplay"
	"goscreenplay/internal/stylepack"
)

const (
	defaultEra   = "contemporary"
	defaultGenre = "classic"
)

// ErrPanic marks events whose processing panicked.
var ErrPanic = errors.New("panic while analyzing event")

// EventError records an event that was skipped. Indexes are zero-based.
type EventError struct {
	Sequence int    `json:"sequence" yaml:"sequence"`
	Scene    int    `json:"scene" yaml:"scene"`
	Event    int    `json:"event" yaml:"event"`
	SceneID  string `json:"sceneId" yaml:"scene_id"`
	Err      error  `json:"-" yaml:"-"`
}

func (e *EventError) Error() string {
	return fmt.Sprintf("sequence %d scene %d event %d: %v", e.Sequence, e.Scene, e.Event, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// Result is the outcome of one pass.
type Result struct {
	Segments                  []domain.Segment
	EntitiesByScreenplayLabel map[string]*domain.Entity
	EntitiesByID              map[string]*domain.Entity
	// Failures lists the events that were skipped, in document order.
	Failures []*EventError
	// Movie-wide labels that were used for style prompts.
	MovieEra   string
	MovieGenre string
}

// Analyzer runs timeline passes. It is not safe for concurrent use.
type Analyzer struct {
	deps   Deps
	opts   Options
	log    *slog.Logger
	assets []Asset
}

// New checks deps and returns an Analyzer.
func New(deps Deps, opts Options) (*Analyzer, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	l := deps.Logger
	if l == nil {
		l = applog.WithComponent("analysis")
	}
	return &Analyzer{deps: deps, opts: opts.withDefaults(), log: l}, nil
}

// Assets returns the working records of the last pass, for enrichment stages
// that run after the timeline is built.
func (a *Analyzer) Assets() []Asset {
	out := make([]Asset, len(a.assets))
	copy(out, a.assets)
	return out
}

type movieContext struct {
	eraLabel   string
	genreLabel string
	era        stylepack.Profile
	genre      stylepack.Profile
}

func (a *Analyzer) newPicker() Picker {
	if a.deps.Pickers != nil {
		if p := a.deps.Pickers(); p != nil {
			return p
		}
	}
	return NewPicker(a.opts.Seed)
}

type pass struct {
	a        *Analyzer
	log      *slog.Logger
	reg      *Registry
	movie    movieContext
	cursor   int
	state    State
	picker   Picker
	segments []domain.Segment
	failures []*EventError
}

// Analyze runs one pass over sp. It never fails as a whole: events that cannot be
// processed are skipped and reported in Result.Failures. ctx is handed to the
// parsers and the progress sink only.
func (a *Analyzer) Analyze(ctx context.Context, sp screenplay.Screenplay) Result {
	l := applog.WithOperation(a.log, "analyze")
	prog := &progress{sink: a.deps.Progress, log: l}

	prog.step(ctx, 0, "Analyzing time period..")
	p := &pass{
		a:      a,
		log:    l,
		reg:    NewRegistry(a.deps.Names, a.opts.DefaultRegion),
		cursor: a.opts.StartStep,
		state:  NewState(),
		picker: a.newPicker(),
	}
	p.movie.eraLabel = a.rankFirst(l, "era", defaultEra, func() ([]string, error) {
		return a.deps.Eras.MostProbableEras(ctx, sp.FullText, a.opts.MovieEras)
	})
	p.movie.era = a.deps.Eras.Era(p.movie.eraLabel)

	prog.step(ctx, 10, "Analyzing genre..")
	p.movie.genreLabel = a.rankFirst(l, "genre", defaultGenre, func() ([]string, error) {
		return a.deps.Genres.MostProbableGenres(ctx, sp.FullText, a.opts.MovieGenres)
	})
	p.movie.genre = a.deps.Genres.Genre(p.movie.genreLabel)
	l.Debug("movie context", slog.String("era", p.movie.eraLabel), slog.String("genre", p.movie.genreLabel))

	prog.step(ctx, 10, "Analyzing each scenes..")
	total := len(sp.Sequences)
	chunk := chunkSize(total)
	for i, seq := range sp.Sequences {
		if (i+1)%chunk == 0 {
			prog.step(ctx, 20, sequenceMessage(i+1, total))
		}
		p.sequence(ctx, i, seq)
	}
	prog.done(ctx)

	a.assets = p.reg.Assets()
	l.Info("analysis finished",
		slog.Int("sequences", total),
		slog.Int("segments", len(p.segments)),
		slog.Int("entities", len(a.assets)),
		slog.Int("failures", len(p.failures)))

	return Result{
		Segments:                  p.segments,
		EntitiesByScreenplayLabel: p.reg.ByLabel(),
		EntitiesByID:              p.reg.ByID(),
		Failures:                  p.failures,
		MovieEra:                  p.movie.eraLabel,
		MovieGenre:                p.movie.genreLabel,
	}
}

// rankFirst returns the best ranked label, or fallback when the ranking is empty or failed.
func (a *Analyzer) rankFirst(l *slog.Logger, what, fallback string, rank func() ([]string, error)) string {
	labels, err := rank()
	if err != nil {
		l.Warn("ranking failed, using default", slog.String("kind", what), slog.String("default", fallback), slog.Any("err", err))
		return fallback
	}
	if len(labels) == 0 || labels[0] == "" {
		return fallback
	}
	return labels[0]
}

func (p *pass) sequence(ctx context.Context, idx int, seq screenplay.Sequence) {
	d := p.a.deps
	genreLabel := p.a.rankFirst(p.log.With(slog.Int("sequence", idx)), "sequence genre", p.movie.genreLabel, func() ([]string, error) {
		return d.Genres.MostProbableGenres(ctx, seq.FullText, p.a.opts.SequenceGenres)
	})
	genre := d.Genres.Genre(genreLabel)

	for _, loc := range seq.Location {
		for _, name := range d.Entities.Entities(loc) {
			p.reg.Location(name, seq.FullText)
		}
	}

	for j, sc := range seq.Scenes {
		if p.log.Enabled(ctx, slog.LevelDebug) {
			p.log.Debug("scene roster", slog.String("scene", sc.ID), slog.Any("characters", roster(sc)))
		}
		for k, ev := range sc.Events {
			p.event(ctx, idx, j, k, eventInput{seq: seq, scene: sc, ev: ev, genre: genre})
		}
	}
}

// roster lists the distinct raw character cues of a scene.
func roster(sc screenplay.Scene) []string {
	seen := map[string]bool{}
	for _, ev := range sc.Events {
		if ev.Character != "" {
			seen[ev.Character] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// page numbers and similar artefacts of PDF extraction
var rePageNumber = regexp.MustCompile(`^\s*\d+\s*\.?\s*$`)

func (p *pass) event(ctx context.Context, seqIdx, sceneIdx, eventIdx int, in eventInput) {
	if rePageNumber.MatchString(in.ev.Description) {
		p.log.Debug("skipping page number", slog.Int("sequence", seqIdx), slog.Int("event", eventIdx))
		return
	}
	segs, st, advance, err := p.process(ctx, in)
	if err != nil {
		fail := &EventError{Sequence: seqIdx, Scene: sceneIdx, Event: eventIdx, SceneID: in.scene.ID, Err: err}
		p.failures = append(p.failures, fail)
		p.log.Warn("event skipped",
			slog.Int("sequence", seqIdx),
			slog.Int("scene", sceneIdx),
			slog.Int("event", eventIdx),
			slog.Any("err", err))
		return
	}
	p.segments = append(p.segments, segs...)
	p.state = st
	p.cursor += advance
}

// process handles one event and converts panics into errors, so a failing
// event leaves neither segments nor window changes behind.
func (p *pass) process(ctx context.Context, in eventInput) (segs []domain.Segment, st State, advance int, err error) {
	defer func() {
		if r := recover(); r != nil {
			segs, st, advance = nil, p.state, 0
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	label, err := p.a.deps.Transitions.ParseTransition(ctx, in.ev.Description)
	if err != nil {
		return nil, p.state, 0, fmt.Errorf("parse transition: %w", err)
	}
	if label != "" {
		return []domain.Segment{p.transition(label, in.scene.ID)}, p.state, p.a.opts.TransitionSteps, nil
	}

	st, segs, err = p.segment(ctx, in, p.state)
	if err != nil {
		return nil, p.state, 0, err
	}
	return segs, st, p.a.opts.StepSize, nil
}
