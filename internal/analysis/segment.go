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
	"strings"

	"goscreenplay/internal/domain"
	"goscreenplay/internal/screenplay"
	"goscreenplay/internal/stylepack"
)

var (
	shotsWithCharacterExterior = []string{"medium-long shot", "medium shot", "medium close-up", "close-up", "American shot"}
	shotsWithCharacter         = []string{"medium shot", "medium close-up", "close-up", "American shot"}
	shotsInterior              = []string{"medium-long shot", "medium shot", "full shot"}
	shotsWide                  = []string{"long wide establishing shot", "extreme long shot", "long shot", "medium-long shot", "medium shot", "full shot"}
)

// shotPool is the set default camera shots are picked from. It depends on the
// heading type only, not on the sliding window.
func shotPool(t screenplay.SequenceType, withCharacter bool) []string {
	switch {
	case withCharacter && t == screenplay.Exterior:
		return shotsWithCharacterExterior
	case withCharacter:
		return shotsWithCharacter
	case t == screenplay.Interior:
		return shotsInterior
	default:
		return shotsWide
	}
}

func defaultSound(kind screenplay.EventKind, where screenplay.SequenceType, tod string) []string {
	switch {
	case kind == screenplay.EventDialogue:
		return []string{"people talking"}
	case where == screenplay.Exterior && tod != "night":
		return []string{"wind", "birds"}
	case where == screenplay.Exterior:
		return []string{"crickets and cicadas sounds during night"}
	default:
		return nil
	}
}

type eventInput struct {
	seq   screenplay.Sequence
	scene screenplay.Scene
	ev    screenplay.Event
	genre stylepack.Profile
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// transition builds the single segment emitted for a transition event.
func (p *pass) transition(label, sceneID string) domain.Segment {
	s := domain.NewSegment(domain.SegmentSpec{
		StartTimeInSteps: p.cursor,
		DurationInSteps:  p.a.opts.TransitionSteps,
		Category:         domain.CategoryTransition,
		OutputType:       domain.OutputText,
		Prompt:           []string{label},
	})
	s.Track = p.a.opts.TransitionTrack
	s.SceneID = sceneID
	return s
}

// segment fans one regular event out into its segments. The returned state
// replaces the window only when err is nil.
func (p *pass) segment(ctx context.Context, in eventInput, st State) (State, []domain.Segment, error) {
	d := p.a.deps
	era := p.movie.era
	seq, ev := in.seq, in.ev
	hasCharacter := strings.TrimSpace(ev.Character) != ""

	st = st.Enter(seq, ev)
	texts := []string{st.Description}
	start := p.cursor

	var candidates []domain.Segment
	add := func(spec domain.SegmentSpec) {
		spec.StartTimeInSteps = start
		spec.DurationInSteps = p.a.opts.StepSize
		candidates = append(candidates, domain.NewSegment(spec))
	}

	// the preview segment must stay first, it is used for thumbnails
	add(domain.SegmentSpec{Category: domain.CategoryVideo, OutputType: domain.OutputVideo, Prompt: []string{"movie"}})
	add(domain.SegmentSpec{Category: domain.CategoryStoryboard, OutputType: domain.OutputImage, Prompt: []string{"movie still"}})
	add(domain.SegmentSpec{
		Category: domain.CategoryStyle,
		Prompt:   concat(in.genre.Prompts.Style, []string{"cinematic photo", "movie screencap"}, era.Prompts.Style),
	})

	places, err := d.Locations.ParseLocations(ctx, texts)
	if err != nil {
		return st, nil, fmt.Errorf("parse locations: %w", err)
	}
	st = st.WithLocation(seq.JoinedLocation(), strings.Join(places, ", "))
	if st.LocationName != "" {
		add(domain.SegmentSpec{Category: domain.CategoryLocation, Prompt: []string{st.LocationName}})
	}

	parsedType, err := d.Locations.ParseLocationType(ctx, texts)
	if err != nil {
		return st, nil, fmt.Errorf("parse location type: %w", err)
	}
	st = st.WithLocationType(seq.Type, parsedType)
	if prompt := LocationTypePrompt(st.LocationType); prompt != "" {
		add(domain.SegmentSpec{Category: domain.CategoryLocation, Prompt: []string{prompt}})
	}

	st = st.WithTime(seq.Time)
	lights, err := d.Lights.ParseLights(ctx, texts)
	if err != nil {
		return st, nil, fmt.Errorf("parse lights: %w", err)
	}
	st.Lighting = overwrite(st.Lighting, strings.Join(lights, ", "))
	if st.Time != "" || st.Lighting != "" {
		add(domain.SegmentSpec{
			Category: domain.CategoryLighting,
			Prompt:   concat([]string{st.Time, st.Lighting}, in.genre.Prompts.Lighting, era.Prompts.Lighting),
		})
	}

	weather, err := d.Weather.ParseWeather(ctx, texts)
	if err != nil {
		return st, nil, fmt.Errorf("parse weather: %w", err)
	}
	st.Weather = overwrite(st.Weather, strings.Join(weather, ", "))
	if st.Weather != "" {
		add(domain.SegmentSpec{Category: domain.CategoryWeather, Prompt: concat([]string{st.Weather}, in.genre.Prompts.Weather)})
	}

	shots, err := d.Shots.ParseShots(ctx, texts)
	if err != nil {
		return st, nil, fmt.Errorf("parse shots: %w", err)
	}
	st.ShotType = overwrite(st.ShotType, strings.Join(shots, ", "))
	if st.ShotType == "" {
		st.ShotType = p.picker.Pick(shotPool(seq.Type, hasCharacter))
	}
	if st.ShotType != "" {
		add(domain.SegmentSpec{
			Category: domain.CategoryCamera,
			Prompt:   concat([]string{st.ShotType}, in.genre.Prompts.Camera, era.Prompts.Camera),
		})
	}

	var cast []*domain.Entity
	for _, raw := range d.Entities.Entities(ev.Character) {
		name := d.Names.CharacterName(raw)
		if name == "" {
			continue
		}
		e, err := p.reg.Character(ctx, name, seq.FullText)
		if err != nil {
			return st, nil, err
		}
		cast = append(cast, e)
	}
	var leadLabel, leadID string
	if len(cast) > 0 {
		leadLabel, leadID = cast[0].Label, cast[0].ID
	}
	speaker := func(text string) string {
		if leadLabel == "" {
			return ""
		}
		return leadLabel + ": " + text
	}

	if ev.Behavior != "" {
		add(domain.SegmentSpec{
			Category: domain.CategoryAction,
			Prompt:   []string{ev.Behavior},
			Label:    speaker(ev.Behavior),
			EntityID: leadID,
		})
	}

	if ev.Kind == screenplay.EventDialogue {
		if line := d.Dialogue.ParseDialogueLine(ev.Description); line != "" {
			add(domain.SegmentSpec{
				Category: domain.CategoryDialogue,
				Prompt:   []string{line},
				Label:    speaker(line),
				EntityID: leadID,
			})
		}
	}

	// voice-over narration is not something that can be shown
	if st.Action != "" && !d.Dialogue.IsVoiceOver(st.Action) {
		spec := domain.SegmentSpec{Category: domain.CategoryAction, Prompt: []string{st.Action}}
		if hasCharacter {
			who := leadLabel
			if who == "" {
				who = ev.Character
			}
			spec.Label = who + ": " + st.Action
			spec.EntityID = leadID
		}
		add(spec)
	}

	add(domain.SegmentSpec{Category: domain.CategoryEra, Prompt: era.Prompts.Era})

	sounds, err := d.Sounds.ParseSounds(ctx, texts)
	if err != nil {
		return st, nil, fmt.Errorf("parse sounds: %w", err)
	}
	st.Sound = overwrite(st.Sound, strings.Join(sounds, ", "))
	if st.Sound == "" {
		st.Sound = strings.Join(defaultSound(ev.Kind, st.LocationType, st.Time), ", ")
	}
	if st.Sound != "" {
		add(domain.SegmentSpec{
			Category: domain.CategorySound,
			Prompt:   concat([]string{st.Sound}, in.genre.Prompts.Sound, era.Prompts.Sound),
			EntityID: leadID,
		})
	}

	if st.Music == "" {
		st.Music = p.picker.Pick(d.Music)
	}
	if st.Music != "" {
		add(domain.SegmentSpec{
			Category: domain.CategoryMusic,
			Prompt:   concat([]string{st.Music}, in.genre.Prompts.Music, era.Prompts.Music),
		})
	}

	out := make([]domain.Segment, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Prompt) == 0 {
			continue
		}
		c.Track = len(out) + 1
		c.SceneID = in.scene.ID
		out = append(out, c)
	}
	return st, out, nil
}
