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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goscreenplay/internal/domain"
	applog "goscreenplay/internal/log"
	"goscreenplay/internal/parsers"
	"goscreenplay/internal/screenplay"
	"goscreenplay/internal/stylepack"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	pack, err := stylepack.Default()
	require.NoError(t, err)
	p := parsers.New(pack)
	return Deps{
		Eras: p, Genres: p, Transitions: p, Locations: p,
		Lights: p, Weather: p, Shots: p, Sounds: p,
		Dialogue: p, Entities: p, Names: p,
		Pickers: func() Picker { return FirstPicker },
		Music:   p.Music(),
		Logger:  applog.Discard(),
	}
}

func newAnalyzer(t *testing.T, deps Deps) *Analyzer {
	t.Helper()
	a, err := New(deps, DefaultOptions())
	require.NoError(t, err)
	return a
}

func action(text string) screenplay.Event {
	return screenplay.Event{Kind: screenplay.EventAction, Description: text}
}

func sequence(location string, typ screenplay.SequenceType, tod string, events ...screenplay.Event) screenplay.Sequence {
	seq := screenplay.Sequence{Type: typ, Time: tod, Scenes: []screenplay.Scene{{ID: "scene-" + location, Events: events}}}
	if location != "" {
		seq.Location = []string{location}
	}
	var lines []string
	for _, ev := range events {
		lines = append(lines, ev.Description)
	}
	seq.FullText = strings.Join(lines, "\n")
	return seq
}

func play(seqs ...screenplay.Sequence) screenplay.Screenplay {
	var texts []string
	for _, s := range seqs {
		texts = append(texts, s.FullText)
	}
	return screenplay.Screenplay{FullText: strings.Join(texts, "\n\n"), Sequences: seqs}
}

func categories(segs []domain.Segment) []domain.SegmentCategory {
	out := make([]domain.SegmentCategory, len(segs))
	for i, s := range segs {
		out[i] = s.Category
	}
	return out
}

func startingAt(segs []domain.Segment, step int) []domain.Segment {
	var out []domain.Segment
	for _, s := range segs {
		if s.StartTimeInSteps == step {
			out = append(out, s)
		}
	}
	return out
}

func find(segs []domain.Segment, c domain.SegmentCategory) []domain.Segment {
	var out []domain.Segment
	for _, s := range segs {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}

func TestWarehouseExample(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	ev := action("JOHN enters the dark warehouse at night. Rain pours outside.")
	ev.Character = "JOHN"
	res := a.Analyze(context.Background(), play(sequence("WAREHOUSE", screenplay.Exterior, "NIGHT", ev)))

	require.Empty(t, res.Failures)
	assert.Equal(t, "contemporary", res.MovieEra)
	assert.Equal(t, []domain.SegmentCategory{
		domain.CategoryVideo, domain.CategoryStoryboard, domain.CategoryStyle,
		domain.CategoryLocation, domain.CategoryLocation, domain.CategoryLighting,
		domain.CategoryWeather, domain.CategoryCamera, domain.CategoryAction,
		domain.CategoryEra, domain.CategorySound, domain.CategoryMusic,
	}, categories(res.Segments))

	for i, s := range res.Segments {
		assert.Equal(t, i+1, s.Track)
		assert.Equal(t, 1, s.StartTimeInSteps)
		assert.Equal(t, domain.DefaultColumnsPerSlice, s.DurationInSteps)
		assert.Equal(t, "scene-WAREHOUSE", s.SceneID)
	}

	assert.Equal(t, []string{"movie"}, res.Segments[0].Prompt)
	assert.Equal(t, domain.OutputVideo, res.Segments[0].OutputType)
	assert.Equal(t, domain.OutputImage, res.Segments[1].OutputType)
	assert.Contains(t, res.Segments[2].Prompt, "cinematic photo")
	assert.Equal(t, []string{"WAREHOUSE"}, res.Segments[3].Prompt)
	assert.Equal(t, []string{"Outdoor"}, res.Segments[4].Prompt)
	assert.Equal(t, []string{"night", "dark"}, res.Segments[5].Prompt[:2])
	assert.Equal(t, "rain", res.Segments[6].Prompt[0])
	assert.Equal(t, "medium-long shot", res.Segments[7].Prompt[0])

	john, ok := res.EntitiesByScreenplayLabel["JOHN"]
	require.True(t, ok)
	assert.Same(t, john, res.EntitiesByID[john.ID])
	assert.Equal(t, domain.EntityCharacter, john.Category)
	assert.Equal(t, "John", john.Label)
	assert.Equal(t, "John is a male", john.Description)
	assert.Equal(t, "american", john.Region)

	act := res.Segments[8]
	assert.Equal(t, "John: JOHN enters the dark warehouse at night. Rain pours outside.", act.Label)
	assert.Equal(t, john.ID, act.EntityID)
	assert.Equal(t, john.ID, res.Segments[10].EntityID)

	place, ok := res.EntitiesByScreenplayLabel["WAREHOUSE"]
	require.True(t, ok)
	assert.Equal(t, domain.EntityLocation, place.Category)
	assert.Equal(t, domain.GenderObject, place.Gender)
	assert.Empty(t, place.Description)
}

func TestTransitionEmitsSingleSegment(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	res := a.Analyze(context.Background(), play(sequence("ROOM", screenplay.Interior, "DAY",
		action("A man waits."), action("CUT TO:"), action("He leaves."))))

	require.Empty(t, res.Failures)
	trans := startingAt(res.Segments, 3)
	require.Len(t, trans, 1)
	assert.Equal(t, domain.CategoryTransition, trans[0].Category)
	assert.Equal(t, domain.OutputText, trans[0].OutputType)
	assert.Equal(t, 7, trans[0].Track)
	assert.Equal(t, 2, trans[0].DurationInSteps)
	assert.Equal(t, []string{"cut to"}, trans[0].Prompt)
	assert.Equal(t, "scene-ROOM", trans[0].SceneID)

	after := startingAt(res.Segments, 5)
	require.NotEmpty(t, after)
	assert.Equal(t, domain.CategoryVideo, after[0].Category)
}

func TestVoiceOverDialogueResolvesToCharacter(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	ev := screenplay.Event{
		Kind:        screenplay.EventDialogue,
		Character:   "JOHN'S VOICE (V.O.)",
		Description: "(V.O.) I should never have come back.",
	}
	narration := action("(V.O.) The city never sleeps.")
	res := a.Analyze(context.Background(), play(sequence("", screenplay.Unknown, "", ev, narration)))

	require.Empty(t, res.Failures)
	require.Len(t, res.EntitiesByScreenplayLabel, 1)
	john := res.EntitiesByScreenplayLabel["JOHN"]
	require.NotNil(t, john)

	dialogue := find(res.Segments, domain.CategoryDialogue)
	require.Len(t, dialogue, 1)
	assert.Equal(t, []string{"I should never have come back."}, dialogue[0].Prompt)
	assert.Equal(t, "John: I should never have come back.", dialogue[0].Label)
	assert.Equal(t, john.ID, dialogue[0].EntityID)
	assert.Equal(t, domain.OutputAudio, dialogue[0].OutputType)

	assert.Empty(t, find(res.Segments, domain.CategoryAction))
	sounds := find(startingAt(res.Segments, 1), domain.CategorySound)
	require.Len(t, sounds, 1)
	assert.Equal(t, "people talking", sounds[0].Prompt[0])
}

func TestBehaviorAction(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	ev := screenplay.Event{Kind: screenplay.EventDialogue, Character: "MARY", Behavior: "whispering", Description: "Anyone here?"}
	res := a.Analyze(context.Background(), play(sequence("CELLAR", screenplay.Interior, "NIGHT", ev)))

	actions := find(res.Segments, domain.CategoryAction)
	require.Len(t, actions, 1)
	assert.Equal(t, []string{"whispering"}, actions[0].Prompt)
	assert.Equal(t, "Mary: whispering", actions[0].Label)
	assert.Equal(t, res.EntitiesByScreenplayLabel["MARY"].ID, actions[0].EntityID)
}

func TestEntitiesAreDeduplicated(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	speak := func(line string) screenplay.Event {
		return screenplay.Event{Kind: screenplay.EventDialogue, Character: "JOHN", Description: line}
	}
	res := a.Analyze(context.Background(), play(
		sequence("DOCKS", screenplay.Exterior, "DAY", speak("Hello."), speak("Anyone?")),
		sequence("DOCKS", screenplay.Exterior, "NIGHT", speak("Goodbye.")),
	))

	require.Len(t, res.EntitiesByScreenplayLabel, 2)
	require.Len(t, res.EntitiesByID, 2)
	for label, e := range res.EntitiesByScreenplayLabel {
		assert.Equal(t, label, e.TriggerName)
		assert.Same(t, e, res.EntitiesByID[e.ID])
	}

	assets := a.Assets()
	require.Len(t, assets, 2)
	assert.Equal(t, "DOCKS", assets[0].Label)
	assert.Equal(t, 2, assets[0].Occurrences)
	assert.Equal(t, "JOHN", assets[1].Label)
	assert.Equal(t, 3, assets[1].Occurrences)
	assert.Len(t, assets[1].Sequences, 2)
	assert.Equal(t, res.EntitiesByScreenplayLabel["JOHN"].ID, assets[1].ID)
}

func TestWindowResetsBetweenLocatedSequences(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	res := a.Analyze(context.Background(), play(
		sequence("STREET", screenplay.Exterior, "DAY", action("Rain pours down.")),
		sequence("", screenplay.Unknown, "", action("She waits.")),
		sequence("OFFICE", screenplay.Interior, "DAY", action("She types.")),
	))
	require.Empty(t, res.Failures)

	first := startingAt(res.Segments, 1)
	carried := startingAt(res.Segments, 3)
	reset := startingAt(res.Segments, 5)

	require.Len(t, find(first, domain.CategoryWeather), 1)
	require.Len(t, find(carried, domain.CategoryWeather), 1)
	assert.Equal(t, "rain", find(carried, domain.CategoryWeather)[0].Prompt[0])
	assert.Equal(t, []string{"STREET"}, find(carried, domain.CategoryLocation)[0].Prompt)
	assert.Empty(t, find(reset, domain.CategoryWeather))
	assert.Equal(t, []string{"OFFICE"}, find(reset, domain.CategoryLocation)[0].Prompt)
}

func TestInvariantsOverMixedScreenplay(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	res := a.Analyze(context.Background(), play(
		sequence("HOUSE", screenplay.Interior, "NIGHT",
			action("FADE IN:"),
			action("The house is dark. Thunder rolls."),
			screenplay.Event{Kind: screenplay.EventDialogue, Character: "ANNA", Description: "Who's there?"},
			action("12."),
			action("SMASH CUT TO:"),
		),
		sequence("", screenplay.Unknown, "", action("A dog barks somewhere."), screenplay.Event{Kind: screenplay.EventOther, Description: "(beat)"}),
	))
	require.Empty(t, res.Failures)

	last := 0
	regular := map[int][]domain.Segment{}
	for _, s := range res.Segments {
		assert.GreaterOrEqual(t, s.StartTimeInSteps, last)
		last = s.StartTimeInSteps
		assert.NotEmpty(t, s.Prompt)
		for _, p := range s.Prompt {
			assert.NotEmpty(t, p)
		}
		if s.Category != domain.CategoryTransition {
			regular[s.StartTimeInSteps] = append(regular[s.StartTimeInSteps], s)
		}
	}
	// two transitions, four regular events; the page number is dropped
	assert.Len(t, find(res.Segments, domain.CategoryTransition), 2)
	assert.Len(t, regular, 4)
	for _, segs := range regular {
		assert.Equal(t, domain.CategoryVideo, segs[0].Category)
		assert.Equal(t, domain.CategoryStoryboard, segs[1].Category)
	}
}

func TestPageNumberIsSkipped(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	res := a.Analyze(context.Background(), play(sequence("", screenplay.Unknown, "", action(" 42 "), action("He runs."))))
	require.Empty(t, res.Failures)
	assert.Empty(t, startingAt(res.Segments, 3))
	assert.NotEmpty(t, startingAt(res.Segments, 1))
}

// normalized replaces entity ids with trigger names so two passes can be compared.
func normalized(res Result) []domain.Segment {
	out := make([]domain.Segment, len(res.Segments))
	for i, s := range res.Segments {
		if e, ok := res.EntitiesByID[s.EntityID]; ok {
			s.EntityID = e.TriggerName
		}
		out[i] = s
	}
	return out
}

func TestSeededPassesAreIdentical(t *testing.T) {
	sp := play(
		sequence("BEACH", screenplay.Exterior, "DAY", action("Waves crash."),
			screenplay.Event{Kind: screenplay.EventDialogue, Character: "LUCY", Description: "Look!"}),
		sequence("", screenplay.Unknown, "", action("The sky darkens.")),
		sequence("BAR", screenplay.Interior, "NIGHT", action("Glasses clink.")),
	)
	opts := DefaultOptions()
	opts.Seed = 42
	run := func() Result {
		deps := testDeps(t)
		deps.Pickers = nil
		a, err := New(deps, opts)
		require.NoError(t, err)
		return a.Analyze(context.Background(), sp)
	}
	r1, r2 := run(), run()
	assert.Equal(t, normalized(r1), normalized(r2))
	assert.Equal(t, len(r1.EntitiesByScreenplayLabel), len(r2.EntitiesByScreenplayLabel))
	for k := range r1.EntitiesByScreenplayLabel {
		assert.Contains(t, r2.EntitiesByScreenplayLabel, k)
	}
}

func TestReusedAnalyzerRepeatsSeededDefaults(t *testing.T) {
	var seqs []screenplay.Sequence
	for _, loc := range []string{"BEACH", "BAR", "FOREST"} {
		seqs = append(seqs, sequence(loc, screenplay.Exterior, "DAY",
			action("Wind blows."), action("Birds fly over."), action("Someone waits.")))
	}
	sp := play(seqs...)

	deps := testDeps(t)
	deps.Pickers = nil
	opts := DefaultOptions()
	opts.Seed = 42
	a, err := New(deps, opts)
	require.NoError(t, err)

	r1 := a.Analyze(context.Background(), sp)
	r2 := a.Analyze(context.Background(), sp)
	require.Equal(t, len(r1.Segments), len(r2.Segments))
	assert.Equal(t, normalized(r1), normalized(r2))
}

func TestPickersFactoryIsCalledPerPass(t *testing.T) {
	calls := 0
	deps := testDeps(t)
	deps.Pickers = func() Picker {
		calls++
		return FirstPicker
	}
	a := newAnalyzer(t, deps)
	sp := play(sequence("BEACH", screenplay.Exterior, "DAY", action("Waves crash.")))
	a.Analyze(context.Background(), sp)
	a.Analyze(context.Background(), sp)
	assert.Equal(t, 2, calls)
}

type weatherFunc func(ctx context.Context, texts []string) ([]string, error)

func (f weatherFunc) ParseWeather(ctx context.Context, texts []string) ([]string, error) {
	return f(ctx, texts)
}

type shotFunc func(ctx context.Context, texts []string) ([]string, error)

func (f shotFunc) ParseShots(ctx context.Context, texts []string) ([]string, error) {
	return f(ctx, texts)
}

func TestFailingEventIsSkipped(t *testing.T) {
	errBoom := errors.New("boom")
	deps := testDeps(t)
	deps.Weather = weatherFunc(func(ctx context.Context, texts []string) ([]string, error) {
		if strings.Contains(texts[0], "boom") {
			return nil, errBoom
		}
		return nil, nil
	})
	deps.Shots = shotFunc(func(ctx context.Context, texts []string) ([]string, error) {
		if strings.Contains(texts[0], "explode") {
			panic("shot parser exploded")
		}
		return nil, nil
	})
	a := newAnalyzer(t, deps)
	res := a.Analyze(context.Background(), play(sequence("", screenplay.Unknown, "",
		action("A quiet street."),
		action("A boom shakes the car."),
		action("Windows explode."),
		action("Silence."),
	)))

	require.Len(t, res.Failures, 2)
	assert.Equal(t, 1, res.Failures[0].Event)
	assert.ErrorIs(t, res.Failures[0], errBoom)
	assert.Equal(t, 2, res.Failures[1].Event)
	assert.ErrorIs(t, res.Failures[1], ErrPanic)
	assert.Equal(t, "scene-", res.Failures[1].SceneID)

	// failed events neither emit segments nor advance the cursor
	assert.NotEmpty(t, startingAt(res.Segments, 1))
	next := startingAt(res.Segments, 3)
	require.NotEmpty(t, next)
	actions := find(next, domain.CategoryAction)
	require.Len(t, actions, 1)
	assert.Equal(t, []string{"Silence."}, actions[0].Prompt)
	assert.Empty(t, startingAt(res.Segments, 5))
}

func TestCanceledContextFailsEventsNotThePass(t *testing.T) {
	a := newAnalyzer(t, testDeps(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := a.Analyze(ctx, play(sequence("PARK", screenplay.Exterior, "DAY", action("Kids play."), action("A kite flies."))))

	assert.Equal(t, "contemporary", res.MovieEra)
	assert.Equal(t, "classic", res.MovieGenre)
	assert.Empty(t, res.Segments)
	require.Len(t, res.Failures, 2)
	for _, f := range res.Failures {
		assert.ErrorIs(t, f, context.Canceled)
	}
	// location entities come from the heading and do not depend on parsers
	assert.Contains(t, res.EntitiesByScreenplayLabel, "PARK")
}

func TestProgressCheckpoints(t *testing.T) {
	var got []int
	var messages []string
	deps := testDeps(t)
	deps.Progress = func(ctx context.Context, percent int, message string) error {
		got = append(got, percent)
		messages = append(messages, message)
		return errors.New("sink offline")
	}
	a := newAnalyzer(t, deps)

	var seqs []screenplay.Sequence
	for i := 0; i < 6; i++ {
		seqs = append(seqs, sequence("", screenplay.Unknown, "", action("Time passes.")))
	}
	res := a.Analyze(context.Background(), play(seqs...))

	require.Empty(t, res.Failures)
	assert.Equal(t, []int{0, 10, 20, 40, 60, 80, 100}, got)
	assert.Equal(t, "Analyzing time period..", messages[0])
	assert.Equal(t, "Analyzing sequences (2/6 completed)", messages[3])
}

func TestProgressNeverExceedsHundred(t *testing.T) {
	var got []int
	deps := testDeps(t)
	deps.Progress = func(ctx context.Context, percent int, message string) error {
		got = append(got, percent)
		if percent == 80 {
			panic("sink bug")
		}
		return nil
	}
	a := newAnalyzer(t, deps)
	var seqs []screenplay.Sequence
	for i := 0; i < 5; i++ {
		seqs = append(seqs, sequence("", screenplay.Unknown, "", action("Time passes.")))
	}
	res := a.Analyze(context.Background(), play(seqs...))
	require.Empty(t, res.Failures)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1])
	}
	assert.Equal(t, 100, got[len(got)-1])
	assert.LessOrEqual(t, got[len(got)-2], 100)
}

func TestNewRequiresDeps(t *testing.T) {
	deps := testDeps(t)
	deps.Shots = nil
	deps.Names = nil
	_, err := New(deps, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shots")
	assert.Contains(t, err.Error(), "names")
}

func TestOptionsFromConfigFallsBack(t *testing.T) {
	o := Options{StepSize: 4}.withDefaults()
	assert.Equal(t, 4, o.StepSize)
	assert.Equal(t, 1, o.StartStep)
	assert.Equal(t, 7, o.TransitionTrack)
	assert.Equal(t, "american", o.DefaultRegion)
	assert.Equal(t, domain.DefaultColumnsPerSlice, DefaultOptions().StepSize)
}
