/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "testing"

func TestNewSegmentDropsBlankPrompts(t *testing.T) {
	s := NewSegment(SegmentSpec{
		StartTimeInSteps: 3,
		Category:         CategoryLighting,
		Prompt:           []string{"", "  night ", "\t", "moody"},
	})
	if len(s.Prompt) != 2 || s.Prompt[0] != "night" || s.Prompt[1] != "moody" {
		t.Fatalf("unexpected prompt: %#v", s.Prompt)
	}
	if s.DurationInSteps != DefaultColumnsPerSlice {
		t.Fatalf("duration = %d, want default %d", s.DurationInSteps, DefaultColumnsPerSlice)
	}
	if s.OutputType != OutputText {
		t.Fatalf("output type = %s, want TEXT", s.OutputType)
	}
	if s.EndTimeInSteps() != 3+DefaultColumnsPerSlice {
		t.Fatalf("end = %d", s.EndTimeInSteps())
	}
}

func TestNewSegmentKeepsExplicitValues(t *testing.T) {
	s := NewSegment(SegmentSpec{
		DurationInSteps: 5,
		Category:        CategoryTransition,
		OutputType:      OutputVideo,
		Prompt:          []string{"CUT TO"},
	})
	if s.DurationInSteps != 5 || s.OutputType != OutputVideo {
		t.Fatalf("explicit values overridden: %+v", s)
	}
}

func TestDefaultOutputType(t *testing.T) {
	tests := map[SegmentCategory]OutputType{
		CategoryVideo:      OutputVideo,
		CategoryStoryboard: OutputImage,
		CategoryDialogue:   OutputAudio,
		CategoryMusic:      OutputAudio,
		CategoryCamera:     OutputText,
	}
	for c, want := range tests {
		if got := DefaultOutputType(c); got != want {
			t.Fatalf("DefaultOutputType(%s) = %s, want %s", c, got, want)
		}
	}
}

func TestNewEntityGeneratesUniqueIDs(t *testing.T) {
	a := NewEntity(Entity{Category: EntityCharacter, TriggerName: "JOHN"})
	b := NewEntity(Entity{Category: EntityCharacter, TriggerName: "JOHN"})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Label != "JOHN" {
		t.Fatalf("label should default to trigger name, got %q", a.Label)
	}
}
