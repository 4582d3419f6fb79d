/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the timeline value types produced by the analyzer: segments
// placed on numbered tracks, and the entities (characters, locations) they refer to.

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultColumnsPerSlice is the number of steps one analyzed event occupies on the timeline.
const DefaultColumnsPerSlice = 2

// SegmentCategory tells downstream generators what kind of directive a segment carries.
type SegmentCategory string

const (
	CategoryVideo      SegmentCategory = "VIDEO"
	CategoryStoryboard SegmentCategory = "STORYBOARD"
	CategoryStyle      SegmentCategory = "STYLE"
	CategoryLocation   SegmentCategory = "LOCATION"
	CategoryLighting   SegmentCategory = "LIGHTING"
	CategoryWeather    SegmentCategory = "WEATHER"
	CategoryCamera     SegmentCategory = "CAMERA"
	CategoryAction     SegmentCategory = "ACTION"
	CategoryDialogue   SegmentCategory = "DIALOGUE"
	CategoryEra        SegmentCategory = "ERA"
	CategorySound      SegmentCategory = "SOUND"
	CategoryMusic      SegmentCategory = "MUSIC"
	CategoryTransition SegmentCategory = "TRANSITION"
)

// OutputType is the media a segment is expected to be rendered into.
type OutputType string

const (
	OutputText  OutputType = "TEXT"
	OutputImage OutputType = "IMAGE"
	OutputVideo OutputType = "VIDEO"
	OutputAudio OutputType = "AUDIO"
)

// DefaultOutputType returns the output type a category renders to when none is given.
func DefaultOutputType(c SegmentCategory) OutputType {
	switch c {
	case CategoryVideo:
		return OutputVideo
	case CategoryStoryboard:
		return OutputImage
	case CategoryDialogue, CategorySound, CategoryMusic:
		return OutputAudio
	default:
		return OutputText
	}
}

// Segment is a timed directive on one track of the timeline.
type Segment struct {
	StartTimeInSteps int             `json:"startTimeInSteps" yaml:"start_time_in_steps"`
	DurationInSteps  int             `json:"durationInSteps" yaml:"duration_in_steps"`
	Track            int             `json:"track" yaml:"track"`
	Category         SegmentCategory `json:"category" yaml:"category"`
	OutputType       OutputType      `json:"outputType" yaml:"output_type"`
	Prompt           []string        `json:"prompt" yaml:"prompt"`
	Label            string          `json:"label,omitempty" yaml:"label,omitempty"`
	EntityID         string          `json:"entityId,omitempty" yaml:"entity_id,omitempty"`
	SceneID          string          `json:"sceneId,omitempty" yaml:"scene_id,omitempty"`
}

// EndTimeInSteps is the first step after the segment.
func (s Segment) EndTimeInSteps() int { return s.StartTimeInSteps + s.DurationInSteps }

// SegmentSpec holds the inputs of NewSegment. Zero values fall back to defaults.
type SegmentSpec struct {
	StartTimeInSteps int
	DurationInSteps  int
	Category         SegmentCategory
	OutputType       OutputType
	Prompt           []string
	Label            string
	EntityID         string
}

// NewSegment builds a segment, trimming prompt fragments and dropping blank ones.
// Track and scene are assigned by the caller.
func NewSegment(spec SegmentSpec) Segment {
	prompt := make([]string, 0, len(spec.Prompt))
	for _, p := range spec.Prompt {
		if p = strings.TrimSpace(p); p != "" {
			prompt = append(prompt, p)
		}
	}
	duration := spec.DurationInSteps
	if duration <= 0 {
		duration = DefaultColumnsPerSlice
	}
	out := spec.OutputType
	if out == "" {
		out = DefaultOutputType(spec.Category)
	}
	return Segment{
		StartTimeInSteps: spec.StartTimeInSteps,
		DurationInSteps:  duration,
		Category:         spec.Category,
		OutputType:       out,
		Prompt:           prompt,
		Label:            spec.Label,
		EntityID:         spec.EntityID,
	}
}

// EntityCategory distinguishes the kinds of registered entities.
type EntityCategory string

const (
	EntityCharacter EntityCategory = "CHARACTER"
	EntityLocation  EntityCategory = "LOCATION"
)

// Gender as inferred from a name; locations and props use GenderObject.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderPerson Gender = "person"
	GenderObject Gender = "object"
)

// Entity is a deduplicated character or location referenced by the screenplay.
type Entity struct {
	ID          string         `json:"id" yaml:"id"`
	Category    EntityCategory `json:"category" yaml:"category"`
	TriggerName string         `json:"triggerName" yaml:"trigger_name"`
	Label       string         `json:"label" yaml:"label"`
	Description string         `json:"description" yaml:"description"`
	Age         int            `json:"age,omitempty" yaml:"age,omitempty"`
	Gender      Gender         `json:"gender,omitempty" yaml:"gender,omitempty"`
	Region      string         `json:"region,omitempty" yaml:"region,omitempty"`
}

// NewEntity returns e with a freshly generated id. Label defaults to the trigger name.
func NewEntity(e Entity) *Entity {
	e.ID = uuid.NewString()
	if e.Label == "" {
		e.Label = e.TriggerName
	}
	return &e
}

// NameInfo is what can be inferred about a character from its name alone.
type NameInfo struct {
	Name   string
	Age    int
	Gender Gender
}
