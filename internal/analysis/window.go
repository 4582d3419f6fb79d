/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package analysis

import (
	"strings"

	"goscreenplay/internal/screenplay"
)

// State is the sliding window of attributes painted over consecutive events.
// Values survive from one event to the next until a located sequence resets them.
type State struct {
	// Description is the last non-empty action or description text.
	Description string
	// Action is the current event's action or description text, never carried over.
	Action       string
	LocationName string
	LocationType screenplay.SequenceType
	Time         string
	Lighting     string
	Weather      string
	ShotType     string
	Sound        string
	Music        string
}

// NewState returns an empty window.
func NewState() State {
	return State{LocationType: screenplay.Unknown}
}

// Enter applies the reset policy and the text buffers for ev inside seq.
func (s State) Enter(seq screenplay.Sequence, ev screenplay.Event) State {
	if seq.JoinedLocation() != "" {
		s = NewState()
	}
	s.Action = ""
	if ev.Kind.Narrative() {
		s.Action = ev.Description
		if ev.Description != "" {
			s.Description = ev.Description
		}
	}
	return s
}

// WithLocation keeps the previous name when neither the heading nor the text names a place.
func (s State) WithLocation(structural, parsed string) State {
	switch {
	case structural != "":
		s.LocationName = structural
	case parsed != "":
		s.LocationName = parsed
	}
	return s
}

// WithLocationType prefers the heading type, then the parsed type, then the previous value.
func (s State) WithLocationType(structural, parsed screenplay.SequenceType) State {
	switch {
	case structural != screenplay.Unknown && structural != "":
		s.LocationType = structural
	case parsed != screenplay.Unknown && parsed != "":
		s.LocationType = parsed
	}
	return s
}

// WithTime lower-cases the time of day; "unknown" counts as absent.
func (s State) WithTime(structural string) State {
	t := s.Time
	if structural != "" {
		t = structural
	}
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "unknown" {
		t = ""
	}
	s.Time = t
	return s
}

// overwrite returns v unless it is empty.
func overwrite(prev, v string) string {
	if v != "" {
		return v
	}
	return prev
}

// LocationTypePrompt is the prompt for a location type, "" for UNKNOWN.
func LocationTypePrompt(t screenplay.SequenceType) string {
	switch t {
	case screenplay.Interior:
		return "Inside"
	case screenplay.Exterior:
		return "Outdoor"
	case screenplay.InteriorExterior:
		return "Indoor and outdoor"
	case screenplay.Unknown:
		return ""
	default:
		return ""
	}
}
