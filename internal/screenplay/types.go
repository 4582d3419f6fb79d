/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package screenplay holds the structural screenplay tree consumed by the analyzer:
// sequences (one location/time context) made of scenes made of events.
package screenplay

import (
	"fmt"
	"strings"
)

// SequenceType is the interior/exterior marker of a scene heading.
type SequenceType string

const (
	Interior         SequenceType = "INTERIOR"
	Exterior         SequenceType = "EXTERIOR"
	InteriorExterior SequenceType = "INT./EXT."
	Unknown          SequenceType = "UNKNOWN"
)

// ParseSequenceType maps heading prefixes and canonical names onto a SequenceType.
func ParseSequenceType(s string) SequenceType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INTERIOR", "INT", "INT.":
		return Interior
	case "EXTERIOR", "EXT", "EXT.":
		return Exterior
	case "INT./EXT.", "INT./EXT", "INT/EXT", "INT/EXT.", "I/E", "I/E.", "EXT./INT.", "EXT./INT", "EXT/INT", "EXT/INT.":
		return InteriorExterior
	default:
		return Unknown
	}
}

// EventKind classifies an event. Only action and description events carry
// descriptive text for the attribute parsers.
type EventKind string

const (
	EventAction      EventKind = "action"
	EventDescription EventKind = "description"
	EventDialogue    EventKind = "dialogue"
	EventOther       EventKind = "other"
)

// ParseEventKind normalizes a raw event type.
func ParseEventKind(s string) EventKind {
	switch k := EventKind(strings.ToLower(strings.TrimSpace(s))); k {
	case EventAction, EventDescription, EventDialogue:
		return k
	default:
		return EventOther
	}
}

// Narrative reports whether the event text describes what is seen on screen.
func (k EventKind) Narrative() bool {
	switch k {
	case EventAction, EventDescription:
		return true
	case EventDialogue, EventOther:
		return false
	default:
		return false
	}
}

type Event struct {
	Kind        EventKind `json:"type"`
	Description string    `json:"description"`
	Character   string    `json:"character,omitempty"`
	Behavior    string    `json:"behavior,omitempty"`
}

type Scene struct {
	ID     string  `json:"id"`
	Events []Event `json:"events"`
}

type Sequence struct {
	FullText string       `json:"fullText"`
	Location []string     `json:"location"`
	Time     string       `json:"time"`
	Type     SequenceType `json:"type"`
	Scenes   []Scene      `json:"scenes"`
}

// JoinedLocation is the comma-joined location label, empty when the heading had none.
func (s Sequence) JoinedLocation() string {
	parts := make([]string, 0, len(s.Location))
	for _, l := range s.Location {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, ", ")
}

type Screenplay struct {
	FullText  string     `json:"fullText"`
	Sequences []Sequence `json:"sequences"`
}

// Normalize canonicalizes enums, fills missing scene ids and rebuilds full texts
// that were left empty. It is idempotent.
func (sp *Screenplay) Normalize() {
	var all []string
	for i := range sp.Sequences {
		seq := &sp.Sequences[i]
		seq.Type = ParseSequenceType(string(seq.Type))
		var lines []string
		for j := range seq.Scenes {
			sc := &seq.Scenes[j]
			if sc.ID == "" {
				sc.ID = sceneID(i, j)
			}
			for k := range sc.Events {
				ev := &sc.Events[k]
				ev.Kind = ParseEventKind(string(ev.Kind))
				lines = append(lines, eventText(*ev))
			}
		}
		if strings.TrimSpace(seq.FullText) == "" {
			seq.FullText = strings.Join(lines, "\n")
		}
		all = append(all, seq.FullText)
	}
	if strings.TrimSpace(sp.FullText) == "" {
		sp.FullText = strings.Join(all, "\n\n")
	}
}

func eventText(ev Event) string {
	if ev.Character == "" {
		return ev.Description
	}
	return ev.Character + "\n" + ev.Description
}

func sceneID(seq, scene int) string {
	return fmt.Sprintf("sequence-%d-scene-%d", seq+1, scene+1)
}
