/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"regexp"
	"strings"

	"goscreenplay/internal/screenplay"
)

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

var (
	reHeading    = regexp.MustCompile(`^(?i)(INT\./EXT\.?|INT/EXT\.?|EXT\./INT\.?|EXT/INT\.?|I/E\.?|INT\.?|EXT\.?)\s+(.+)$`)
	reTransition = regexp.MustCompile(`^(?:[A-Z][A-Z ]*TO:|FADE IN:|FADE OUT\.?|FADE TO BLACK\.?|CUT TO BLACK\.?)$`)
	reCue        = regexp.MustCompile(`^[A-Z][A-Z0-9 .'\-#]*(?:\s*\([A-Z0-9 .'\-]+\))*$`)
	reExtension  = regexp.MustCompile(`\(([^)]*)\)`)
)

// Parse turns plain screenplay text into the sequence/scene/event tree.
// Supported syntax (minimal, Fountain-like):
//   - Scene headings: INT./EXT./INT./EXT./I/E followed by "LOCATION - PART - TIME".
//     Each heading opens a sequence with a single scene.
//   - Character cues: an upper-case line directly followed by text. A parenthetical
//     right under the cue becomes the event behavior; a (V.O.) extension is kept
//     as a prefix of the spoken text.
//   - Transitions (CUT TO:, FADE OUT. ...) and action paragraphs become action events.
//   - Lines starting with ';' are author notes and are dropped.
//
// Text before the first heading goes into an implicit sequence of unknown type.
func Parse(input string) (screenplay.Screenplay, []Error) {
	sp := screenplay.Screenplay{FullText: input}
	var errs []Error

	var (
		seq       *screenplay.Sequence
		seqLines  []string
		paragraph []string
		lineNo    int
	)

	current := func() *screenplay.Scene {
		if seq == nil {
			sp.Sequences = append(sp.Sequences, screenplay.Sequence{Type: screenplay.Unknown})
			seq = &sp.Sequences[len(sp.Sequences)-1]
		}
		if len(seq.Scenes) == 0 {
			seq.Scenes = append(seq.Scenes, screenplay.Scene{})
		}
		return &seq.Scenes[len(seq.Scenes)-1]
	}

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		lines := paragraph
		paragraph = nil

		if ev, ok := dialogueEvent(lines); ok {
			sc := current()
			sc.Events = append(sc.Events, ev)
			return
		}
		var action []string
		for _, l := range lines {
			if reTransition.MatchString(l) {
				if len(action) > 0 {
					sc := current()
					sc.Events = append(sc.Events, screenplay.Event{Kind: screenplay.EventAction, Description: strings.Join(action, " ")})
					action = nil
				}
				sc := current()
				sc.Events = append(sc.Events, screenplay.Event{Kind: screenplay.EventAction, Description: l})
				continue
			}
			action = append(action, l)
		}
		if len(action) > 0 {
			sc := current()
			sc.Events = append(sc.Events, screenplay.Event{Kind: screenplay.EventAction, Description: strings.Join(action, " ")})
		}
	}

	flushSequence := func() {
		flushParagraph()
		if seq != nil {
			seq.FullText = strings.TrimSpace(strings.Join(seqLines, "\n"))
		}
		seqLines = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trim := strings.TrimSpace(line)

		if strings.HasPrefix(trim, ";") {
			continue
		}

		if m := reHeading.FindStringSubmatch(trim); m != nil {
			flushSequence()
			location, tod := splitHeading(m[2])
			sp.Sequences = append(sp.Sequences, screenplay.Sequence{
				Location: location,
				Time:     tod,
				Type:     screenplay.ParseSequenceType(m[1]),
				Scenes:   []screenplay.Scene{{}},
			})
			seq = &sp.Sequences[len(sp.Sequences)-1]
			seqLines = append(seqLines, trim)
			continue
		}

		seqLines = append(seqLines, line)
		if trim == "" {
			flushParagraph()
			continue
		}
		paragraph = append(paragraph, trim)
	}
	flushSequence()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}

	// drop scenes that never received an event
	for i := range sp.Sequences {
		scenes := sp.Sequences[i].Scenes[:0]
		for _, sc := range sp.Sequences[i].Scenes {
			if len(sc.Events) > 0 {
				scenes = append(scenes, sc)
			}
		}
		sp.Sequences[i].Scenes = scenes
	}
	sp.Normalize()
	return sp, errs
}

// splitHeading separates "HOUSE - KITCHEN - NIGHT" into location parts and time of day.
func splitHeading(rest string) ([]string, string) {
	parts := strings.Split(rest, " - ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 1 {
		return nonEmpty(parts), ""
	}
	return nonEmpty(parts[:len(parts)-1]), parts[len(parts)-1]
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dialogueEvent recognizes a cue line followed by spoken text.
func dialogueEvent(lines []string) (screenplay.Event, bool) {
	if len(lines) < 2 {
		return screenplay.Event{}, false
	}
	cue := lines[0]
	if !reCue.MatchString(cue) || reTransition.MatchString(cue) || !hasLetters(cue) {
		return screenplay.Event{}, false
	}

	ev := screenplay.Event{Kind: screenplay.EventDialogue, Character: cue}
	var spoken []string
	for i, l := range lines[1:] {
		if strings.HasPrefix(l, "(") && strings.HasSuffix(l, ")") {
			if i == 0 && ev.Behavior == "" {
				ev.Behavior = strings.TrimSpace(strings.Trim(l, "()"))
			}
			continue
		}
		spoken = append(spoken, l)
	}
	if len(spoken) == 0 {
		return screenplay.Event{}, false
	}
	ev.Description = strings.Join(spoken, " ")
	for _, m := range reExtension.FindAllStringSubmatch(cue, -1) {
		if ext := strings.ReplaceAll(strings.ToUpper(m[1]), " ", ""); ext == "V.O." || ext == "VO" {
			ev.Description = "(V.O.) " + ev.Description
			break
		}
	}
	return ev, true
}

func hasLetters(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}
