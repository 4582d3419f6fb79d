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
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"goscreenplay/internal/domain"
)

var (
	// runs of upper-case words of two characters or more, on a single line
	reEntity      = regexp.MustCompile(`\b[A-Z][A-Z0-9'’\-]*[A-Z0-9](?:[ \t]+[A-Z][A-Z0-9'’\-]*[A-Z0-9])*\b`)
	reContinued   = regexp.MustCompile(`\bCONT(?:'|’)?D\b|\bCONTINUED\b`)
	reExtensionOS = regexp.MustCompile(`\b(?:V\.O\.|O\.S\.|O\.C\.)`)
	reVoiceSuffix = regexp.MustCompile(`(?:'S|’S)?\s+VOICE$`)
	rePossessive  = regexp.MustCompile(`(?:'S|’S|'|’)$`)
)

// Entities returns the upper-case references (character cues, place names) in text,
// in order of appearance and without duplicates. Parentheticals are ignored.
func (p *Parsers) Entities(text string) []string {
	text = reParenthetical.ReplaceAllString(text, " ")
	var out []string
	seen := map[string]bool{}
	for _, m := range reEntity.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// CharacterName normalizes a raw cue such as "JOHN'S VOICE (CONT'D)" into the
// trigger name "JOHN".
func (p *Parsers) CharacterName(raw string) string {
	s := strings.ToUpper(raw)
	s = reParenthetical.ReplaceAllString(s, " ")
	s = reContinued.ReplaceAllString(s, " ")
	s = reExtensionOS.ReplaceAllString(s, " ")
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
	s = strings.Trim(s, " .,:;-")
	s = reVoiceSuffix.ReplaceAllString(s, "")
	s = rePossessive.ReplaceAllString(s, "")
	return strings.Trim(s, " .,:;-")
}

var (
	maleNames = set(
		"JOHN", "JAMES", "ROBERT", "MICHAEL", "WILLIAM", "DAVID", "RICHARD", "JOSEPH", "THOMAS", "CHARLES",
		"DANIEL", "MATTHEW", "ANTHONY", "MARK", "PAUL", "STEVEN", "ANDREW", "KEVIN", "BRIAN", "GEORGE",
		"EDWARD", "JACK", "HARRY", "PETER", "SAM", "TOM", "MAX", "LUKE", "NICK", "FRANK", "HENRY", "LEO",
		"BOB", "BILL", "JOE", "MIKE", "STEVE", "TONY", "RICK", "VICTOR", "HUGO", "ARTHUR", "WALTER",
	)
	femaleNames = set(
		"MARY", "PATRICIA", "JENNIFER", "LINDA", "ELIZABETH", "BARBARA", "SUSAN", "JESSICA", "SARAH", "KAREN",
		"NANCY", "LISA", "MARGARET", "BETTY", "SANDRA", "ASHLEY", "EMILY", "EMMA", "OLIVIA", "SOPHIA",
		"ANNA", "ANNE", "JANE", "JULIA", "KATE", "LUCY", "ALICE", "GRACE", "CLAIRE", "RACHEL", "LAURA",
		"HELEN", "AMY", "ROSE", "CHLOE", "ZOE", "MIA", "NORA", "ELLEN", "MARIA", "EVE", "LILY",
	)
	maleRoles = set(
		"MAN", "MEN", "BOY", "GUY", "FATHER", "DAD", "KING", "PRINCE", "BROTHER", "SON", "HUSBAND",
		"BOYFRIEND", "MR", "MR.", "SIR", "UNCLE", "GRANDFATHER", "GRANDPA", "MONK", "PRIEST", "LORD",
	)
	femaleRoles = set(
		"WOMAN", "WOMEN", "GIRL", "LADY", "MOTHER", "MOM", "MUM", "QUEEN", "PRINCESS", "SISTER", "DAUGHTER",
		"WIFE", "GIRLFRIEND", "MRS", "MRS.", "MS", "MS.", "MISS", "AUNT", "GRANDMOTHER", "GRANDMA", "NUN",
	)
	ageRoles = map[string]int{
		"BABY": 1, "INFANT": 1, "TODDLER": 3,
		"KID": 10, "CHILD": 10, "BOY": 10, "GIRL": 10, "SON": 12, "DAUGHTER": 12,
		"TEEN": 16, "TEENAGER": 16, "STUDENT": 20, "YOUNG": 22,
		"OLD": 70, "ELDERLY": 75, "GRANDFATHER": 70, "GRANDMOTHER": 70, "GRANDPA": 70, "GRANDMA": 70,
	}
)

// DefaultAge is used when nothing in the name hints at an age.
const DefaultAge = 30

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// AnalyzeName infers a display name, an age and a gender from a trigger name.
// The first name is looked up first, then role words ("OLD MAN", "LITTLE GIRL").
func (p *Parsers) AnalyzeName(ctx context.Context, name string) (domain.NameInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.NameInfo{}, err
	}
	upper := strings.ToUpper(strings.TrimSpace(name))
	words := strings.Fields(upper)
	info := domain.NameInfo{
		Name:   cases.Title(language.English).String(strings.ToLower(upper)),
		Age:    DefaultAge,
		Gender: domain.GenderPerson,
	}
	if len(words) == 0 {
		return info, nil
	}

	switch {
	case maleNames[words[0]]:
		info.Gender = domain.GenderMale
	case femaleNames[words[0]]:
		info.Gender = domain.GenderFemale
	default:
		for _, w := range words {
			if maleRoles[w] {
				info.Gender = domain.GenderMale
				break
			}
			if femaleRoles[w] {
				info.Gender = domain.GenderFemale
				break
			}
		}
	}
	for _, w := range words {
		if age, ok := ageRoles[w]; ok {
			info.Age = age
			break
		}
	}
	return info, nil
}
