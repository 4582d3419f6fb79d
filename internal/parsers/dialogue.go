/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package parsers

import (
	"regexp"
	"strings"
)

var (
	reParenthetical = regexp.MustCompile(`\([^)]*\)`)
	reSpaces        = regexp.MustCompile(`\s+`)
	reVoiceOver     = regexp.MustCompile(`(?i)\(\s*V\.?\s*O\.?\s*\)|\bV\.O\.|\bvoice[- ]?over\b`)
)

// ParseDialogueLine extracts the spoken words of a dialogue description:
// parentheticals are dropped, whitespace collapsed and surrounding quotes removed.
func (p *Parsers) ParseDialogueLine(text string) string {
	s := reParenthetical.ReplaceAllString(text, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"“”")
	return strings.TrimSpace(s)
}

// IsVoiceOver reports whether text is narrated off screen.
func (p *Parsers) IsVoiceOver(text string) bool {
	return reVoiceOver.MatchString(text)
}
