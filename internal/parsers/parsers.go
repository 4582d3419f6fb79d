/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package parsers holds the keyword-driven default implementations of the
// attribute, name and context parsers consumed by the analyzer.
//
// All parsers are stateless apart from the shared style pack and a process-wide
// cache of compiled keyword patterns; a Parsers value is safe for concurrent use.
package parsers

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru"

	"goscreenplay/internal/stylepack"
)

// size of the keyword pattern cache in elements. Vocabularies and style packs
// hold a few hundred keywords, all of them hot during a pass.
const regexCacheSize = 512

var regexCache *lru.Cache

func init() {
	regexCache, _ = lru.New(regexCacheSize)
}

// keywordRegexp returns the case-insensitive whole-word pattern for keyword.
func keywordRegexp(keyword string) *regexp.Regexp {
	if entry, ok := regexCache.Get(keyword); ok {
		return entry.(*regexp.Regexp)
	}
	ret := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	regexCache.Add(keyword, ret)
	return ret
}

func countKeyword(text, keyword string) int {
	return len(keywordRegexp(keyword).FindAllStringIndex(text, -1))
}

func containsKeyword(texts []string, keyword string) bool {
	for _, t := range texts {
		if t != "" && keywordRegexp(keyword).MatchString(t) {
			return true
		}
	}
	return false
}

// Parsers bundles every default parser over one style pack.
type Parsers struct {
	pack *stylepack.Pack
}

// New returns the default parsers backed by pack.
func New(pack *stylepack.Pack) *Parsers {
	return &Parsers{pack: pack}
}

// Music returns the mock music vocabulary of the style pack.
func (p *Parsers) Music() []string {
	return append([]string(nil), p.pack.Music...)
}
