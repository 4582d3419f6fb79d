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

	"goscreenplay/internal/screenplay"
)

// term maps a set of keywords onto the prompt fragment emitted when any of them occurs.
type term struct {
	prompt   string
	keywords []string
}

func t(prompt string, keywords ...string) term {
	if len(keywords) == 0 {
		keywords = []string{prompt}
	}
	return term{prompt: prompt, keywords: keywords}
}

var (
	locationTerms = []term{
		t("warehouse"), t("kitchen"), t("bedroom"), t("bathroom"), t("living room"),
		t("office"), t("corridor", "corridor", "hallway"), t("basement", "basement", "cellar"),
		t("apartment", "apartment", "flat"), t("house"), t("street"), t("alley", "alley", "alleyway"),
		t("forest", "forest", "woods"), t("beach"), t("desert"), t("river"), t("mountain", "mountain", "mountains"),
		t("park"), t("garden"), t("rooftop", "rooftop", "roof"), t("bar", "bar", "pub", "saloon"),
		t("restaurant", "restaurant", "diner"), t("hospital"), t("church"), t("school", "school", "classroom"),
		t("train station", "train station", "platform"), t("airport"), t("car"), t("spaceship", "spaceship", "starship"),
		t("castle"), t("harbor", "harbor", "harbour", "docks", "pier"),
	}

	interiorKeywords = []string{
		"inside", "indoors", "room", "kitchen", "bedroom", "bathroom", "office", "corridor", "hallway",
		"basement", "cellar", "apartment", "warehouse", "hospital", "church", "classroom", "elevator", "car",
	}
	exteriorKeywords = []string{
		"outside", "outdoors", "street", "alley", "forest", "woods", "beach", "desert", "river", "mountain",
		"park", "garden", "rooftop", "field", "sky", "parking lot", "docks", "courtyard",
	}

	lightTerms = []term{
		t("dark", "dark", "darkness", "pitch black"), t("dim light", "dim", "dimly", "dimly lit"),
		t("candlelight", "candle", "candles", "candlelight"), t("neon lights", "neon"),
		t("sunlight", "sunlight", "sunlit", "sunshine"), t("moonlight", "moonlight", "moonlit"),
		t("flashlight beam", "flashlight", "torch"), t("lamp light", "lamp", "lamps", "lamplight"),
		t("shadows", "shadow", "shadows"), t("firelight", "fireplace", "campfire", "firelight"),
		t("bright light", "bright", "brightly lit"), t("spotlight", "spotlight", "spotlights"),
		t("flickering light", "flicker", "flickers", "flickering"),
	}

	weatherTerms = []term{
		t("rain", "rain", "raining", "rainy", "drizzle", "downpour"),
		t("storm", "storm", "stormy", "thunder", "lightning"),
		t("snow", "snow", "snowing", "snowy", "blizzard"),
		t("fog", "fog", "foggy", "mist", "misty"),
		t("windy", "wind", "windy", "gust", "gusts"),
		t("sunny", "sunny", "clear sky", "cloudless"),
		t("cloudy", "cloudy", "clouds", "overcast"),
		t("hail"), t("heatwave", "heatwave", "scorching", "sweltering"),
	}

	shotTerms = []term{
		t("extreme close-up", "extreme close-up", "extreme close up", "ecu"),
		t("close-up", "close-up", "close up", "closeup"),
		t("wide shot", "wide shot", "wide angle", "wide"),
		t("establishing shot"),
		t("point of view shot", "pov", "point of view"),
		t("over-the-shoulder shot", "over the shoulder", "over-the-shoulder"),
		t("aerial shot", "aerial", "bird's eye", "overhead shot"),
		t("tracking shot", "tracking shot", "tracking", "dolly"),
		t("insert shot", "insert"),
		t("medium shot"), t("long shot"),
	}

	soundTerms = []term{
		t("gunshots", "gunshot", "gunshots", "gunfire", "shots ring out"),
		t("explosion", "explosion", "explodes", "blast"),
		t("footsteps", "footsteps", "footstep"),
		t("sirens", "siren", "sirens"),
		t("thunder"),
		t("phone ringing", "phone rings", "ringing", "ringtone"),
		t("knocking", "knock", "knocks", "knocking"),
		t("screaming", "scream", "screams", "screaming"),
		t("dog barking", "bark", "barks", "barking"),
		t("rain falling", "rain", "raining", "downpour"),
		t("engine rumbling", "engine", "engines", "revs"),
		t("glass shattering", "shatter", "shatters", "shattering"),
		t("door slamming", "slam", "slams", "slammed"),
		t("crowd murmuring", "crowd", "murmur", "murmurs"),
		t("waves crashing", "waves", "surf"),
	}
)

func matchTerms(ctx context.Context, texts []string, terms []term) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	for _, tm := range terms {
		for _, kw := range tm.keywords {
			if containsKeyword(texts, kw) {
				out = append(out, tm.prompt)
				break
			}
		}
	}
	return out, nil
}

var reTransition = regexp.MustCompile(`^>?\s*((?:(?:SMASH|MATCH|JUMP|HARD|QUICK) )?CUT TO(?: BLACK)?|DISSOLVE TO|FADE (?:IN|OUT|TO BLACK|TO WHITE|TO)|WIPE TO|IRIS (?:IN|OUT)|[A-Z][A-Z ]* TO)\s*[:.]?$`)

// ParseTransition returns the lowercase transition label ("cut to", "fade out")
// when text is a transition line, otherwise "".
func (p *Parsers) ParseTransition(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m := reTransition.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", nil
	}
	return strings.ToLower(m[1]), nil
}

// ParseLocations returns places mentioned in texts.
func (p *Parsers) ParseLocations(ctx context.Context, texts []string) ([]string, error) {
	return matchTerms(ctx, texts, locationTerms)
}

// ParseLocationType guesses interior or exterior from place keywords. Texts
// mentioning both yield INT./EXT.; texts mentioning neither yield UNKNOWN.
func (p *Parsers) ParseLocationType(ctx context.Context, texts []string) (screenplay.SequenceType, error) {
	if err := ctx.Err(); err != nil {
		return screenplay.Unknown, err
	}
	in, out := false, false
	for _, kw := range interiorKeywords {
		if containsKeyword(texts, kw) {
			in = true
			break
		}
	}
	for _, kw := range exteriorKeywords {
		if containsKeyword(texts, kw) {
			out = true
			break
		}
	}
	switch {
	case in && out:
		return screenplay.InteriorExterior, nil
	case in:
		return screenplay.Interior, nil
	case out:
		return screenplay.Exterior, nil
	default:
		return screenplay.Unknown, nil
	}
}

// ParseLights returns lighting fragments.
func (p *Parsers) ParseLights(ctx context.Context, texts []string) ([]string, error) {
	return matchTerms(ctx, texts, lightTerms)
}

// ParseWeather returns weather fragments.
func (p *Parsers) ParseWeather(ctx context.Context, texts []string) ([]string, error) {
	return matchTerms(ctx, texts, weatherTerms)
}

// ParseShots returns camera shot types spelled out in the texts.
func (p *Parsers) ParseShots(ctx context.Context, texts []string) ([]string, error) {
	shots, err := matchTerms(ctx, texts, shotTerms)
	if err != nil {
		return nil, err
	}
	// "extreme close-up" also contains "close-up"
	if len(shots) > 1 && shots[0] == "extreme close-up" && shots[1] == "close-up" {
		shots = append(shots[:1], shots[2:]...)
	}
	return shots, nil
}

// ParseSounds returns sound effects heard in the texts.
func (p *Parsers) ParseSounds(ctx context.Context, texts []string) ([]string, error) {
	return matchTerms(ctx, texts, soundTerms)
}
