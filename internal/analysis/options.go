/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package analysis

import (
	"goscreenplay/internal/config"
	"goscreenplay/internal/domain"
)

// Options tune the pass. The zero value is not usable; start from DefaultOptions.
type Options struct {
	// StartStep is the timeline position of the first segment.
	StartStep int
	// StepSize is how far the cursor advances after a regular event.
	StepSize int
	// TransitionSteps is the duration of a transition segment and the cursor advance after it.
	TransitionSteps int
	// TransitionTrack is the fixed track of transition segments.
	TransitionTrack int
	MovieEras       int
	MovieGenres     int
	SequenceGenres  int
	// DefaultRegion is stamped on every character entity.
	DefaultRegion string
	// Seed drives the default picker of every pass; 0 seeds each pass from the clock.
	Seed int64
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Defaults().Analysis)
}

// OptionsFromConfig maps the analysis section of the app config. Non-positive values fall back to defaults.
func OptionsFromConfig(c config.AnalysisConfig) Options {
	o := Options{
		StartStep:       c.StartStep,
		StepSize:        c.StepSize,
		TransitionSteps: c.TransitionSteps,
		TransitionTrack: c.TransitionTrack,
		MovieEras:       c.MovieEras,
		MovieGenres:     c.MovieGenres,
		SequenceGenres:  c.SequenceGenres,
		DefaultRegion:   c.DefaultRegion,
		Seed:            c.Seed,
	}
	return o.withDefaults()
}

func (o Options) withDefaults() Options {
	def := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	def(&o.StartStep, 1)
	def(&o.StepSize, domain.DefaultColumnsPerSlice)
	def(&o.TransitionSteps, 2)
	def(&o.TransitionTrack, 7)
	def(&o.MovieEras, 2)
	def(&o.MovieGenres, 20)
	def(&o.SequenceGenres, 2)
	if o.DefaultRegion == "" {
		o.DefaultRegion = "american"
	}
	return o
}
