/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package analysis

import (
	"math/rand/v2"
	"time"
)

// Picker chooses one option for defaults that have no signal in the text
// (camera shot pools, music). Implementations must return "" for no options.
type Picker interface {
	Pick(options []string) string
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(options []string) string

func (f PickerFunc) Pick(options []string) string { return f(options) }

// FirstPicker always picks the first option.
var FirstPicker = PickerFunc(func(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[0]
})

type randPicker struct {
	rnd *rand.Rand
}

// NewPicker returns a pseudo-random picker. Equal non-zero seeds give equal
// sequences of picks; seed 0 seeds from the clock.
func NewPicker(seed int64) Picker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randPicker{rnd: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (p *randPicker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[p.rnd.IntN(len(options))]
}
