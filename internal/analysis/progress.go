/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package analysis

import (
	"context"
	"fmt"
	"log/slog"
)

// progress throttles notifications to a few checkpoints and never lets the sink
// fail or crash the pass. Percentages never decrease and never exceed 100.
type progress struct {
	sink    ProgressFunc
	log     *slog.Logger
	percent int
}

func (p *progress) step(ctx context.Context, delta int, message string) {
	p.percent += delta
	if p.percent > 100 {
		p.percent = 100
	}
	if p.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Debug("progress sink panicked", slog.Any("panic", r))
		}
	}()
	if err := p.sink(ctx, p.percent, message); err != nil {
		p.log.Debug("progress sink failed", slog.Int("percent", p.percent), slog.Any("err", err))
	}
}

func (p *progress) done(ctx context.Context) {
	p.step(ctx, 100-p.percent, "Analysis complete")
}

// chunkSize is how many sequences pass between two checkpoints.
func chunkSize(sequences int) int {
	if n := sequences / 3; n > 0 {
		return n
	}
	return 1
}

func sequenceMessage(done, total int) string {
	return fmt.Sprintf("Analyzing sequences (%d/%d completed)", done, total)
}
