/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"goscreenplay/internal/analysis"
	"goscreenplay/internal/config"
	"goscreenplay/internal/export"
	applog "goscreenplay/internal/log"
	"goscreenplay/internal/parsers"
	"goscreenplay/internal/screenplay"
	"goscreenplay/internal/script"
	"goscreenplay/internal/stylepack"
	"goscreenplay/internal/telemetry"
)

func runAnalyze(cmd *cobra.Command, input string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	formatFlag, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Analysis.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Writer:    cmd.ErrOrStderr(),
	})
	l := applog.WithComponent("cli").With(slog.String("input", input))

	format, err := outputFormat(formatFlag, out)
	if err != nil {
		return err
	}

	sp, err := loadScreenplay(l, input)
	if err != nil {
		return err
	}

	pack, err := loadStylePack(cfg.Analysis.StylePack)
	if err != nil {
		return err
	}
	p := parsers.New(pack)

	tel := telemetry.New(telemetry.FromConfig(cfg.Telemetry))
	defer tel.Close()
	l = l.With(slog.String("run", tel.RunID()))

	a, err := analysis.New(analysis.Deps{
		Eras:        p,
		Genres:      p,
		Transitions: p,
		Locations:   p,
		Lights:      p,
		Weather:     p,
		Shots:       p,
		Sounds:      p,
		Dialogue:    p,
		Entities:    p,
		Names:       p,
		Music:       p.Music(),
		Progress: func(ctx context.Context, percent int, message string) error {
			l.Debug("progress", slog.Int("percent", percent), slog.String("message", message))
			return tel.Progress(ctx, percent, message)
		},
	}, analysis.OptionsFromConfig(cfg.Analysis))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res := a.Analyze(ctx, sp)
	if len(res.Failures) > 0 {
		l.Warn("some events were skipped", slog.Int("failures", len(res.Failures)))
	}

	doc := export.FromResult(res, filepath.Base(input))
	if out == "" || out == "-" {
		err = export.Write(cmd.OutOrStdout(), doc, format)
	} else {
		err = export.WriteFile(out, doc, format)
		if err == nil {
			l.Info("timeline written", slog.String("out", out), slog.Int("segments", len(res.Segments)))
		}
	}
	if err != nil {
		return err
	}

	_ = tel.Event("analysis_finished", map[string]any{
		"sequences": len(sp.Sequences),
		"segments":  len(res.Segments),
		"entities":  len(res.EntitiesByID),
		"failures":  len(res.Failures),
	})
	tel.Flush(ctx)
	return nil
}

// outputFormat resolves the format flag, falling back to the output file extension.
func outputFormat(flag, out string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".yaml", ".yml":
		return export.FormatYAML, nil
	default:
		return export.FormatJSON, nil
	}
}

// loadScreenplay reads a JSON tree (validated against the schema) or parses
// screenplay text in any common encoding.
func loadScreenplay(l *slog.Logger, path string) (screenplay.Screenplay, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return screenplay.Screenplay{}, err
		}
		defer func() { _ = f.Close() }()
		sp, err := screenplay.Decode(f)
		if err != nil {
			return screenplay.Screenplay{}, fmt.Errorf("%s: %w", path, err)
		}
		return sp, nil
	}

	text, err := screenplay.ReadText(path)
	if err != nil {
		return screenplay.Screenplay{}, err
	}
	sp, errs := script.Parse(text)
	for _, e := range errs {
		l.Warn("screenplay text", slog.Int("line", e.Line), slog.String("err", e.Message))
	}
	if len(sp.Sequences) == 0 {
		return sp, fmt.Errorf("%s: no scenes found", path)
	}
	return sp, nil
}

func loadStylePack(path string) (*stylepack.Pack, error) {
	if path == "" {
		return stylepack.Default()
	}
	return stylepack.Load(path)
}
