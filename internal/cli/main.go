/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cli wires configuration, logging, the default parsers and the analyzer
// behind the goscreenplay command line.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goscreenplay/internal/crash"
	"goscreenplay/internal/version"
)

// Main is the process entry point.
func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	info := &crash.Info{Command: "goscreenplay"}
	defer crash.Recover(info)

	root := NewRootCommand(info)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree. info is filled with the current
// input so a crash report can name it.
func NewRootCommand(info *crash.Info) *cobra.Command {
	if info == nil {
		info = &crash.Info{}
	}
	root := &cobra.Command{
		Use:           "goscreenplay",
		Short:         "Turn a screenplay into a multi-track generation timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default: per-user config.yaml, or $GSP_CONFIG)")

	analyze := &cobra.Command{
		Use:   "analyze <screenplay>",
		Short: "Analyze a screenplay (.json tree or plain text) and print the timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info.Command = "goscreenplay analyze"
			info.Input = args[0]
			return runAnalyze(cmd, args[0])
		},
	}
	analyze.Flags().String("format", "", "Output format: json or yaml (default: from --out extension, else json)")
	analyze.Flags().String("out", "", "Output file (default: stdout)")
	analyze.Flags().Int64("seed", 0, "Seed for default shot and music picks (0: config value, else random)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "goscreenplay %s\n", version.String())
			return err
		},
	}

	root.AddCommand(analyze, newParseCommand(info), newStylesCommand(), newConfigCommand(), versionCmd)
	return root
}
