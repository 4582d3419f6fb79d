/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes an analysis result as a timeline document (JSON or YAML).
package export

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/WithoutPants/sortorder"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"goscreenplay/internal/analysis"
	"goscreenplay/internal/domain"
	"goscreenplay/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}

// Failure is a skipped event as written to the document.
type Failure struct {
	Sequence int    `json:"sequence" yaml:"sequence"`
	Scene    int    `json:"scene" yaml:"scene"`
	Event    int    `json:"event" yaml:"event"`
	SceneID  string `json:"sceneId,omitempty" yaml:"scene_id,omitempty"`
	Error    string `json:"error" yaml:"error"`
}

// Document is the serialized form of a pass. It holds no timestamps so that
// equal passes produce byte-identical files.
type Document struct {
	Generator  string           `json:"generator" yaml:"generator"`
	Source     string           `json:"source,omitempty" yaml:"source,omitempty"`
	MovieEra   string           `json:"movieEra" yaml:"movie_era"`
	MovieGenre string           `json:"movieGenre" yaml:"movie_genre"`
	Segments   []domain.Segment `json:"segments" yaml:"segments"`
	Entities   []domain.Entity  `json:"entities" yaml:"entities"`
	Failures   []Failure        `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// FromResult builds a document. Entities are ordered naturally by trigger name
// ("EXTRA 2" before "EXTRA 10").
func FromResult(res analysis.Result, source string) Document {
	doc := Document{
		Generator:  "goscreenplay " + version.String(),
		Source:     source,
		MovieEra:   res.MovieEra,
		MovieGenre: res.MovieGenre,
		Segments:   res.Segments,
	}
	if doc.Segments == nil {
		doc.Segments = []domain.Segment{}
	}
	names := make([]string, 0, len(res.EntitiesByScreenplayLabel))
	for name := range res.EntitiesByScreenplayLabel {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return sortorder.NaturalLess(names[i], names[j]) })
	doc.Entities = make([]domain.Entity, 0, len(names))
	for _, name := range names {
		doc.Entities = append(doc.Entities, *res.EntitiesByScreenplayLabel[name])
	}
	for _, f := range res.Failures {
		doc.Failures = append(doc.Failures, Failure{
			Sequence: f.Sequence,
			Scene:    f.Scene,
			Event:    f.Event,
			SceneID:  f.SceneID,
			Error:    f.Err.Error(),
		})
	}
	return doc
}

// Write encodes doc to w.
func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile writes doc to path through a temp file in the same directory that
// replaces the target only once fully written.
func WriteFile(path string, doc Document, format Format) error {
	var buf bytes.Buffer
	if err := Write(&buf, doc, format); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, buf.Bytes()); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp output: %w", err)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
