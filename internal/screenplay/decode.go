/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/xWTF/chardet"
	gojsonschema "github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrInvalid is returned when a screenplay document does not match the schema.
var ErrInvalid = errors.New("invalid screenplay document")

//go:embed screenplay.schema.json
var schemaBytes []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SchemaError lists the schema violations of a rejected document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrInvalid }

// Decode reads a JSON screenplay, validates it and returns it normalized.
func Decode(r io.Reader) (Screenplay, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Screenplay{}, fmt.Errorf("read screenplay: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte) (Screenplay, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Screenplay{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !result.Valid() {
		se := &SchemaError{}
		for _, e := range result.Errors() {
			se.Problems = append(se.Problems, e.String())
		}
		return Screenplay{}, se
	}

	var sp Screenplay
	if err := json.Unmarshal(data, &sp); err != nil {
		return Screenplay{}, fmt.Errorf("decode screenplay: %w", err)
	}
	sp.Normalize()
	return sp, nil
}

// Encode writes sp as indented JSON.
func Encode(w io.Writer, sp Screenplay) error {
	b, err := json.MarshalIndent(sp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode screenplay: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// ReadText loads a plain-text screenplay and returns it as UTF-8.
// Files in legacy encodings (Windows-1252, ISO-8859-x, UTF-16 ...) are detected and converted.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read screenplay text: %w", err)
	}
	return DecodeText(data)
}

// DecodeText converts raw bytes to a UTF-8 string.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	enc, err := htmlindex.Get(best.Charset)
	if err != nil {
		return "", fmt.Errorf("unsupported charset %q: %w", best.Charset, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", best.Charset, err)
	}
	return string(out), nil
}
