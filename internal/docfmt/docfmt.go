// SPDX-License-Identifier: MPL-2.0

package docfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ownclt/ownclt/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON is a .json document.
	FormatJSON Format = "json"
	// FormatCUE is a .cue document.
	FormatCUE Format = "cue"
	// FormatTOML is a .toml document.
	FormatTOML Format = "toml"
	// FormatYAML is a .yaml or .yml document.
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported document format")

type (
	// Format is a supported document format.
	Format string

	// UnsupportedFormatError is returned for a file extension no decoder handles.
	UnsupportedFormatError struct {
		Path string
	}

	// DecodeError is returned when a document cannot be decoded.
	DecodeError struct {
		Path   string
		Format Format
		Err    error
	}
)

// Error implements the error interface for UnsupportedFormatError.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q (%s)", filepath.Ext(e.Path), e.Path)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s document %s: %v", e.Format, e.Path, e.Err)
}

// Unwrap returns the decoder error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Extensions lists the supported file extensions.
func Extensions() []string {
	return []string{".json", ".cue", ".toml", ".yaml", ".yml"}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".cue":
		return FormatCUE, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// DecodeFile reads path and decodes it by extension.
func DecodeFile(path string) (map[string]any, error) {
	if _, ok := FormatOf(path); !ok {
		return nil, &UnsupportedFormatError{Path: path}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data)
}

// Decode decodes data using the format implied by path. The top level must
// be a mapping. Nested mappings are map[string]any and sequences []any.
func Decode(path string, data []byte) (map[string]any, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &UnsupportedFormatError{Path: path}
	}

	var (
		out map[string]any
		err error
	)
	switch format {
	case FormatJSON:
		out, err = decodeJSON(data)
	case FormatCUE:
		out, err = cueutil.DecodeMap(data, cueutil.WithFilename(path))
	case FormatTOML:
		err = toml.Unmarshal(data, &out)
	case FormatYAML:
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, &DecodeError{Path: path, Format: format, Err: err}
	}
	if out == nil {
		out = map[string]any{}
	}

	normalized, _ := Normalize(out).(map[string]any)
	return normalized, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}
	return out, nil
}

// Normalize rewrites decoder-specific shapes into the JSON-like shapes the
// rest of ownclt expects: map[any]any becomes map[string]any and every
// integer type becomes int64.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = Normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = Normalize(item)
		}
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		return int64(t)
	default:
		return v
	}
}
