// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// Compile compiles data, unifies it with the configured schema and
// validates the result.
func Compile(data []byte, opts ...Option) (cue.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if err := CheckFileSize(data, options.maxFileSize, options.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	value := ctx.CompileBytes(data, cue.Filename(options.filename))
	if value.Err() != nil {
		return cue.Value{}, FormatError(value.Err(), options.filename)
	}

	if options.schema != "" {
		schemaValue := ctx.CompileString(options.schema)
		if schemaValue.Err() != nil {
			return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
		}
		def := schemaValue.LookupPath(cue.ParsePath(options.schemaPath))
		if def.Err() != nil {
			return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", options.schemaPath, def.Err())
		}
		value = def.Unify(value)
	}

	if err := value.Validate(cue.Concrete(options.concrete)); err != nil {
		return cue.Value{}, FormatError(err, options.filename)
	}

	return value, nil
}

// Decode compiles data and decodes it into a T.
func Decode[T any](data []byte, opts ...Option) (*T, error) {
	value, err := Compile(data, opts...)
	if err != nil {
		return nil, err
	}

	var result T
	if err := value.Decode(&result); err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}
	return &result, nil
}

// DecodeMap compiles data and decodes the top-level struct into a map.
// Nested structs become map[string]any and lists become []any.
func DecodeMap(data []byte, opts ...Option) (map[string]any, error) {
	m, err := Decode[map[string]any](data, opts...)
	if err != nil {
		return nil, err
	}
	if *m == nil {
		return map[string]any{}, nil
	}
	return *m, nil
}

// Encode renders v as formatted CUE source. A struct becomes top-level
// fields without enclosing braces.
func Encode(v any) ([]byte, error) {
	value := cuecontext.New().Encode(v)
	if value.Err() != nil {
		return nil, fmt.Errorf("encode CUE: %w", value.Err())
	}
	node := value.Syntax(cue.Concrete(true))
	if st, ok := node.(*ast.StructLit); ok {
		node = &ast.File{Decls: st.Elts}
	}
	out, err := format.Node(node)
	if err != nil {
		return nil, fmt.Errorf("format CUE: %w", err)
	}
	return out, nil
}

func filenameOf(opts []Option) string {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options.filename
}
