// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE helpers shared by the configuration loader
// and the document decoders.
//
// Schema-checked decoding follows three steps: compile the embedded schema,
// compile the user data and unify it with the schema definition, then
// validate and decode into a Go value.
//
//	//go:embed config_schema.cue
//	var schema string
//
//	m, err := cueutil.DecodeMap(data,
//		cueutil.WithFilename(path),
//		cueutil.WithSchema(schema, "#Config"),
//		cueutil.WithConcrete(false),
//	)
//
// Errors carry the file name and the CUE path of every failing field.
package cueutil
