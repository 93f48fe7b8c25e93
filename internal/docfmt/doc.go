// SPDX-License-Identifier: MPL-2.0

// Package docfmt decodes map files and script manifests written in JSON,
// CUE, TOML or YAML into a generic map[string]any tree. The format is picked
// from the file extension.
package docfmt
