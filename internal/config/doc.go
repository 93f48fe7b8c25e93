// SPDX-License-Identifier: MPL-2.0

// Package config handles ownclt configuration using Viper with CUE as the
// file format.
//
// The configuration file is <home>/config.cue, where home defaults to
// ~/.ownclt. It is validated against the embedded config_schema.cue.
// OWNCLT_* environment variables override the file and command-line flags
// override both.
package config
