// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the OWNCLT_* variables. Unset variables leave the
// corresponding setting alone.
type envOverrides struct {
	Home        string `env:"OWNCLT_HOME"`
	ConfigFile  string `env:"OWNCLT_CONFIG"`
	Verbose     *bool  `env:"OWNCLT_VERBOSE"`
	GitBinary   string `env:"OWNCLT_GIT_BINARY"`
	ColorScheme string `env:"OWNCLT_COLOR_SCHEME"`
}

// parseEnv reads the overrides from environ, or from the process
// environment when environ is nil.
func parseEnv(environ map[string]string) (envOverrides, error) {
	var o envOverrides
	opts := env.Options{Environment: environ}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return envOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}
