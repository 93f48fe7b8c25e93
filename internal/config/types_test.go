// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if ok, errs := c.IsValid(); !ok {
			t.Errorf("%q.IsValid() = false, %v", c, errs)
		}
	}

	ok, errs := ColorScheme("neon").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("IsValid(neon) = %v, %v", ok, errs)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	valid := Config{Home: "/h", Git: GitConfig{Binary: "git"}, UI: UIConfig{ColorScheme: ColorSchemeAuto}}
	if ok, errs := valid.IsValid(); !ok {
		t.Fatalf("IsValid() = false, %v", errs)
	}

	invalid := Config{Home: " ", UI: UIConfig{ColorScheme: "neon"}}
	ok, errs := invalid.IsValid()
	if ok {
		t.Fatal("IsValid() = true for an empty config")
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) || len(cfgErr.FieldErrors) != 3 {
		t.Errorf("errs = %v, want InvalidConfigError with 3 field errors", errs)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("error should match ErrInvalidConfig")
	}
}
