// SPDX-License-Identifier: MPL-2.0

package query

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Query
	}{
		{"demo/greet", Query{Command: "demo/greet", Namespace: "demo", SubCommands: []string{"greet"}}},
		{"  Demo/a/b  ", Query{Command: "Demo/a/b", Namespace: "demo", SubCommands: []string{"a", "b"}}},
		{"/list", Query{Command: "clt/list", Namespace: "clt", SubCommands: []string{"list"}}},
		{"/link/git/update", Query{Command: "clt/link/git/update", Namespace: "clt", SubCommands: []string{"link", "git", "update"}}},
		{"clt/", Query{Command: "clt/", Namespace: "clt", SubCommands: []string{}}},
		{"demo", Query{Command: "demo", Namespace: "demo", SubCommands: []string{}}},
		{"a//b", Query{Command: "a//b", Namespace: "a", SubCommands: []string{"b"}}},
		{"", Query{Command: "", SubCommands: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			if got := Parse(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParse_ShorthandEqualsBuiltinPrefix(t *testing.T) {
	t.Parallel()

	short := Parse("/list foo")
	long := Parse("clt/list foo")
	if !reflect.DeepEqual(short, long) {
		t.Errorf("Parse(/list foo) = %#v, Parse(clt/list foo) = %#v", short, long)
	}
	if short.Path() != "list foo" {
		t.Errorf("Path() = %q", short.Path())
	}
}

func TestResolveEntry(t *testing.T) {
	t.Parallel()

	reg := registry.New(filepath.Join(t.TempDir(), registry.FileName))
	file := filepath.Join(t.TempDir(), "demo.js")
	if err := reg.Register("demo", registry.CommandEntry{File: file}); err != nil {
		t.Fatalf("Register() returned error: %v", err)
	}

	entry, err := ResolveEntry(reg, Parse("DEMO/greet"))
	if err != nil {
		t.Fatalf("ResolveEntry() returned error: %v", err)
	}
	if entry.File != file {
		t.Errorf("File = %q, want %q", entry.File, file)
	}
}

func TestResolveEntry_UnknownNamespace(t *testing.T) {
	t.Parallel()

	reg := registry.New(filepath.Join(t.TempDir(), registry.FileName))

	for _, raw := range []string{"unknown/thing", ""} {
		_, err := ResolveEntry(reg, Parse(raw))
		if !errors.Is(err, command.ErrUnknownCommand) {
			t.Fatalf("ResolveEntry(%q) error = %v, want ErrUnknownCommand", raw, err)
		}
		if !strings.Contains(err.Error(), raw) {
			t.Errorf("error %q does not mention %q", err, raw)
		}
	}
}
