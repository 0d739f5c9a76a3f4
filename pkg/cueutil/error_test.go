// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "winpkg.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		original := errors.New("some error")
		err := FormatError(original, "winpkg.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "winpkg.cue") || !strings.Contains(err.Error(), "some error") {
			t.Errorf("unexpected message: %v", err)
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to match original")
		}
	})

	t.Run("CUE error keeps its cause", func(t *testing.T) {
		t.Parallel()

		v := cuecontext.New().CompileString("name: {")
		err := FormatError(v.Err(), "winpkg.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.HasPrefix(err.Error(), "winpkg.cue: ") {
			t.Errorf("message %q lacks the file prefix", err)
		}
		var cueErr cueerrors.Error
		if !errors.As(err, &cueErr) {
			t.Error("formatted error should unwrap to the CUE error")
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{"empty path", []string{}, ""},
		{"single element", []string{"name"}, "name"},
		{"nested path", []string{"identity", "version"}, "identity.version"},
		{"array index", []string{"files", "0", "source"}, "files[0].source"},
		{"multiple indices", []string{"files", "0", "tags", "2"}, "files[0].tags[2]"},
		{"leading number is a field", []string{"0"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 100), 100, "winpkg.cue"); err != nil {
		t.Errorf("exact limit: expected nil, got %v", err)
	}

	err := CheckFileSize(make([]byte, 101), 100, "winpkg.cue")
	if err == nil {
		t.Fatal("expected error above limit")
	}
	for _, want := range []string{"winpkg.cue", "101", "100"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should contain %q", err, want)
		}
	}
}
