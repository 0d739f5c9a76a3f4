// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"CON", true},
		{"con", true},
		{"nul.txt", true},
		{"COM1", true},
		{"LPT9.log", true},
		{"COM10", false},
		{"ClassificationBanner.exe", false},
		{"console", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsWindowsReservedName(tt.name); got != tt.want {
				t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain executable", "ClassificationBanner.exe", false},
		{"spaces inside", "Classification Banner.exe", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxFilenameLength+1), true},
		{"backslash", `bin\app.exe`, true},
		{"slash", "bin/app.exe", true},
		{"colon", "C:app.exe", true},
		{"question mark", "app?.exe", true},
		{"control character", "app\t.exe", true},
		{"reserved", "aux.dll", true},
		{"trailing period", "app.", true},
		{"trailing space", "app ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFilename) {
				t.Errorf("error does not wrap ErrInvalidFilename: %v", err)
			}
		})
	}
}

func TestEqualFold(t *testing.T) {
	t.Parallel()

	if !EqualFold("App.exe", "app.EXE") {
		t.Error("expected case-insensitive match")
	}
	if EqualFold("app.exe", "app.dll") {
		t.Error("expected different names to differ")
	}
}
