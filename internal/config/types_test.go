// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/winpkg/winpkg/internal/logging"
	"github.com/winpkg/winpkg/pkg/types"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if ok, errs := cs.IsValid(); !ok {
			t.Errorf("ColorScheme(%q).IsValid() = false, %v", cs, errs)
		}
	}
	for _, cs := range []ColorScheme{"", "blue", "AUTO"} {
		ok, errs := cs.IsValid()
		if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
			t.Errorf("ColorScheme(%q).IsValid() = %v, %v", cs, ok, errs)
		}
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		if ok, _ := l.IsValid(); !ok {
			t.Errorf("LogLevel(%q) should be valid", l)
		}
	}
	var levelErr *InvalidLogLevelError
	if ok, errs := LogLevel("trace").IsValid(); ok || !errors.As(errs[0], &levelErr) || levelErr.Value != "trace" {
		t.Errorf("LogLevel(trace).IsValid() = %v, %v", ok, errs)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Wix.Binary = "  "
	cfg.Wix.Extensions = []string{"ok", ""}
	cfg.Build.WorkDir = types.FilesystemPath("\t")
	cfg.Log.Format = "xml"

	ok, errs := cfg.IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", ok, errs)
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	// wix (one error for both fields), work_dir, format
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3", cfgErr.FieldErrors)
	}
	for _, target := range []error{ErrInvalidConfig, ErrInvalidWixConfig, types.ErrInvalidFilesystemPath, logging.ErrInvalidFormat} {
		if !errors.Is(errs[0], target) {
			t.Errorf("errors do not include %v", target)
		}
	}
}

func TestBuildConfig_WatchPatterns(t *testing.T) {
	t.Parallel()

	valid := BuildConfig{WatchInclude: []string{"assets/**/*.ico"}, WatchIgnore: []string{"**/*.tmp"}}
	if ok, errs := valid.IsValid(); !ok {
		t.Errorf("IsValid() = %v, want valid", errs)
	}

	invalid := BuildConfig{WatchInclude: []string{"ok/*", "assets/["}, WatchIgnore: []string{"{a,b"}}
	ok, errs := invalid.IsValid()
	if ok || len(errs) != 2 {
		t.Fatalf("IsValid() = %v, %v, want two pattern errors", ok, errs)
	}
	if !strings.Contains(errs[0].Error(), "watch_include[1]") || !strings.Contains(errs[1].Error(), "watch_ignore[0]") {
		t.Errorf("errors = %v", errs)
	}
}

func TestConfig_LoggingOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UI.Verbose = true
	cfg.Log.Format = logging.FormatLogfmt

	opts := cfg.LoggingOptions()
	if opts.Level != "warn" || opts.Format != logging.FormatLogfmt || !opts.Verbose {
		t.Errorf("LoggingOptions() = %+v", opts)
	}
}
