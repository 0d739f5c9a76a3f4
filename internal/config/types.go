// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/winpkg/winpkg/internal/logging"
	"github.com/winpkg/winpkg/pkg/types"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidWixConfig is the sentinel error wrapped by InvalidWixConfigError.
	ErrInvalidWixConfig = errors.New("invalid wix config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level that is logged.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidWixConfigError collects field errors from WixConfig.
	InvalidWixConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Wix configures the WiX compiler
		Wix WixConfig `json:"wix" mapstructure:"wix"`
		// Build configures where builds read and write files
		Build BuildConfig `json:"build" mapstructure:"build"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Log configures the process logger
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// WixConfig configures the `wix build` invocation.
	WixConfig struct {
		// Binary is the wix executable name or path (default: wix)
		Binary string `json:"binary" mapstructure:"binary"`
		// Extensions are passed as -ext flags
		Extensions []string `json:"extensions" mapstructure:"extensions"`
		// ExtraArgs are appended before the source file
		ExtraArgs []string `json:"extra_args" mapstructure:"extra_args"`
	}

	// BuildConfig configures build inputs and outputs.
	BuildConfig struct {
		// ContextDir is the directory payload sources are resolved against.
		// Empty means the directory of the definition file.
		ContextDir types.FilesystemPath `json:"context_dir,omitempty" mapstructure:"context_dir"`
		// OutputDir receives the .msi. Empty means the build context.
		OutputDir types.FilesystemPath `json:"output_dir,omitempty" mapstructure:"output_dir"`
		// WorkDir receives the generated .wxs. Empty means a temp dir.
		WorkDir     types.FilesystemPath `json:"work_dir,omitempty" mapstructure:"work_dir"`
		KeepWorkDir bool                 `json:"keep_work_dir" mapstructure:"keep_work_dir"`
		// Strict promotes validation warnings to errors
		Strict bool `json:"strict" mapstructure:"strict"`
		// WatchInclude and WatchIgnore are doublestar patterns for `build --watch`.
		WatchInclude []string `json:"watch_include,omitempty" mapstructure:"watch_include"`
		WatchIgnore  []string `json:"watch_ignore,omitempty" mapstructure:"watch_ignore"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light")
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// LogConfig configures the process logger.
	LogConfig struct {
		Level  LogLevel       `json:"level" mapstructure:"level"`
		Format logging.Format `json:"format" mapstructure:"format"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Error implements the error interface for InvalidWixConfigError.
func (e *InvalidWixConfigError) Error() string {
	return fmt.Sprintf("invalid wix config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWixConfig and the field errors for errors.Is() compatibility.
func (e *InvalidWixConfigError) Unwrap() []error {
	return append([]error{ErrInvalidWixConfig}, e.FieldErrors...)
}

// IsValid returns whether the WixConfig has valid fields. An empty binary
// means the default; a whitespace-only one is rejected.
func (c WixConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Binary != "" && strings.TrimSpace(c.Binary) == "" {
		errs = append(errs, fmt.Errorf("binary: %w", &types.InvalidFilesystemPathError{Value: types.FilesystemPath(c.Binary), Reason: "must not be whitespace-only"}))
	}
	for i, ext := range c.Extensions {
		if strings.TrimSpace(ext) == "" {
			errs = append(errs, fmt.Errorf("extensions[%d]: must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWixConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid returns whether the BuildConfig has valid fields. Empty paths
// select defaults and are always valid.
func (c BuildConfig) IsValid() (bool, []error) {
	var errs []error
	for _, p := range []struct {
		field string
		value types.FilesystemPath
	}{
		{"context_dir", c.ContextDir},
		{"output_dir", c.OutputDir},
		{"work_dir", c.WorkDir},
	} {
		if p.value == "" {
			continue
		}
		if ok, pathErrs := p.value.IsValid(); !ok {
			errs = append(errs, fmt.Errorf("%s: %w", p.field, pathErrs[0]))
		}
	}
	for _, list := range []struct {
		field    string
		patterns []string
	}{
		{"watch_include", c.WatchInclude},
		{"watch_ignore", c.WatchIgnore},
	} {
		for i, pat := range list.patterns {
			if !doublestar.ValidatePattern(pat) {
				errs = append(errs, fmt.Errorf("%s[%d]: invalid pattern %q", list.field, i, pat))
			}
		}
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, e := c.Wix.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if ok, e := c.Build.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if ok, e := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if ok, e := c.Log.Level.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if ok, e := c.Log.Format.IsValid(); !ok {
		errs = append(errs, e...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// LoggingOptions converts the logger settings into logging.Options.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:   string(c.Log.Level),
		Format:  c.Log.Format,
		Verbose: c.UI.Verbose,
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Wix: WixConfig{
			Binary:     "wix",
			Extensions: []string{},
			ExtraArgs:  []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{
			Level:  LogLevelWarn,
			Format: logging.FormatText,
		},
	}
}
