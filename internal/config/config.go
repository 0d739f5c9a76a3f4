// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/winpkg/winpkg/internal/issue"
	"github.com/winpkg/winpkg/pkg/cueutil"
	"github.com/winpkg/winpkg/pkg/platform"
	"github.com/winpkg/winpkg/pkg/types"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "winpkg"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides: wix.binary is WINPKG_WIX_BINARY.
	EnvPrefix = "WINPKG"
)

// ErrConfigExists is returned by CreateDefaultConfig when the file exists and force is not set.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema string

// Schema returns the embedded #Config CUE schema.
func Schema() string { return configSchema }

// ConfigDir returns the winpkg configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the config file that Load would read for opts, whether
// or not it exists: the forced file, else the file in the config directory.
func FilePath(opts LoadOptions) (types.FilesystemPath, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return types.FilesystemPath(filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)), nil
}

// LoadSource loads configuration for opts and reports which file it came from.
// Lookup order: the forced file, the config directory, then ./config.cue.
// A missing file outside the forced case is not an error.
func LoadSource(ctx context.Context, opts LoadOptions) (*Source, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := newViper()

	var resolved types.FilesystemPath
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'winpkg config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, loadError(path, err)
		}
		resolved = opts.ConfigFilePath
	} else {
		cuePath, err := FilePath(opts)
		if err != nil {
			return nil, err
		}
		for _, candidate := range []string{string(cuePath), ConfigFileName + "." + ConfigFileExt} {
			if !fileExists(candidate) {
				continue
			}
			if err := loadCUEIntoViper(v, candidate); err != nil {
				return nil, loadError(candidate, err)
			}
			resolved = types.FilesystemPath(candidate)
			break
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Env overrides bypass the CUE schema, so the decoded values are checked again.
	if ok, errs := cfg.IsValid(); !ok {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(string(resolved)).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			Wrap(errs[0]).
			BuildError()
	}

	return &Source{Config: &cfg, Path: resolved}, nil
}

// newViper returns a Viper instance with every key defaulted and bound to
// its WINPKG_ environment variable.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("wix.binary", defaults.Wix.Binary)
	v.SetDefault("wix.extensions", defaults.Wix.Extensions)
	v.SetDefault("wix.extra_args", defaults.Wix.ExtraArgs)
	v.SetDefault("build.context_dir", string(defaults.Build.ContextDir))
	v.SetDefault("build.output_dir", string(defaults.Build.OutputDir))
	v.SetDefault("build.work_dir", string(defaults.Build.WorkDir))
	v.SetDefault("build.keep_work_dir", defaults.Build.KeepWorkDir)
	v.SetDefault("build.strict", defaults.Build.Strict)
	v.SetDefault("build.watch_include", defaults.Build.WatchInclude)
	v.SetDefault("build.watch_ignore", defaults.Build.WatchIgnore)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("log.level", string(defaults.Log.Level))
	v.SetDefault("log.format", string(defaults.Log.Format))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'winpkg config show' for every key and its default").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath types.FilesystemPath) (string, error) {
	if configDirPath != "" {
		return string(configDirPath), nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Note: This uses manual CUE parsing instead of cueutil.ParseAndDecode because
// the config decodes to map[string]any for Viper, every field is optional, and
// the result is merged over Viper's defaults rather than returned as a struct.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file for opts and returns
// its path. An existing file is only replaced when force is set.
func CreateDefaultConfig(opts LoadOptions, force bool) (types.FilesystemPath, error) {
	path, err := FilePath(opts)
	if err != nil {
		return "", err
	}
	if !force && fileExists(string(path)) {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	return path, Save(path, DefaultConfig())
}

// Save writes cfg to path as CUE, creating the parent directory.
func Save(path types.FilesystemPath, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(string(path), []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// winpkg configuration file\n")
	sb.WriteString("// Every key can be overridden with a " + EnvPrefix + "_ environment variable,\n")
	sb.WriteString("// e.g. " + EnvPrefix + "_WIX_BINARY or " + EnvPrefix + "_BUILD_STRICT.\n\n")

	sb.WriteString("wix: {\n")
	fmt.Fprintf(&sb, "\tbinary: %q\n", cfg.Wix.Binary)
	fmt.Fprintf(&sb, "\textensions: %s\n", cueList(cfg.Wix.Extensions))
	fmt.Fprintf(&sb, "\textra_args: %s\n", cueList(cfg.Wix.ExtraArgs))
	sb.WriteString("}\n")

	sb.WriteString("\nbuild: {\n")
	if cfg.Build.ContextDir != "" {
		fmt.Fprintf(&sb, "\tcontext_dir: %q\n", cfg.Build.ContextDir)
	}
	if cfg.Build.OutputDir != "" {
		fmt.Fprintf(&sb, "\toutput_dir: %q\n", cfg.Build.OutputDir)
	}
	if cfg.Build.WorkDir != "" {
		fmt.Fprintf(&sb, "\twork_dir: %q\n", cfg.Build.WorkDir)
	}
	fmt.Fprintf(&sb, "\tkeep_work_dir: %v\n", cfg.Build.KeepWorkDir)
	fmt.Fprintf(&sb, "\tstrict: %v\n", cfg.Build.Strict)
	if len(cfg.Build.WatchInclude) > 0 {
		fmt.Fprintf(&sb, "\twatch_include: %s\n", cueList(cfg.Build.WatchInclude))
	}
	if len(cfg.Build.WatchIgnore) > 0 {
		fmt.Fprintf(&sb, "\twatch_ignore: %s\n", cueList(cfg.Build.WatchIgnore))
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Log.Format)
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
