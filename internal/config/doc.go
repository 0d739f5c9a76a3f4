// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/winpkg/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/winpkg/config.cue on macOS, %APPDATA%\winpkg\config.cue
// on Windows), falling back to ./config.cue. Values can be overridden with WINPKG_
// environment variables, e.g. WINPKG_WIX_BINARY or WINPKG_BUILD_STRICT.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
