// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform lookup in ConfigDir when non-empty.
// Tests set it because os.UserHomeDir ignores HOME on some CI runners.
var configDirOverride string

// SetConfigDirOverride pins ConfigDir to dir. Not safe alongside parallel tests.
func SetConfigDirOverride(dir string) { configDirOverride = dir }

// Reset undoes SetConfigDirOverride.
func Reset() { configDirOverride = "" }
