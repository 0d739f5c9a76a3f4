// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for winpkg.
//
// This package implements the Cobra command hierarchy for the winpkg CLI:
// building an installer from a package definition, validating and
// inspecting definitions, scaffolding new ones, managing configuration,
// and explaining error categories.
package cmd
