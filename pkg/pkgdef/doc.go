// SPDX-License-Identifier: MPL-2.0

// Package pkgdef provides the package-definition model for Windows installer
// packages: product identity, install scope and architecture, the install
// directory tree, payload references and registry values.
//
// A Manifest is assembled through a Builder (directly, or from a winpkg.cue,
// winpkg.yaml, winpkg.toml or winpkg.hcl definition file), checked as a whole
// by Validate, and handed to an emitter only as a *Validated value produced
// by Certify. Every assembly and validation step collects all problems
// instead of stopping at the first one.
package pkgdef
