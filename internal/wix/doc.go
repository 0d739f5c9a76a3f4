// SPDX-License-Identifier: MPL-2.0

// Package wix emits MSI packages with the WiX Toolset v4+ command line.
//
// Render turns a manifest into WiX source; Compiler writes that source to a
// work directory, runs `wix build` and reports the resulting .msi as an
// emitter.Artifact.
package wix
