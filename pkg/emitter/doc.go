// SPDX-License-Identifier: MPL-2.0

// Package emitter defines the contract between a validated package manifest
// and the tool that turns it into an installable artifact.
//
// An Emitter only ever sees a *pkgdef.Validated. Run is the gate: it
// certifies the manifest, refuses to call the emitter when validation
// reports errors, and removes any partial artifact if emission fails.
package emitter
