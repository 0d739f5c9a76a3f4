// SPDX-License-Identifier: MPL-2.0

// Package platform holds Windows naming rules that apply to install-time
// names regardless of the host the definition is built on: reserved device
// names, illegal filename characters and registry size limits.
package platform
