// SPDX-License-Identifier: MPL-2.0

// Package issue is the catalog of problems winpkg knows how to explain.
//
// Each Issue has a short name and a Markdown page rendered by `winpkg explain`.
// ActionableError ties a failure to an operation, the file or artifact it
// concerns, remediation hints and, optionally, one catalog issue.
package issue
