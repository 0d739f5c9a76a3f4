// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the package pipeline hot paths:
//   - definition parsing in every supported format
//   - assembly and validation of large manifests
//   - WiX source rendering
//   - the gated emit pipeline with a stub emitter
//
// To collect a CPU profile for PGO:
//
//	go test ./internal/benchmark -run '^$' -bench . -cpuprofile default.pgo
package benchmark
