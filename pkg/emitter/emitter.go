// SPDX-License-Identifier: MPL-2.0

package emitter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/winpkg/winpkg/pkg/pkgdef"
	"github.com/winpkg/winpkg/pkg/types"
)

// ErrEmissionFailure is matched by every *EmissionFailure.
var ErrEmissionFailure = errors.New("emission failed")

type (
	// Emitter turns a validated manifest into one artifact.
	Emitter interface {
		Emit(ctx context.Context, v *pkgdef.Validated) (Artifact, error)
	}

	// Func adapts a function to the Emitter interface.
	Func func(ctx context.Context, v *pkgdef.Validated) (Artifact, error)

	// Artifact is the file an emitter produced.
	Artifact struct {
		Path   types.FilesystemPath `json:"path"`
		Size   int64                `json:"size"`
		SHA256 string               `json:"sha256"`
	}

	// EmissionFailure reports that the compiler could not produce the
	// artifact. It is opaque to callers and not retryable; Output carries
	// whatever diagnostics the compiler printed.
	EmissionFailure struct {
		Emitter string
		Output  string
		Cause   error
	}
)

// Emit calls f.
func (f Func) Emit(ctx context.Context, v *pkgdef.Validated) (Artifact, error) {
	return f(ctx, v)
}

// Error implements the error interface.
func (e *EmissionFailure) Error() string {
	msg := "emission failed"
	if e.Emitter != "" {
		msg = e.Emitter + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrEmissionFailure and the underlying cause.
func (e *EmissionFailure) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrEmissionFailure}
	}
	return []error{ErrEmissionFailure, e.Cause}
}

// Run certifies m and, only if it has no validation errors, hands it to e.
// Validation failures are returned as pkgdef.ValidationErrors and e is not
// called. Emission errors are returned as *EmissionFailure and any file
// at the artifact path reported by e is removed. Emitters that replace an
// existing artifact should report their staging path on failure, so the
// previous good artifact survives.
func Run(ctx context.Context, e Emitter, m *pkgdef.Manifest, opts ...pkgdef.ValidateOption) (Artifact, *pkgdef.Validated, error) {
	v, err := pkgdef.Certify(m, opts...)
	if err != nil {
		return Artifact{}, nil, err
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, v, &EmissionFailure{Cause: err}
	}

	artifact, err := e.Emit(ctx, v)
	if err != nil {
		RemovePartial(artifact.Path)
		var failure *EmissionFailure
		if errors.As(err, &failure) {
			return Artifact{}, v, failure
		}
		return Artifact{}, v, &EmissionFailure{Cause: err}
	}
	return artifact, v, nil
}

// RemovePartial deletes a partially written artifact. Missing files are ignored.
func RemovePartial(path types.FilesystemPath) {
	if path == "" {
		return
	}
	_ = os.Remove(string(path))
}

// Describe stats and hashes the file at path.
func Describe(path types.FilesystemPath) (Artifact, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return Artifact{}, fmt.Errorf("artifact %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Artifact{}, fmt.Errorf("hashing artifact %s: %w", path, err)
	}
	return Artifact{Path: path, Size: n, SHA256: hex.EncodeToString(h.Sum(nil))}, nil
}
