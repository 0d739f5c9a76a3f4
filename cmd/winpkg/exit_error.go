// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/winpkg/winpkg/pkg/types"
)

// ExitError carries a process exit status out of a RunE handler. Execute
// turns it into os.Exit; a nil Err means the diagnostics were already printed.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
