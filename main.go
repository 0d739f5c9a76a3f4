// SPDX-License-Identifier: MPL-2.0

// Command winpkg builds Windows installer packages from declarative definitions.
package main

import cmd "github.com/winpkg/winpkg/cmd/winpkg"

func main() {
	cmd.Execute()
}
