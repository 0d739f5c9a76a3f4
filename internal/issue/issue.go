// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DefinitionNotFoundId Id = iota + 1
	DefinitionParseErrorId
	ManifestInvalidId
	SourceMissingId
	ScopeMismatchId
	CompilerNotFoundId
	EmissionFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	name     string      // stable name accepted by `winpkg explain`
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the issue text with its links appended as a list.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			fmt.Fprintf(&sb, "- <%s>\n", link)
		}
		for _, link := range i.extLinks {
			fmt.Fprintf(&sb, "- <%s>\n", link)
		}
	}
	return sb.String()
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	definitionNotFoundIssue = &Issue{
		id:   DefinitionNotFoundId,
		name: "definition-not-found",
		mdMsg: `
# No package definition found!

winpkg looked for a package definition but none was found.

## Search order
1. The path given with ` + "`--file`" + `
2. ` + "`winpkg.cue`, `winpkg.yaml`, `winpkg.yml`, `winpkg.toml`, `winpkg.hcl`" + ` in the current directory

## Things you can try
- Create a starter definition:
~~~
$ winpkg init
~~~

- Or point at an existing one:
~~~
$ winpkg build --file packaging/banner.cue
~~~`,
		docLinks: []HttpLink{"https://wixtoolset.org/docs/schema/wxs/package/"},
	}

	definitionParseErrorIssue = &Issue{
		id:   DefinitionParseErrorId,
		name: "definition-parse-error",
		mdMsg: `
# Failed to parse the package definition!

The definition contains a syntax error, an unknown field, or a value of the wrong type.

## Common issues
- Unknown field names (every format rejects fields it does not know)
- ` + "`package_id`" + ` is not a UUID
- ` + "`version`" + ` has more than four numeric components
- ` + "`install_dir`" + ` does not start with a known folder such as ` + "`%ProgramFiles%`" + `

## Example definition
~~~cue
name:         "ClassificationBanner"
package_id:   "f302f7d2-bd3a-4d3a-886f-243c0ef39a24"
manufacturer: "Department of War"
version:      "1.1.0"
install_dir:  "%ProgramFiles%\\Department of War\\ClassificationBanner"
files: [{source: "dist\\Windows\\ClassificationBanner.exe"}]
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	manifestInvalidIssue = &Issue{
		id:   ManifestInvalidId,
		name: "manifest-invalid",
		mdMsg: `
# The package manifest is not valid!

The definition parsed, but the assembled manifest breaks one or more packaging rules.
Nothing was emitted.

## Things you can try
- Run the validator on its own to see every problem at once:
~~~
$ winpkg validate
~~~

- Fix the fields named in each message (for example ` + "`registry[0].name`" + `)
- Use ` + "`--strict`" + ` in CI so warnings fail the build too`,
		docLinks: []HttpLink{"https://learn.microsoft.com/windows/win32/msi/formatted"},
	}

	sourceMissingIssue = &Issue{
		id:   SourceMissingId,
		name: "source-missing",
		mdMsg: `
# A payload source file is missing!

A file listed in the definition does not exist in the build context, or it is not a regular file.

## Things you can try
- Build the payload first (for example ` + "`go build -o dist/Windows/`" + `)
- Sources are resolved against the build context, which defaults to the directory of the definition
- Point at a different build context:
~~~
$ winpkg build --context ./out
~~~`,
		docLinks: []HttpLink{"https://wixtoolset.org/docs/schema/wxs/file/"},
	}

	scopeMismatchIssue = &Issue{
		id:   ScopeMismatchId,
		name: "scope-mismatch",
		mdMsg: `
# Registry hive does not match the install scope!

A per-machine package writes to ` + "`HKLM`" + ` and a per-user package writes to ` + "`HKCU`" + `.
Writing the other hive silently fails or needs elevation the package never asks for.

## Things you can try
- Change ` + "`scope`" + ` to match the hive you need
- Move the value to the matching hive
- If the mismatch is intended, set ` + "`allow_scope_mismatch: true`" + ` on that registry entry`,
		docLinks: []HttpLink{"https://learn.microsoft.com/windows/win32/msi/single-package-authoring"},
	}

	compilerNotFoundIssue = &Issue{
		id:   CompilerNotFoundId,
		name: "compiler-not-found",
		mdMsg: `
# WiX compiler not found!

winpkg builds .msi files with the WiX v4+ ` + "`wix`" + ` command line tool, and it was not found on PATH.

## Things you can try
- Install it as a .NET tool:
~~~
$ dotnet tool install --global wix
~~~

- Or set the binary explicitly in your config:
~~~cue
wix: binary: "C:\\tools\\wix.exe"
~~~

- Check the generated source without compiling:
~~~
$ winpkg build --dry-run
~~~`,
		docLinks: []HttpLink{"https://wixtoolset.org/docs/intro/"},
	}

	emissionFailedIssue = &Issue{
		id:   EmissionFailedId,
		name: "emission-failed",
		mdMsg: `
# The installer could not be produced!

The manifest was valid, but the emitter failed. Any partial artifact was removed.

## Things you can try
- Re-run with ` + "`--verbose`" + ` to see the compiler output
- Inspect the generated WiX source:
~~~
$ winpkg inspect --wxs
~~~

- Keep the work directory for debugging with ` + "`build: keep_work_dir: true`" + ``,
		docLinks: []HttpLink{"https://wixtoolset.org/docs/tools/wixexe/"},
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config-load-failed",
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be loaded.

## Things you can try
- Show where winpkg looks for its config file:
~~~
$ winpkg config path
~~~

- Write a fresh default config:
~~~
$ winpkg config init --force
~~~

- Check the CUE syntax and the field names against ` + "`winpkg config show`" + ``,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	permissionDeniedIssue = &Issue{
		id:   PermissionDeniedId,
		name: "permission-denied",
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes
- The output directory is read-only or owned by another user
- A previous build's .msi is open in another process
- The payload source is not readable

## Things you can try
- Check file and directory permissions
- Choose another output directory with ` + "`--out`" + ``,
	}

	issues = map[Id]*Issue{
		definitionNotFoundIssue.Id():   definitionNotFoundIssue,
		definitionParseErrorIssue.Id(): definitionParseErrorIssue,
		manifestInvalidIssue.Id():      manifestInvalidIssue,
		sourceMissingIssue.Id():        sourceMissingIssue,
		scopeMismatchIssue.Id():        scopeMismatchIssue,
		compilerNotFoundIssue.Id():     compilerNotFoundIssue,
		emissionFailedIssue.Id():       emissionFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by its name, case-insensitively.
func Lookup(name string) (*Issue, bool) {
	for _, i := range issues {
		if strings.EqualFold(i.name, name) {
			return i, true
		}
	}
	return nil, false
}

// Names returns the sorted names of every issue.
func Names() []string {
	names := make([]string, 0, len(issues))
	for _, i := range issues {
		names = append(names, i.name)
	}
	slices.Sort(names)
	return names
}
