// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	if DefinitionNotFoundId != 1 {
		t.Errorf("DefinitionNotFoundId = %d, want 1", DefinitionNotFoundId)
	}
	seen := make(map[Id]bool)
	for _, i := range Values() {
		if seen[i.Id()] {
			t.Errorf("duplicate ID: %d", i.Id())
		}
		seen[i.Id()] = true
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	i := Get(DefinitionNotFoundId)
	if i == nil {
		t.Fatal("Get(DefinitionNotFoundId) returned nil")
	}
	if i.Id() != DefinitionNotFoundId || i.Name() != "definition-not-found" {
		t.Errorf("Get() = %d/%s", i.Id(), i.Name())
	}
	if !strings.Contains(string(i.MarkdownMsg()), "No package definition found") {
		t.Error("MarkdownMsg() should mention the missing definition")
	}
	if Get(0) != nil || Get(Id(999)) != nil {
		t.Error("Get() of an unknown id should return nil")
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	i := Get(CompilerNotFoundId)
	links := i.DocLinks()
	if len(links) == 0 {
		t.Fatal("DocLinks() is empty")
	}
	links[0] = "https://example.invalid"
	if i.DocLinks()[0] == "https://example.invalid" {
		t.Error("DocLinks() should return a copy")
	}
	if i.ExtLinks() != nil {
		t.Errorf("ExtLinks() = %v, want nil", i.ExtLinks())
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		i, ok := Lookup(strings.ToUpper(name))
		if !ok || i.Name() != name {
			t.Errorf("Lookup(%q) = %v, %v", name, i, ok)
		}
	}
	if _, ok := Lookup("no-such-issue"); ok {
		t.Error("Lookup() found an unknown name")
	}
}

func TestValues_Ordered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for n := 1; n < len(values); n++ {
		if values[n-1].Id() >= values[n].Id() {
			t.Errorf("Values() not ordered at %d", n)
		}
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	md := Get(ScopeMismatchId).Markdown()
	if !strings.Contains(md, "## See also") || !strings.Contains(md, "single-package-authoring") {
		t.Errorf("Markdown() missing links section:\n%s", md)
	}

	if strings.Contains(Get(PermissionDeniedId).Markdown(), "See also") {
		t.Error("an issue without links should not render a See also section")
	}
}

func TestAllIssuesHaveContent(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", i.Id())
		}
		if i.Name() == "" {
			t.Errorf("issue %d has no name", i.Id())
		}
	}
}

// TestAllIssuesAreRenderable swaps the package renderer, so it does not run in parallel.
func TestAllIssuesAreRenderable(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var got []string
	render = func(in string, stylePath string) (string, error) {
		got = append(got, stylePath)
		return "rendered: " + in, nil
	}

	for _, i := range Values() {
		out, err := i.Render("dark")
		if err != nil {
			t.Errorf("issue %s failed to render: %v", i.Name(), err)
		}
		if !strings.HasPrefix(out, "rendered: ") {
			t.Errorf("issue %s bypassed the renderer", i.Name())
		}
	}
	if len(got) != len(issues) || got[0] != "dark" {
		t.Errorf("renderer calls = %v", got)
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	t.Parallel()

	out, err := Get(DefinitionNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "winpkg init") {
		t.Errorf("rendered output lost content:\n%s", out)
	}
}
