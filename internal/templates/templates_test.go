package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	for _, name := range []string{"starter", "bare"} {
		tmpl, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", name, err)
		}
		if tmpl.Name != name {
			t.Errorf("Name = %q, want %q", tmpl.Name, name)
		}
		if tmpl.Description == "" {
			t.Errorf("template %q has no description", name)
		}
	}

	_, err := Get("nonexistent")
	if err == nil || !strings.Contains(err.Error(), "E121") {
		t.Errorf("Get(nonexistent) = %v, want E121", err)
	}
}

func TestList(t *testing.T) {
	names := List()
	if len(names) != 2 || names[0] != "bare" || names[1] != "starter" {
		t.Errorf("List() = %v, want sorted [bare starter]", names)
	}
}

// scaffold renders a template into a fresh directory and returns a
// reader for the generated files.
func scaffold(t *testing.T, template string, cfg Config) func(string) string {
	t.Helper()
	dir := t.TempDir()

	tmpl, err := Get(template)
	if err != nil {
		t.Fatal(err)
	}
	if err := tmpl.Create(dir, cfg); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	return func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("generated file %s: %v", name, err)
		}
		return string(data)
	}
}

func TestStarterTemplate(t *testing.T) {
	read := scaffold(t, "starter", Config{
		ProjectName: "gallery",
		ModulePath:  "github.com/demo/gallery",
		Description: "Photo gallery demo",
	})

	mainGo := read("app/main.go")
	for _, want := range []string{
		"//go:build js && wasm",
		"gallery",
		"Photo gallery demo",
		"routeutil.MustRoute",
		"browser.Window()",
	} {
		if !strings.Contains(mainGo, want) {
			t.Errorf("app/main.go is missing %q", want)
		}
	}

	if goMod := read("go.mod"); !strings.Contains(goMod, "module github.com/demo/gallery") {
		t.Errorf("go.mod module line wrong:\n%s", goMod)
	}

	index := read("public/index.html")
	for _, want := range []string{"wasm_exec.js", "app.wasm", "<title>gallery</title>"} {
		if !strings.Contains(index, want) {
			t.Errorf("public/index.html is missing %q", want)
		}
	}

	if readme := read("README.md"); !strings.Contains(readme, "gallery") {
		t.Error("README.md does not mention the project")
	}
	read("public/style.css")
	read(".gitignore")
	read("routeutil.json")
}

func TestBareTemplate(t *testing.T) {
	read := scaffold(t, "bare", Config{ProjectName: "tiny", ModulePath: "tiny"})

	if mainGo := read("app/main.go"); !strings.Contains(mainGo, "tiny") {
		t.Error("app/main.go does not mention the project")
	}
	read("public/index.html")
	read("go.mod")
	read("routeutil.json")
}

func TestBareTemplateOmitsExtras(t *testing.T) {
	dir := t.TempDir()

	tmpl, err := Get("bare")
	if err != nil {
		t.Fatal(err)
	}
	if err := tmpl.Create(dir, Config{ProjectName: "tiny", ModulePath: "tiny"}); err != nil {
		t.Fatal(err)
	}

	for _, extra := range []string{"README.md", "public/style.css", ".gitignore"} {
		if _, err := os.Stat(filepath.Join(dir, extra)); err == nil {
			t.Errorf("bare template generated %s", extra)
		}
	}
}
