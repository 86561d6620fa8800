package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/andreasphil/routeutil/internal/errors"
)

// Config carries the values substituted into template files.
type Config struct {
	// ProjectName names the project, used in titles and the README.
	ProjectName string

	// ModulePath is the Go module path of the generated app.
	ModulePath string

	// Description is a short blurb about the project.
	Description string
}

// Template is a named set of files that scaffold a project.
type Template struct {
	Name        string
	Description string

	// Files maps relative paths to text/template contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"starter": starterTemplate(),
	"bare":    bareTemplate(),
}

// Get looks up a template by name.
func Get(name string) (*Template, error) {
	t, ok := templates[name]
	if !ok {
		return nil, errors.New("E121").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: starter, bare")
	}
	return t, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create renders every file of the template into dir, substituting cfg.
func (t *Template) Create(dir string, cfg Config) error {
	for name, raw := range t.Files {
		parsed, err := template.New(name).Parse(raw)
		if err != nil {
			return errors.Newf(errors.CategoryScaffold, "invalid template %s: %v", name, err)
		}

		var buf bytes.Buffer
		if err := parsed.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryScaffold, "template execute error %s: %v", name, err)
		}

		dest := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return nil
}

// starterTemplate returns the routed example app.
func starterTemplate() *Template {
	return &Template{
		Name:        "starter",
		Description: "Routed example app with several pages",
		Files: map[string]string{
			"app/main.go": `//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/andreasphil/routeutil"
	"github.com/andreasphil/routeutil/pkg/browser"
)

var itemRoute = routeutil.MustRoute("#/items/", routeutil.Param("id"))

func main() {
	doc := js.Global().Get("document")
	outlet := doc.Call("getElementById", "outlet")
	show := func(html string) { outlet.Set("innerHTML", html) }

	routeutil.New(browser.Window(), routeutil.StartAt("#/")).
		On("#/", func(routeutil.ResolvedRoute) {
			show("<h1>{{.ProjectName}}</h1><p>{{.Description}}</p>")
		}).
		On("#/items", func(routeutil.ResolvedRoute) {
			show(` + "`" + `<h1>Items</h1>
				<ul>
					<li><a href="#/items/1">First item</a></li>
					<li><a href="#/items/2">Second item</a></li>
				</ul>` + "`" + `)
		}).
		On(itemRoute, func(res routeutil.ResolvedRoute) {
			show("<h1>Item " + res.Params["id"] + ` + "`" + `</h1><p><a href="#/items">Back to items</a></p>` + "`" + `)
		}).
		Fallback(func(res routeutil.ResolvedRoute) {
			show("<h1>Not found</h1><p>No page matches " + res.URL + ` + "`" + `.</p><p><a href="#/">Go home</a></p>` + "`" + `)
		}).
		AfterEach(func(res routeutil.ResolvedRoute) {
			doc.Set("title", "{{.ProjectName}} "+res.URL)
		}).
		Connect()

	select {}
}
`,
			"public/index.html": `<!doctype html>
<html lang="en">
	<head>
		<meta charset="utf-8" />
		<meta name="viewport" content="width=device-width, initial-scale=1" />
		<title>{{.ProjectName}}</title>
		<link rel="stylesheet" href="style.css" />
	</head>
	<body>
		<nav>
			<a href="#/">Home</a>
			<a href="#/items">Items</a>
		</nav>
		<main id="outlet"></main>
		<script src="wasm_exec.js"></script>
		<script>
			const go = new Go();
			WebAssembly.instantiateStreaming(fetch("app.wasm"), go.importObject).then(
				(result) => go.run(result.instance)
			);
		</script>
	</body>
</html>
`,
			"public/style.css": `:root {
	font-family: system-ui, sans-serif;
	line-height: 1.5;
}

body {
	margin: 0 auto;
	max-width: 40rem;
	padding: 2rem 1rem;
}

nav {
	display: flex;
	gap: 1rem;
	border-bottom: 1px solid #ddd;
	padding-bottom: 1rem;
	margin-bottom: 2rem;
}

a {
	color: #2563eb;
}
`,
			"routeutil.json": `{
  "name": "{{.ProjectName}}",
  "app": "app",
  "public": "public",
  "dev": {
    "port": 3000,
    "open": true
  },
  "build": {
    "output": "dist",
    "stripSymbols": true
  }
}
`,
			"go.mod": `module {{.ModulePath}}

go 1.24

require github.com/andreasphil/routeutil v0.3.0
`,
			".gitignore": `dist/
`,
			"README.md": `# {{.ProjectName}}

{{.Description}}

## Getting Started

` + "```" + `bash
# Start the development server with live reload
routeutil dev

# Compile the app to WebAssembly
routeutil build

# Upload the build output to S3
routeutil deploy
` + "```" + `

## Project Structure

` + "```" + `
{{.ProjectName}}/
├── app/
│   └── main.go       # Routes and page rendering
├── public/           # Static assets served as-is
│   ├── index.html
│   └── style.css
├── dist/             # Build output (generated)
└── routeutil.json    # Project configuration
` + "```" + `

Routes are hash fragments, so every page works from a single
statically served index.html. Edit app/main.go to add pages.
`,
		},
	}
}

// bareTemplate returns the minimal template.
func bareTemplate() *Template {
	return &Template{
		Name:        "bare",
		Description: "The minimum needed to compile and serve a routed app",
		Files: map[string]string{
			"app/main.go": `//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/andreasphil/routeutil"
	"github.com/andreasphil/routeutil/pkg/browser"
)

func main() {
	outlet := js.Global().Get("document").Call("getElementById", "outlet")

	routeutil.New(browser.Window(), routeutil.StartAt("#/")).
		On("#/", func(routeutil.ResolvedRoute) {
			outlet.Set("innerHTML", "<h1>{{.ProjectName}}</h1>")
		}).
		Fallback(func(routeutil.ResolvedRoute) {
			outlet.Set("innerHTML", "<h1>Not found</h1>")
		}).
		Connect()

	select {}
}
`,
			"public/index.html": `<!doctype html>
<html lang="en">
	<head>
		<meta charset="utf-8" />
		<title>{{.ProjectName}}</title>
	</head>
	<body>
		<main id="outlet"></main>
		<script src="wasm_exec.js"></script>
		<script>
			const go = new Go();
			WebAssembly.instantiateStreaming(fetch("app.wasm"), go.importObject).then(
				(result) => go.run(result.instance)
			);
		</script>
	</body>
</html>
`,
			"routeutil.json": `{
  "name": "{{.ProjectName}}"
}
`,
			"go.mod": `module {{.ModulePath}}

go 1.24

require github.com/andreasphil/routeutil v0.3.0
`,
		},
	}
}
