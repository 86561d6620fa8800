// Package templates provides project scaffolding templates.
//
// Each template is a set of embedded files that together form a working
// hash-routed WASM application. Files are rendered through text/template
// before they are written, so templates can reference project metadata.
//
// # Available Templates
//
//   - starter: routed example app with several pages (default)
//   - bare: the minimum needed to compile and serve a routed app
//
// # Usage
//
//	tmpl, err := templates.Get("starter")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(projectDir, config); err != nil {
//	    return err
//	}
//
// # Template Variables
//
//	{{.ProjectName}}  - Name of the project
//	{{.ModulePath}}   - Go module path of the generated app
//	{{.Description}}  - Project description
package templates
