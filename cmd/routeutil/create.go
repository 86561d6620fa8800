package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andreasphil/routeutil/internal/errors"
	"github.com/andreasphil/routeutil/internal/templates"
)

func createCmd() *cobra.Command {
	var (
		template    string
		description string
		modulePath  string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new routed project",
		Long: `Create a new project with the specified name.

Templates:
  starter   Routed example app with several pages (default)
  bare      The minimum needed to compile and serve a routed app

Examples:
  routeutil create my-app
  routeutil create my-app --template=bare
  routeutil create my-app --module=github.com/me/my-app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], template, description, modulePath)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "starter", "Project template (starter, bare)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().StringVarP(&modulePath, "module", "m", "", "Go module path (defaults to the project name)")

	return cmd
}

func runCreate(name, templateName, description, modulePath string) error {
	printBanner()

	if !validProjectName(name) {
		return errors.New("E122").
			WithDetail("'" + name + "' cannot be used as a directory and module name").
			WithSuggestion("Stick to letters, digits, hyphens, and underscores")
	}

	dir, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		return errors.New("E120").
			WithDetail("'" + name + "' already exists here").
			WithSuggestion("Pick another name or remove the directory first")
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	if description == "" {
		description = "A hash-routed WebAssembly app"
	}
	if modulePath == "" {
		modulePath = name
	}

	info("Scaffolding %s from the '%s' template", name, templateName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	err = tmpl.Create(dir, templates.Config{
		ProjectName: name,
		ModulePath:  modulePath,
		Description: description,
	})
	if err != nil {
		os.RemoveAll(dir)
		return err
	}

	fmt.Println()
	success("Created %s/", name)
	fmt.Println()
	fmt.Println("  Next steps:")
	fmt.Printf("    cd %s\n", name)
	fmt.Println("    routeutil dev")
	fmt.Println()

	return nil
}

// validProjectName accepts names that work both as a directory and as
// the final element of a module path. The first rune must be a letter.
func validProjectName(name string) bool {
	if name == "" {
		return false
	}

	runes := []rune(name)
	first := runes[0]
	if !(first >= 'a' && first <= 'z') && !(first >= 'A' && first <= 'Z') {
		return false
	}

	for _, r := range runes[1:] {
		ok := (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.'
		if !ok {
			return false
		}
	}
	return true
}
