package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/archgate/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

// getConfigSchema returns the archgate.yaml keys, following config.Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "rules.preConfiguredRules", Type: "[]string", Description: "Rule ids run with their built-in check"},
		{Name: "rules.configurableRules", Type: "[]object", Description: "Rules whose checks are selected and scoped"},
		{Name: "rules.configurableRules[].rule", Type: "string", Description: "Registry id or rule pack path (.yaml, .yml, .star)"},
		{Name: "rules.configurableRules[].checks", Type: "[]string", Description: "Checks to run; all checks of the rule when empty"},
		{Name: "rules.configurableRules[].applyOn.basePackage", Type: "string", Description: "Only types in this package or below"},
		{Name: "rules.configurableRules[].applyOn.scope", Type: "string", Description: "main or test; both when empty"},
		{Name: "skip", Type: "bool", Default: "false", Description: "Skip rule execution"},
		{Name: "noFailOnError", Type: "bool", Default: "false", Description: "Log violations instead of failing"},
		{Name: "packaging", Type: "string", Description: "Override build unit detection: module, workspace, none"},
		{Name: "dir", Type: "string", Description: "Directory to check, relative to the project root"},
		{Name: "patterns", Type: "[]string", Default: config.DefaultPatterns[0], Description: "Package patterns to load"},
		{Name: "tests", Type: "bool", Default: "false", Description: "Include _test.go files"},
		{Name: "buildFlags", Type: "[]string", Description: "Flags passed to the go command"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "auto, text, markdown or json"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Debug logging"},
		{Name: "history.enabled", Type: "bool", Default: "false", Description: "Record every check run"},
		{Name: "history.path", Type: "string", Default: config.DefaultHistoryPath, Description: "History database, relative to the project root"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "archgate configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("archgate is configured via `archgate.yaml`, searched upward from the working directory. " +
		"The directory holding it is the project root.")

	var rows [][]string
	for _, f := range getConfigSchema() {
		defVal := "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
	}
	w.Table([]string{"Field", "Type", "Default", "Description"}, rows)

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# archgate.yaml
rules:
  preConfiguredRules:
    - builtin.NoIoutil
    - builtin.NoStandardStreams
  configurableRules:
    - rule: builtin.Layering
      checks: [pkgDoesNotImportInternal]
    - rule: builtin.Naming
      applyOn:
        basePackage: example.com/app/internal
        scope: main
    - rule: rules/layers.star

noFailOnError: false
tests: true

history:
  enabled: true`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
