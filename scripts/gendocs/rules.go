package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/archgate/pkg/rules"
	"github.com/leapstack-labs/archgate/pkg/rules/builtin"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	builtin.GroupTesting: "Rules about how production code stays testable.",
	builtin.GroupStyle:   "Rules about idiomatic Go and deprecated APIs.",
	builtin.GroupLayers:  "Rules about which packages may depend on which.",
	builtin.GroupNaming:  "Rules about type names and their suffixes.",
}

// generateRulesDocs generates the rules reference from the default registry.
func generateRulesDocs(outDir string) error {
	log.Printf("Generating rules docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	writeRulesPage(w, rules.Default().All())
	if err := os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated index.md")
	return nil
}

func writeRulesPage(w *MarkdownWriter, infos []rules.Info) {
	title := cases.Title(language.English)

	w.Frontmatter("Rules", "Built-in architecture rules of archgate")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("archgate ships %d built-in rules.", len(infos)))
	w.BulletList([]string{
		Bold("Pre-configured rules") + " are enabled by id under " + InlineCode("rules.preConfiguredRules") + ".",
		Bold("Configurable rules") + " expose named checks, selected under " + InlineCode("rules.configurableRules") +
			" and optionally limited to a base package and to main or test code.",
	})

	grouped := groupRules(infos)
	groups := make([]string, 0, len(grouped))
	for g := range grouped {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, group := range groups {
		w.Line(fmt.Sprintf("## %s {#%s}", title.String(group), group))
		w.Newline()
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}
		for _, info := range grouped[group] {
			writeRuleDoc(w, info)
		}
	}
}

// groupRules organizes rules by group, sorted by id within each group.
func groupRules(infos []rules.Info) map[string][]rules.Info {
	grouped := make(map[string][]rules.Info)
	for _, info := range infos {
		grouped[info.Group] = append(grouped[info.Group], info)
	}
	for group := range grouped {
		sort.Slice(grouped[group], func(i, j int) bool {
			return grouped[group][i].ID < grouped[group][j].ID
		})
	}
	return grouped
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, info rules.Info) {
	anchor := strings.ToLower(strings.ReplaceAll(info.ID, ".", "-"))
	w.Line(fmt.Sprintf("### %s {#%s}", info.ID, anchor))
	w.Newline()
	w.Line(fmt.Sprintf("**Kind:** %s", InlineCode(string(info.Kind))))
	w.Newline()
	if info.Description != "" {
		w.Paragraph(cleanDescription(info.Description))
	}

	if info.Kind == rules.KindPreConfigured {
		w.Header(4, "Configuration")
		w.CodeBlock("yaml", fmt.Sprintf("rules:\n  preConfiguredRules:\n    - %s", info.ID))
	} else {
		w.Header(4, "Checks")
		rows := make([][]string, 0, len(info.Checks))
		for _, c := range info.Checks {
			rows = append(rows, []string{InlineCode(c.Name), cleanDescription(c.Description)})
		}
		w.Table([]string{"Check", "Description"}, rows)

		w.Header(4, "Configuration")
		example := fmt.Sprintf("rules:\n  configurableRules:\n    - rule: %s", info.ID)
		if len(info.Checks) > 0 {
			example += fmt.Sprintf("\n      checks: [%s]", info.Checks[0].Name)
		}
		w.CodeBlock("yaml", example)
	}

	w.Line("---")
	w.Newline()
}
