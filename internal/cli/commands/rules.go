package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/archgate/internal/cli/output"
	"github.com/leapstack-labs/archgate/internal/rulepack"
	"github.com/leapstack-labs/archgate/pkg/rules"
	_ "github.com/leapstack-labs/archgate/pkg/rules/builtin" // register built-in rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Kind    string // Filter by kind: preconfigured, configurable
	Verbose bool   // Show check descriptions
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available architecture rules",
		Long: `List registered architecture rules, or show one rule in detail.

Pre-configured rules are enabled by id under rules.preConfiguredRules.
Configurable rules expose named checks that are selected under
rules.configurableRules. A rule pack path (.yaml, .yml or .star) shows the
checks the pack defines.`,
		Example: `  # List all rules
  archgate rules

  # Show the checks of a configurable rule
  archgate rules builtin.Layering

  # Show the checks of a rule pack
  archgate rules rules/layers.star

  # Only configurable rules, as JSON
  archgate rules --kind configurable --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Filter by kind: preconfigured, configurable")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show check descriptions")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(rules.KindPreConfigured), string(rules.KindConfigurable)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func rulesRenderer(cmd *cobra.Command, opts *RulesOptions) (*output.Renderer, error) {
	cc := NewCommandContext(cmd)
	if opts.Format == "" {
		return cc.Renderer, nil
	}
	mode, err := output.ParseMode(opts.Format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}

	infos := filterRules(rules.Default().All(), opts)
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].Group != infos[j].Group {
			return infos[i].Group < infos[j].Group
		}
		return infos[i].ID < infos[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{Rules: infos, Count: len(infos)})
	default:
		listRulesTable(r, infos, opts.Verbose)
		return nil
	}
}

func filterRules(infos []rules.Info, opts *RulesOptions) []rules.Info {
	if opts.Group == "" && opts.Kind == "" {
		return infos
	}
	var filtered []rules.Info
	for _, info := range infos {
		if opts.Group != "" && info.Group != opts.Group {
			continue
		}
		if opts.Kind != "" && string(info.Kind) != opts.Kind {
			continue
		}
		filtered = append(filtered, info)
	}
	return filtered
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []rules.Info `json:"rules"`
	Count int          `json:"count"`
}

func listRulesTable(r *output.Renderer, infos []rules.Info, verbose bool) {
	title := cases.Title(language.English)
	r.Header(1, fmt.Sprintf("Architecture Rules (%d)", len(infos)))

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		row := []string{info.ID, title.String(info.Group), string(info.Kind), checkNames(info)}
		if verbose {
			row = append(row, info.Description)
		}
		rows = append(rows, row)
	}
	header := []string{"ID", "Group", "Kind", "Checks"}
	if verbose {
		header = append(header, "Description")
	}
	r.Table(header, rows)
	r.Muted("Use 'archgate rules <rule-id>' for the checks of a rule")
}

func checkNames(info rules.Info) string {
	if info.Kind == rules.KindPreConfigured {
		return "-"
	}
	names := make([]string, len(info.Checks))
	for i, c := range info.Checks {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

func lookupRule(cc *CommandContext, id string) (rules.Info, error) {
	if rulepack.IsPackID(id) {
		p, err := cc.Resolver.ResolveProvider(id)
		if err != nil {
			return rules.Info{}, err
		}
		return rules.ProviderInfo(p), nil
	}
	reg := rules.Default()
	if rule, ok := reg.Rule(id); ok {
		return rules.RuleInfo(rule), nil
	}
	if p, ok := reg.Provider(id); ok {
		return rules.ProviderInfo(p), nil
	}
	return rules.Info{}, fmt.Errorf("rule %q not found", id)
}

func showRule(cmd *cobra.Command, id string, opts *RulesOptions) error {
	r, err := rulesRenderer(cmd, opts)
	if err != nil {
		return err
	}
	info, err := lookupRule(NewCommandContext(cmd), id)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		showRuleMarkdown(r, info)
	default:
		showRuleText(r, info)
	}
	return nil
}

func showRuleText(r *output.Renderer, info rules.Info) {
	styles := r.Styles()
	title := cases.Title(language.English)

	r.Println("")
	r.Println(styles.Header1.Render(info.ID))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), info.Kind)
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), title.String(info.Group))
	if info.Description != "" {
		r.Println("")
		r.Println("  " + info.Description)
	}
	r.Println("")

	if info.Kind == rules.KindConfigurable {
		r.Println(styles.Bold.Render("Checks"))
		for _, c := range info.Checks {
			r.Printf("  %s  %s\n", styles.RuleID.Render(c.Name), styles.Muted.Render(c.Description))
		}
		r.Println("")
	}
}

func showRuleMarkdown(r *output.Renderer, info rules.Info) {
	title := cases.Title(language.English)

	r.Printf("# %s\n\n", info.ID)
	r.Printf("**Kind:** %s | **Group:** %s\n\n", info.Kind, title.String(info.Group))
	if info.Description != "" {
		r.Println(info.Description)
		r.Println("")
	}
	if info.Kind == rules.KindConfigurable {
		r.Println("## Checks")
		r.Println("")
		for _, c := range info.Checks {
			r.Printf("- `%s` %s\n", c.Name, c.Description)
		}
		r.Println("")
	}
}
