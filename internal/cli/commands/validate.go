package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Resolve the configured rules without running them",
		Long: `Check that every configured rule exists, that every selected check is
provided by its rule and that every scope is valid. No packages are loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			req := cc.Cfg.Request("")
			if err := cc.Engine.Validate(req); err != nil {
				return err
			}
			cc.Renderer.Success(fmt.Sprintf("Configuration is valid: %d pre-configured and %d configurable rules",
				len(req.PreConfigured), len(req.Configurable)))
			return nil
		},
	}
}
