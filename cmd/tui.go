package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/karolswdev/promptarchitect/internal/clipboard"
	"github.com/karolswdev/promptarchitect/internal/form"
	"github.com/karolswdev/promptarchitect/internal/tui"
)

// newTUICmd builds the tui command
func newTUICmd() *cobra.Command {
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the prompt form in the terminal",
		Long: `Opens an interactive terminal form. Keys: tab switches fields, ctrl+s
architects the prompt, ctrl+y copies the JSON, esc or ctrl+c quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := GetProvider()
			if err != nil {
				return fmt.Errorf("failed to get service provider: %w", err)
			}
			ctrl := newTUIController(provider, cmd)

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, ctrl)
		},
	}
	tuiCmd.Flags().StringP("context", "c", "", "Prefill the project name / context field")
	tuiCmd.Flags().String("idea", "", "Prefill the idea field")
	return tuiCmd
}

// newTUIController builds the controller for a terminal session, applying
// any prefill flags.
func newTUIController(provider *Provider, cmd *cobra.Command) *form.Controller {
	ctrl := form.NewController(provider.Enhancer, clipboard.System{}, form.WithCopyReset(provider.AppConfig.CopyReset))
	if v, _ := cmd.Flags().GetString("context"); v != "" {
		ctrl.UpdateContext(v)
	}
	if v, _ := cmd.Flags().GetString("idea"); v != "" {
		ctrl.UpdateIdea(v)
	}
	return ctrl
}
