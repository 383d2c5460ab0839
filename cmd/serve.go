package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/karolswdev/promptarchitect/internal/clipboard"
	"github.com/karolswdev/promptarchitect/internal/form"
	"github.com/karolswdev/promptarchitect/internal/web"
)

// newServeCmd builds the serve command
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prompt form in the browser",
		Long: `Starts a local web server with the prompt form. Each browser gets its own
form session; idle sessions are dropped after server.session_ttl.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := GetProvider()
			if err != nil {
				return fmt.Errorf("failed to get service provider: %w", err)
			}
			addr, _ := cmd.Flags().GetString("addr")

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveRunE(ctx, provider, addr, cmd)
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	return serveCmd
}

// serveRunE wires the provider into the web server and blocks until ctx ends.
func serveRunE(ctx context.Context, provider *Provider, addr string, cmd *cobra.Command) error {
	cfg := provider.AppConfig
	if addr == "" {
		addr = cfg.Server.Addr
	}

	factory := func() *form.Controller {
		return form.NewController(provider.Enhancer, clipboard.Browser{}, form.WithCopyReset(cfg.CopyReset))
	}
	srv, err := web.NewServer(factory, web.Options{
		SessionTTL: cfg.Server.SessionTTL,
		CopyReset:  cfg.CopyReset,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Prompt Architect is running at http://%s\n", addr)
	return srv.Run(ctx, addr)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
