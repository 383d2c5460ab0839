package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/karolswdev/promptarchitect/internal/telemetry"
)

// version is set during build time (e.g., via ldflags)
// Default is "dev" for local development.
var version = "dev"

var (
	logLevel  string
	traceFlag bool
	// Log is the globally configured zerolog logger instance used throughout the cmd package.
	// It's initialized in rootCmd's PersistentPreRunE based on the --log-level flag.
	Log zerolog.Logger

	// traceShutdown flushes spans when --trace is set.
	traceShutdown telemetry.ShutdownFunc
)

// configureLogger sets up the global zerolog logger based on the logLevel flag.
// This is extracted to be reusable by both the package-level rootCmd and NewRootCmd.
func configureLogger(levelStr string) error {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		log.Warn().Msgf("Invalid log level '%s', defaulting to 'info'", levelStr)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	Log = log.Logger.With().Timestamp().Logger()

	Log.Debug().Msgf("Log level set to '%s'", level.String())
	return nil
}

// startTracing installs the stdout span exporter when enabled.
func startTracing(enabled bool, cmd *cobra.Command) error {
	if !enabled {
		return nil
	}
	shutdown, err := telemetry.InitTracer(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	traceShutdown = shutdown
	Log.Debug().Msg("Tracing enabled, spans are written to stderr")
	return nil
}

func stopTracing(cmd *cobra.Command, args []string) error {
	if traceShutdown == nil {
		return nil
	}
	defer func() { traceShutdown = nil }()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return traceShutdown(ctx)
}

// persistentPreRunLogic contains the logic for PersistentPreRunE, reusable by NewRootCmd.
func persistentPreRunLogic(cmd *cobra.Command, args []string) error {
	showVersion, _ := cmd.Flags().GetBool("version")
	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}
	if err := configureLogger(logLevel); err != nil {
		return err
	}
	return startTracing(traceFlag, cmd)
}

const (
	rootShort = "Prompt Architect - turn rough software ideas into structured JSON specs"
	rootLong  = `Prompt Architect (parch) takes a short software idea, plus an optional
project name or context, and asks a generative text API to expand it into a
structured JSON specification (meta, system_instruction, core_requirements,
features, data_model, ui_ux_guidelines, execution_steps).

Use it from the browser ('parch serve'), the terminal ('parch tui'), or in
scripts ('parch enhance').`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:                "parch",
	Short:              rootShort,
	Long:               rootLong,
	PersistentPreRunE:  persistentPreRunLogic,
	PersistentPostRunE: stopTracing,
	SilenceUsage:       true,
}

// Execute is the main entry point for the Cobra CLI application.
// It parses command-line arguments, executes the appropriate command (rootCmd or one of its subcommands),
// handles flag parsing, and manages error reporting. This function is typically called directly from main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if Log.GetLevel() == zerolog.Disabled {
			_ = configureLogger("info")
		}
		Log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}

// NewRootCmd creates a new instance of the root command, configured for testing or embedding.
// It mirrors the setup of the package-level rootCmd.
func NewRootCmd() *cobra.Command {
	newCmd := &cobra.Command{
		Use:   "parch",
		Short: rootShort,
		Long:  rootLong,
		// Flags are read from this instance rather than the package-level bindings.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, _ := cmd.Flags().GetString("log-level")
			showVersion, _ := cmd.Flags().GetBool("version")
			trace, _ := cmd.Flags().GetBool("trace")

			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				os.Exit(0)
			}
			if err := configureLogger(lvl); err != nil {
				return err
			}
			return startTracing(trace, cmd)
		},
		PersistentPostRunE: stopTracing,
		SilenceUsage:       true,
	}

	var instanceLogLevel string
	newCmd.PersistentFlags().StringVar(&instanceLogLevel, "log-level", "info", "Set log level (debug, info, warn, error, fatal, panic)")
	newCmd.PersistentFlags().Bool("version", false, "Show application version")
	newCmd.PersistentFlags().Bool("trace", false, "Write OpenTelemetry spans to stderr")
	newCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text|json|yaml)")

	newCmd.AddCommand(newConfigCmd())
	newCmd.AddCommand(newEnhanceCmd())
	newCmd.AddCommand(newServeCmd())
	newCmd.AddCommand(newTUICmd())
	newCmd.AddCommand(newCompletionCmd())

	return newCmd
}

// newCompletionCmd builds the completion command
func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(parch completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ parch completion bash > /etc/bash_completion.d/parch
  # macOS:
  $ parch completion bash > /usr/local/etc/bash_completion.d/parch

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ parch completion zsh > "${fpath[1]}/_parch"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ parch completion fish | source

  # To load completions for each session, execute once:
  $ parch completion fish > ~/.config/fish/completions/parch.fish

PowerShell:
  PS> parch completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> parch completion powershell > parch.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell type %q", args[0])
			}
		},
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Bool("version", false, "Show application version")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "Write OpenTelemetry spans to stderr")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text|json|yaml)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newEnhanceCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newCompletionCmd())
}
