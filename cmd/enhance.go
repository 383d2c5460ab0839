package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/promptarchitect/internal/clipboard"
	"github.com/karolswdev/promptarchitect/internal/config"
	"github.com/karolswdev/promptarchitect/internal/form"
	"github.com/karolswdev/promptarchitect/internal/llm"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	hintColor    = color.New(color.FgYellow)
)

// ErrBlankIdea is returned when enhance is given no idea text.
var ErrBlankIdea = errors.New("an idea is required")

// errorRecorder remembers the enhancer's last error so the command can
// explain it. The form itself only keeps the display message.
type errorRecorder struct {
	form.Enhancer
	err error
}

func (r *errorRecorder) Enhance(ctx context.Context, composedPrompt string) (string, error) {
	out, err := r.Enhancer.Enhance(ctx, composedPrompt)
	r.err = err
	return out, err
}

// --- Command Runner ---

// enhanceCmdRunner holds the dependencies for the enhance command.
type enhanceCmdRunner struct {
	enhancer  form.Enhancer
	clipboard form.Clipboard
	copyReset time.Duration
}

// newEnhanceCmdRunner creates a runner, fetching dependencies from the central Provider.
func newEnhanceCmdRunner() (*enhanceCmdRunner, error) {
	provider, err := GetProvider()
	if err != nil {
		Log.Error().Err(err).Msg("Failed to initialize dependency provider in newEnhanceCmdRunner")
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	return &enhanceCmdRunner{
		enhancer:  provider.Enhancer,
		clipboard: clipboard.System{},
		copyReset: provider.AppConfig.CopyReset,
	}, nil
}

// NewEnhanceCmdRunnerForTest creates a runner with explicitly provided dependencies for testing.
func NewEnhanceCmdRunnerForTest(enhancer form.Enhancer, clip form.Clipboard) *enhanceCmdRunner {
	return &enhanceCmdRunner{enhancer: enhancer, clipboard: clip, copyReset: form.DefaultCopyReset}
}

// Run executes the enhance command: one submit through the form, then output.
func (r *enhanceCmdRunner) Run(cmd *cobra.Command, args []string) error {
	idea, err := readIdea(cmd, args)
	if err != nil {
		return err
	}
	projectContext, _ := cmd.Flags().GetString("context")
	doCopy, _ := cmd.Flags().GetBool("copy")
	format, _ := cmd.Flags().GetString("output")

	recorder := &errorRecorder{Enhancer: r.enhancer}
	ctrl := form.NewController(recorder, r.clipboard, form.WithCopyReset(r.copyReset))
	defer ctrl.Close()

	ctrl.UpdateContext(projectContext)
	ctrl.UpdateIdea(idea)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	Log.Debug().Int("idea_len", len(idea)).Bool("has_context", strings.TrimSpace(projectContext) != "").Msg("Submitting idea")
	if !ctrl.Submit(ctx) {
		errorColor.Fprintln(cmd.ErrOrStderr(), "Error: an idea is required.")
		return ErrBlankIdea
	}

	state := ctrl.State()
	if state.Phase() == form.PhaseFailed {
		reportEnhanceError(cmd.ErrOrStderr(), state.Error, recorder.err)
		if recorder.err != nil {
			return recorder.err
		}
		return errors.New(state.Error)
	}

	if err := writeSpec(cmd.OutOrStdout(), state.Result, format); err != nil {
		return err
	}

	if doCopy && ctrl.CopyResult() {
		successColor.Fprintln(cmd.ErrOrStderr(), "Specification copied to clipboard.")
	}
	return nil
}

// readIdea joins the arguments, or reads stdin when there are none or the only one is "-".
func readIdea(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read idea from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// reportEnhanceError prints the form's message plus guidance for the cause.
func reportEnhanceError(w io.Writer, message string, cause error) {
	errorColor.Fprintf(w, "Error: %s\n", message)
	switch {
	case errors.Is(cause, llm.ErrMissingCredential):
		hintColor.Fprintf(w, "Store a key with 'parch config set-key <your-key>' or set %s / %s.\n", config.EnvAPIKeyName, config.EnvAPIKeyFallback)
	case errors.Is(cause, llm.ErrEmptyResponse):
		hintColor.Fprintln(w, "The model returned no text. Try again or rephrase the idea.")
	case errors.Is(cause, llm.ErrLLMCompletion):
		hintColor.Fprintf(w, "The API call failed: %v\n", errors.Unwrap(cause))
		hintColor.Fprintln(w, "Check your network connection and the llm.base_url / llm.model_name settings ('parch config show').")
	case cause == nil:
		hintColor.Fprintln(w, "The enhancer stopped unexpectedly. Run with --log-level debug for details.")
	}
}

// writeSpec prints the result as-is (text), indented (json) or converted (yaml).
func writeSpec(w io.Writer, result, format string) error {
	switch format {
	case "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(result), "", "  "); err != nil {
			Log.Warn().Err(err).Msg("Result is not valid JSON, printing as returned")
			fmt.Fprintln(w, result)
			return nil
		}
		fmt.Fprintln(w, buf.String())
	case "yaml":
		var doc any
		if err := json.Unmarshal([]byte(result), &doc); err != nil {
			return fmt.Errorf("result is not valid JSON and cannot be converted to YAML: %w", err)
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to format result as YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
	default:
		fmt.Fprintln(w, result)
	}
	return nil
}

// --- Cobra Command Definition ---

// newEnhanceCmd builds the enhance command. Dependencies are resolved when it runs.
func newEnhanceCmd() *cobra.Command {
	enhanceCmd := &cobra.Command{
		Use:   "enhance [idea...]",
		Short: "Expand an idea into a JSON specification",
		Long: `Sends the idea (and optional project context) to the configured model
and prints the resulting JSON specification. With no arguments, or "-", the
idea is read from stdin.`,
		Example: `  parch enhance "a todo app with reminders"
  parch enhance --context "E-commerce Store" "sell used books" -o yaml
  echo "a habit tracker" | parch enhance --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newEnhanceCmdRunner()
			if err != nil {
				return err
			}
			return runner.Run(cmd, args)
		},
	}
	addEnhanceFlags(enhanceCmd)
	return enhanceCmd
}

func addEnhanceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("context", "c", "", "Project name or context to frame the idea")
	cmd.Flags().Bool("copy", false, "Copy the specification to the system clipboard")
}
