//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/karolswdev/promptarchitect/cmd"
	"github.com/karolswdev/promptarchitect/internal/config"
)

const testAPIKey = "integration-test-key"

// mockLLMServer creates a mock OpenAI-compatible chat completions API that
// answers every request with content. calls counts requests.
func mockLLMServer(t *testing.T, content string, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.Header.Get("Authorization") != "Bearer "+testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
			return
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) != 2 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if !strings.Contains(req.Messages[0].Content, `"meta"`) {
			http.Error(w, "system instruction missing", http.StatusBadRequest)
			return
		}
		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-integration",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

// setupTestEnvironment points PARCH_CONFIG_DIR at a temp dir holding a
// config.yaml aimed at llmURL. apiKey is exported as PARCH_API_KEY when set.
func setupTestEnvironment(t *testing.T, llmURL, apiKey string) string {
	t.Helper()
	tempDir := t.TempDir()

	configContent := fmt.Sprintf(`
llm:
  model_name: "test-model"
  base_url: "%s/v1"
copy_reset: "100ms"
`, llmURL)
	configPath := filepath.Join(tempDir, config.DefaultConfigFileName)
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("Failed to write temp config file: %v", err)
	}

	t.Setenv(config.ConfigDirEnvVar, tempDir)
	t.Setenv(config.EnvAPIKeyName, apiKey)
	t.Setenv(config.EnvAPIKeyFallback, "")
	return tempDir
}

// executeParchCommand runs the parch root command with given arguments in-process.
// It captures stdout and stderr. PARCH_CONFIG_DIR must be set first.
func executeParchCommand(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	var outBuf, errBuf bytes.Buffer
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--log-level", "debug"}, args...))

	execErr := rootCmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), execErr
}
