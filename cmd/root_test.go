package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/promptarchitect/internal/config"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	level := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(level) })

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"enhance", "serve", "tui", "config", "completion"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestNewRootCmd_LongListsOutputSections(t *testing.T) {
	root := NewRootCmd()
	for _, section := range []string{"meta", "system_instruction", "core_requirements", "features", "data_model", "ui_ux_guidelines", "execution_steps"} {
		assert.Contains(t, root.Long, section)
	}
	assert.NotContains(t, root.Long, "roadmap")
}

func TestRoot_Completion(t *testing.T) {
	out, err := executeRoot(t, "--log-level", "error", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "parch")
}

func TestRoot_ConfigLocate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnvVar, dir)

	out, err := executeRoot(t, "--log-level", "error", "config", "locate")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, config.DefaultConfigFileName))
}
