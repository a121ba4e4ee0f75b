package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("v0.0.0-test")
	require.NotNil(t, root)
	assert.Equal(t, "reactpage", root.Name())
	assert.Equal(t, "v0.0.0-test", root.Version)

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "demo")
	assert.Contains(t, names, "discord")

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

func TestSetup_InvalidConfigAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactpage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  timeoutSeconds: -5\n"), 0o600))

	root := NewRootCmd("test")
	root.SetArgs([]string{"--config", path, "discord"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeoutSeconds")
}

func TestDiscord_MissingTokenFails(t *testing.T) {
	t.Setenv("REACTPAGE_DISCORD_TOKEN", "")

	root := NewRootCmd("test")
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "discord"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	assert.ErrorIs(t, err, errNoToken)
}

func TestDemoBindings_ConfigOverrides(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	cfg.Session.NavigationEmojis = map[string]string{
		"forward": "⏩",
		"delete":  "",
	}

	bindings := demoBindings()
	assert.Equal(t, "⏩", bindings["forward"], "config override wins")
	assert.Equal(t, "◀", bindings["back"], "defaults stay for unbound actions")
	_, hasDelete := bindings["delete"]
	assert.False(t, hasDelete, "empty emoji disables the action")
}
