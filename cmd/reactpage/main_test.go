package main

import (
	"testing"

	"github.com/rshade/reactpage/internal/cli"
	"github.com/rshade/reactpage/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		if version.GetVersion() == "" {
			t.Error("expected version to be non-empty")
		}
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		if root == nil {
			t.Fatal("expected root command")
		}
		if root.Name() != "reactpage" {
			t.Errorf("unexpected command name %q", root.Name())
		}
	})
}
