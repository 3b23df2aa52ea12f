package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
)

func colorCmd(t *testing.T, mode string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "langid"}
	cmd.PersistentFlags().String("color", "auto", "")
	if err := cmd.PersistentFlags().Set("color", mode); err != nil {
		t.Fatalf("failed to set color flag: %v", err)
	}
	return cmd
}

func TestResolveUseColor(t *testing.T) {
	var buf bytes.Buffer
	// auto must inspect the writer the output goes to, not the process
	// stdout, so a redirected buffer never gets color.
	if resolveUseColor(colorCmd(t, "auto"), &buf) {
		t.Error("auto resolved to color for a buffer writer")
	}
	if !resolveUseColor(colorCmd(t, "on"), &buf) {
		t.Error("on did not force color")
	}
	if resolveUseColor(colorCmd(t, "off"), os.Stdout) {
		t.Error("off did not disable color")
	}
}
