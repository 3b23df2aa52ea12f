package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"langid/internal/modelstore"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <language>",
	Short: "Show statistics of a stored language model",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("models", "", "model directory (default: [model].dir from langid.toml)")
	inspectCmd.Flags().String("config", "", "path to langid.toml")
}

func runInspect(cmd *cobra.Command, args []string) error {
	lang := args[0]

	dir, err := cmd.Flags().GetString("models")
	if err != nil {
		return fmt.Errorf("failed to get models flag: %w", err)
	}
	if dir == "" {
		manifest := findOptionalManifest(cmd)
		if manifest == nil {
			return fmt.Errorf("no model directory: pass --models or provide langid.toml")
		}
		dir = manifest.ModelDir()
	}

	store, err := modelstore.Open(dir)
	if err != nil {
		return err
	}
	m, found, err := store.Load(lang)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no model for %q in %s", lang, dir)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "language:        %s\n", m.Language)
	fmt.Fprintf(out, "ngram order:     %d\n", m.Order)
	fmt.Fprintf(out, "vocabulary:      %d words\n", len(m.UnigramLogProb))
	fmt.Fprintf(out, "ngram table:     %d entries\n", len(m.NgramLogProb))
	fmt.Fprintf(out, "training tokens: %d\n", m.TotalTokens)
	fmt.Fprintf(out, "case folding:    from %d runes\n", m.CaseFoldMinLen)
	fmt.Fprintf(out, "boundaries:      %c %c\n", m.BoundaryStart, m.BoundaryEnd)
	fmt.Fprintf(out, "unknown ngram:   %.4f\n", m.UnknownLogProb)
	return nil
}
