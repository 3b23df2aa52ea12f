package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"langid/internal/config"
	"langid/internal/driver"
	"langid/internal/observ"
)

var trainCmd = &cobra.Command{
	Use:   "train [flags]",
	Short: "Train language models from frequency lexicons",
	Long:  `Train builds a word-unigram plus character n-gram model for every language listed in langid.toml and stores the models in the model directory`,
	Args:  cobra.NoArgs,
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().String("config", "", "path to langid.toml (default: search upward from the working directory)")
	trainCmd.Flags().Int("order", 0, "override the character n-gram order")
	trainCmd.Flags().Float64("smoothing", -1, "override the add-lambda smoothing constant")
	trainCmd.Flags().Int64("min-count", -1, "override the minimum word count")
}

func runTrain(cmd *cobra.Command, args []string) error {
	manifest, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	if err := applyTrainOverrides(cmd, manifest); err != nil {
		return err
	}

	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	timer := observ.NewTimer()
	done := timer.Phase("train")
	results, err := driver.TrainAll(cmd.Context(), manifest, jobs)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	done(fmt.Sprintf("%d languages", len(results)))

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Tag, res.Err)
			continue
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d words, %d ngrams, %d tokens -> %s\n",
				res.Tag, res.Words, res.Ngrams, res.Tokens, res.Path)
		}
	}

	if showTimings(cmd) {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d languages failed to train", failed, len(results))
	}
	return nil
}

func loadManifest(cmd *cobra.Command) (*config.Manifest, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no %s found\nplease pass --config or run inside a project directory", config.ManifestName)
		}
		path = found
	}
	return config.Load(path)
}

func applyTrainOverrides(cmd *cobra.Command, manifest *config.Manifest) error {
	if cmd.Flags().Changed("order") {
		order, err := cmd.Flags().GetInt("order")
		if err != nil {
			return fmt.Errorf("failed to get order flag: %w", err)
		}
		manifest.Config.Model.Order = order
	}
	if cmd.Flags().Changed("smoothing") {
		smoothing, err := cmd.Flags().GetFloat64("smoothing")
		if err != nil {
			return fmt.Errorf("failed to get smoothing flag: %w", err)
		}
		manifest.Config.Model.Smoothing = smoothing
	}
	if cmd.Flags().Changed("min-count") {
		minCount, err := cmd.Flags().GetInt64("min-count")
		if err != nil {
			return fmt.Errorf("failed to get min-count flag: %w", err)
		}
		manifest.Config.Model.MinWordCount = minCount
	}
	return nil
}

func showTimings(cmd *cobra.Command) bool {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	return err == nil && timings
}
