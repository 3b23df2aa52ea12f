package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"langid/internal/config"
	"langid/internal/driver"
	"langid/internal/modelstore"
	"langid/internal/observ"
	"langid/internal/tagfmt"
	"langid/internal/viterbi"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [flags] [sentence ...]",
	Short: "Tag each word of a sentence with its language",
	Long: `Identify loads the trained model set and assigns the most likely
language to every whitespace-delimited word of each input sentence.
Sentences come from the arguments, from --file, or from stdin`,
	RunE: runIdentify,
}

func init() {
	identifyCmd.Flags().String("models", "", "model directory (default: [model].dir from langid.toml)")
	identifyCmd.Flags().String("config", "", "path to langid.toml")
	identifyCmd.Flags().String("file", "", "read sentences from a file, one per line")
	identifyCmd.Flags().String("format", "pretty", "output format (pretty|json|tsv)")
	identifyCmd.Flags().String("method", "viterbi", "decoding method (viterbi|independent)")
	identifyCmd.Flags().Float64("stay-prob", viterbi.DefaultStayProb, "probability that adjacent words share a language")
	identifyCmd.Flags().String("start-prior", "", "start distribution over languages (lexicon|uniform)")
	identifyCmd.Flags().Bool("score", false, "print the sequence log-probability")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "tsv":
		// supported
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	sentences, err := collectSentences(cmd, args)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	doneLoad := timer.Phase("load models")
	set, stayProb, prior, err := loadModelSet(cmd)
	if err != nil {
		return err
	}
	doneLoad(fmt.Sprintf("%d languages", len(set)))

	trans, err := driver.Transition(set, stayProb, prior)
	if err != nil {
		return err
	}

	method, err := cmd.Flags().GetString("method")
	if err != nil {
		return fmt.Errorf("failed to get method flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	doneDecode := timer.Phase("decode")
	results, err := driver.IdentifyAll(cmd.Context(), set, trans, sentences, driver.IdentifyOptions{
		Method: driver.Method(method),
		Jobs:   jobs,
	})
	if err != nil {
		return fmt.Errorf("identification failed: %w", err)
	}
	doneDecode(fmt.Sprintf("%d sentences", len(results)))

	failed, err := printResults(cmd, set, results, format)
	if err != nil {
		return err
	}
	if showTimings(cmd) {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if failed == len(results) && failed > 0 {
		return fmt.Errorf("all %d sentences failed", failed)
	}
	return nil
}

// loadModelSet resolves the model directory (flag first, manifest
// second) and loads every stored model in stable tag order. Decode
// parameters default from the manifest when one is found and the flags
// were not set.
func loadModelSet(cmd *cobra.Command) (viterbi.ModelSet, float64, viterbi.StartPrior, error) {
	dir, err := cmd.Flags().GetString("models")
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to get models flag: %w", err)
	}
	stayProb, err := cmd.Flags().GetFloat64("stay-prob")
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to get stay-prob flag: %w", err)
	}
	priorName, err := cmd.Flags().GetString("start-prior")
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to get start-prior flag: %w", err)
	}

	manifest := findOptionalManifest(cmd)
	if dir == "" {
		if manifest == nil {
			return nil, 0, 0, fmt.Errorf("no model directory: pass --models or provide %s", config.ManifestName)
		}
		dir = manifest.ModelDir()
	}
	if manifest != nil && !cmd.Flags().Changed("stay-prob") {
		stayProb = manifest.Config.Decode.StayProb
	}
	if priorName == "" {
		priorName = config.DefaultStartPrior
		if manifest != nil {
			priorName = manifest.Config.Decode.StartPrior
		}
	}

	var prior viterbi.StartPrior
	switch priorName {
	case "lexicon":
		prior = viterbi.StartLexicon
	case "uniform":
		prior = viterbi.StartUniform
	default:
		return nil, 0, 0, fmt.Errorf("unknown start prior: %s", priorName)
	}

	store, err := modelstore.Open(dir)
	if err != nil {
		return nil, 0, 0, err
	}
	langs, err := store.List()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(langs) == 0 {
		return nil, 0, 0, fmt.Errorf("no models in %s (run train first)", dir)
	}
	set, err := store.LoadSet(langs)
	if err != nil {
		return nil, 0, 0, err
	}
	return set, stayProb, prior, nil
}

// findOptionalManifest loads the manifest named by --config, or the
// nearest langid.toml, or nothing. Identify works without one as long
// as --models is given.
func findOptionalManifest(cmd *cobra.Command) *config.Manifest {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil
	}
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil || !ok {
			return nil
		}
		path = found
	}
	manifest, err := config.Load(path)
	if err != nil {
		return nil
	}
	return manifest
}

func collectSentences(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return nil, fmt.Errorf("failed to get file flag: %w", err)
	}
	in := cmd.InOrStdin()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open sentence file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		in = f
	}
	var sentences []string
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			sentences = append(sentences, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sentences: %w", err)
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences to identify")
	}
	return sentences, nil
}

// printResults renders every decoded sentence; failed sentences go to
// stderr without aborting the rest. Returns how many failed.
func printResults(cmd *cobra.Command, set viterbi.ModelSet, results []driver.SentenceResult, format string) (int, error) {
	out := cmd.OutOrStdout()
	showScore, _ := cmd.Flags().GetBool("score")
	opts := tagfmt.PrettyOpts{
		Color:     resolveUseColor(cmd, out),
		ShowScore: showScore,
	}
	styles := tagfmt.Styles(set.Languages())

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%q: %v\n", res.Input, res.Err)
			continue
		}
		var err error
		switch format {
		case "json":
			err = tagfmt.JSON(out, res.Result)
		case "tsv":
			err = tagfmt.TSV(out, res.Result)
		default:
			err = tagfmt.Pretty(out, res.Result, styles, opts)
		}
		if err != nil {
			return failed, err
		}
	}
	return failed, nil
}
