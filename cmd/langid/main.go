package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"langid/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "langid",
	Short: "Word-level language identification",
	Long:  `langid trains per-language statistical models from frequency lexicons and tags each word of a sentence with its most likely language`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("jobs", 0, "maximum parallel workers (0 = number of CPUs)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// resolveUseColor applies the --color flag against the stream the
// output will actually be written to. A redirected writer is never a
// terminal, so auto resolves to off for anything but an *os.File.
func resolveUseColor(cmd *cobra.Command, w io.Writer) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	if colorFlag == "on" {
		return true
	}
	if colorFlag != "auto" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
