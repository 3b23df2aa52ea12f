package tagfmt

// PrettyOpts configures pretty-printing of tagging results.
type PrettyOpts struct {
	Color bool
	// ShowScore appends the sequence log-probability after each
	// sentence.
	ShowScore bool
}
