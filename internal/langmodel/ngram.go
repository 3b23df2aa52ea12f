package langmodel

// Default word-boundary markers. Edge n-grams carry them so that a
// word-initial "th" and a word-internal "th" count as different events.
const (
	DefaultBoundaryStart = '^'
	DefaultBoundaryEnd   = '$'
)

// Ngrams splits a word into contiguous character n-grams of length order,
// padding both ends with the boundary markers. Orders of 4 and above pad
// twice so that the first and last characters still appear in more than
// one n-gram. A word too short to fill a single n-gram yields the whole
// padded form as one (shorter) gram, which scores as unseen.
func Ngrams(word string, order int, start, end rune) []string {
	pad := 1
	if order >= 4 {
		pad = 2
	}
	runes := make([]rune, 0, len(word)+2*pad)
	for i := 0; i < pad; i++ {
		runes = append(runes, start)
	}
	runes = append(runes, []rune(word)...)
	for i := 0; i < pad; i++ {
		runes = append(runes, end)
	}
	if len(runes) < order {
		return []string{string(runes)}
	}
	grams := make([]string, 0, len(runes)-order+1)
	for i := 0; i+order <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+order]))
	}
	return grams
}
