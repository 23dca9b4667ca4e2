package render

// Label text sits 4px in from the tile's left edge; the first baseline is
// 13px below the top and each further line 10px lower.
const (
	LabelX          = 4.0
	LabelFirstLine  = 13.0
	LabelLineHeight = 10.0
)

// LabelLine is one line of a tile label, positioned relative to the tile.
type LabelLine struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SplitLabel breaks a name into display lines before every uppercase letter
// that is followed by a non-uppercase character. Acronyms stay together and
// the name is never split at its first character:
//
//	SplitLabel("XboxOne")      // ["Xbox" "One"]
//	SplitLabel("PlayStation4") // ["Play" "Station4"]
//	SplitLabel("NBA2K17")      // ["NB" "A2" "K17"]
//
// Other characters, including spaces, are kept as they are.
func SplitLabel(name string) []string {
	runes := []rune(name)
	var out []string
	start := 0
	for i := 1; i+1 < len(runes); i++ {
		if isUpper(runes[i]) && !isUpper(runes[i+1]) {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	return append(out, string(runes[start:]))
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// LabelLines splits name with SplitLabel and stacks the lines.
func LabelLines(name string) []LabelLine {
	parts := SplitLabel(name)
	lines := make([]LabelLine, len(parts))
	for i, p := range parts {
		lines[i] = LabelLine{Text: p, X: LabelX, Y: LabelFirstLine + float64(i)*LabelLineHeight}
	}
	return lines
}
