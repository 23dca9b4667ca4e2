package render

import "strconv"

// Tooltip placement relative to the pointer and its opacity when shown.
const (
	TooltipOffsetX = 10.0
	TooltipOffsetY = -30.0
	TooltipOpacity = 0.9
)

// Tooltip is the state of the single hover tooltip. Every pointer event
// replaces it wholesale, so the last event wins.
type Tooltip struct {
	Lines   []string `json:"lines,omitempty"`
	Value   float64  `json:"value"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Opacity float64  `json:"opacity"`
	// Highlight is the id of the tile drawn with a stroke, if any.
	Highlight string `json:"highlight,omitempty"`
}

// Visible reports whether the tooltip is shown.
func (t Tooltip) Visible() bool { return t.Opacity > 0 }

// TooltipFor returns the tooltip text lines for a tile.
func TooltipFor(t Tile) []string {
	return []string{
		"Name: " + t.Name,
		"Category: " + t.Category,
		"Value: " + FormatValue(t.Value),
	}
}

// TooltipPosition returns where the tooltip goes for a pointer at
// (pageX, pageY).
func TooltipPosition(pageX, pageY float64) (x, y float64) {
	return pageX + TooltipOffsetX, pageY + TooltipOffsetY
}

// ShowTooltip is the tooltip state after the pointer moves over t.
func ShowTooltip(t Tile, pageX, pageY float64) Tooltip {
	x, y := TooltipPosition(pageX, pageY)
	return Tooltip{
		Lines:     TooltipFor(t),
		Value:     t.Value,
		X:         x,
		Y:         y,
		Opacity:   TooltipOpacity,
		Highlight: t.ID,
	}
}

// HideTooltip is the tooltip state after the pointer leaves a tile.
func HideTooltip() Tooltip { return Tooltip{} }

// FormatValue prints a value with the fewest digits that round-trip.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
