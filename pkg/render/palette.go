package render

import (
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Category20 is the twenty-color categorical palette used for tiles.
var Category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// DefaultFade is how far each palette color is blended toward white.
const DefaultFade = 0.1

var white = colorful.Color{R: 1, G: 1, B: 1}

// Fade blends the hex color c toward white by t (0 keeps c, 1 gives white).
func Fade(c string, t float64) (string, error) {
	col, err := colorful.Hex(c)
	if err != nil {
		return "", fmt.Errorf("parse color %q: %w", c, err)
	}
	return col.BlendRgb(white, t).Clamped().Hex(), nil
}

// FadePalette applies Fade to every color of p.
func FadePalette(p []string, t float64) ([]string, error) {
	out := make([]string, len(p))
	for i, c := range p {
		faded, err := Fade(c, t)
		if err != nil {
			return nil, err
		}
		out[i] = faded
	}
	return out, nil
}

// Colorizer maps categories to palette colors. The first category asked for
// gets the first color, the second category the second color, and so on,
// wrapping around when the palette runs out. Repeated calls for the same
// category always return the same color. Colorizer is safe for concurrent use.
type Colorizer struct {
	palette []string

	mu       sync.Mutex
	assigned map[string]string
	order    []string
}

// NewColorizer returns a Colorizer over palette, used as given.
// An empty palette falls back to Category20.
func NewColorizer(palette []string) *Colorizer {
	if len(palette) == 0 {
		palette = Category20
	}
	return &Colorizer{
		palette:  palette,
		assigned: make(map[string]string),
	}
}

// NewFadedColorizer fades palette toward white by t once, then returns a
// Colorizer over the result.
func NewFadedColorizer(palette []string, t float64) (*Colorizer, error) {
	if len(palette) == 0 {
		palette = Category20
	}
	faded, err := FadePalette(palette, t)
	if err != nil {
		return nil, err
	}
	return NewColorizer(faded), nil
}

// DefaultColorizer is Category20 faded by DefaultFade.
func DefaultColorizer() *Colorizer {
	c, err := NewFadedColorizer(Category20, DefaultFade)
	if err != nil {
		// Category20 is a constant list of valid colors.
		panic(err)
	}
	return c
}

// ColorOf returns the color for category.
func (c *Colorizer) ColorOf(category string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if col, ok := c.assigned[category]; ok {
		return col
	}
	col := c.palette[len(c.order)%len(c.palette)]
	c.assigned[category] = col
	c.order = append(c.order, category)
	return col
}

// Categories returns the categories seen so far in assignment order.
func (c *Colorizer) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}
