package sink

import (
	"encoding/json"

	"github.com/matzehuels/treemap/pkg/render"
)

// RenderJSON serializes the scene as indented JSON. The output carries the
// same draw commands the SVG renderers consume, so external tools can redraw
// the treemap without recomputing the layout.
func RenderJSON(s render.Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ParseJSON reads a scene previously written by RenderJSON.
func ParseJSON(data []byte) (render.Scene, error) {
	var s render.Scene
	err := json.Unmarshal(data, &s)
	return s, err
}
