package sink

import (
	"context"

	"github.com/matzehuels/treemap/pkg/render"
)

// RenderPDF renders the chart as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s render.Scene, opts ...SVGOption) ([]byte, error) {
	svg := RenderSVG(s, append([]SVGOption{WithoutInteraction()}, opts...)...)
	return render.ToPDF(ctx, svg)
}
