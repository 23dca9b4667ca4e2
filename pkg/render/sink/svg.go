package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/treemap/pkg/render"
)

const tileTextCSS = `
    .tile-text { font: 10px sans-serif; pointer-events: none; }`

const tileInteractionCSS = `
    .tile { stroke: none; }
    .tile.highlight { stroke: #000; stroke-width: 1; }`

const tileInteractionJS = `
    document.querySelectorAll('.tile').forEach(el => {
      el.addEventListener('mouseenter', () => el.classList.add('highlight'));
      el.addEventListener('mouseleave', () => el.classList.remove('highlight'));
    });`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	id          string
	interactive bool
	titles      bool
}

// WithID sets the id attribute of the root svg element (default "chart").
func WithID(id string) SVGOption { return func(r *svgRenderer) { r.id = id } }

// WithoutInteraction omits the hover CSS and script. Label styling is kept.
func WithoutInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// WithoutTitles omits the per-tile <title> elements that act as native
// tooltips in standalone SVG viewers.
func WithoutTitles() SVGOption { return func(r *svgRenderer) { r.titles = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{id: "chart", interactive: true, titles: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the scene's tiles as a standalone SVG document.
func RenderSVG(s render.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		escapeXML(r.id), s.Width, s.Height, s.Width, s.Height)

	t := &svgTarget{buf: &buf, titles: r.titles}
	for _, tile := range s.Tiles {
		t.DrawTile(tile)
	}

	renderTileStyle(&buf, r.interactive)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderLegendSVG draws the scene's legend as a standalone SVG document.
func RenderLegendSVG(s render.Scene) []byte {
	w, h := legendSize(s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="legend" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <g transform=\"translate(0,%.0f)\">\n", legendOffsetY)

	t := &svgTarget{buf: &buf, grid: s.Grid}
	for _, item := range s.Legend {
		t.DrawLegendEntry(item)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

const (
	legendWidth   = 500.0
	legendOffsetY = 15.0
	legendTextX   = 5.0
	legendTextY   = 15.0
)

func legendSize(s render.Scene) (w, h float64) {
	gw, gh := s.Grid.Size(len(s.Legend))
	return max(legendWidth, gw), gh + 2*legendOffsetY
}

// svgTarget writes draw commands as SVG elements. It implements
// render.Target so a Scene can be drawn onto it directly.
type svgTarget struct {
	buf    *bytes.Buffer
	grid   render.LegendGrid
	titles bool
}

var _ render.Target = (*svgTarget)(nil)

func (t *svgTarget) DrawTile(tile render.Tile) {
	b := t.buf
	fmt.Fprintf(b, "  <g class=\"tile-group\" transform=\"translate(%.2f,%.2f)\">\n", tile.X, tile.Y)
	fmt.Fprintf(b, `    <rect id="%s" class="tile" width="%.2f" height="%.2f" fill="%s" data-name="%s" data-category="%s" data-value="%s">`,
		escapeXML(tile.ID), tile.Width, tile.Height, tile.Color,
		escapeXML(tile.Name), escapeXML(tile.Category), render.FormatValue(tile.Value))
	if t.titles {
		fmt.Fprintf(b, "<title>%s</title>", escapeXML(strings.Join(render.TooltipFor(tile), "\n")))
	}
	b.WriteString("</rect>\n")

	b.WriteString(`    <text class="tile-text">`)
	for _, l := range tile.Lines {
		fmt.Fprintf(b, `<tspan x="%.0f" y="%.0f">%s</tspan>`, l.X, l.Y, escapeXML(l.Text))
	}
	b.WriteString("</text>\n  </g>\n")
}

func (t *svgTarget) DrawLegendEntry(item render.LegendItem) {
	size := t.grid.RectSize
	fmt.Fprintf(t.buf, "    <g transform=\"translate(%.0f,%.0f)\">\n", item.X, item.Y)
	fmt.Fprintf(t.buf, `      <rect class="legend-item" width="%.0f" height="%.0f" fill="%s" data-category="%s"/>`+"\n",
		size, size, item.Color, escapeXML(item.Category))
	fmt.Fprintf(t.buf, `      <text x="%.0f" y="%.0f">%s</text>`+"\n",
		size+legendTextX, legendTextY, escapeXML(item.Category))
	t.buf.WriteString("    </g>\n")
}

func renderTileStyle(buf *bytes.Buffer, interactive bool) {
	if !interactive {
		fmt.Fprintf(buf, "  <style>%s\n  </style>\n", tileTextCSS)
		return
	}
	fmt.Fprintf(buf, "  <style>%s%s\n  </style>\n", tileTextCSS, tileInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", tileInteractionJS)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
