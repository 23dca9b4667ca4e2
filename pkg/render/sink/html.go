package sink

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/matzehuels/treemap/pkg/render"
)

// HTMLOption configures RenderHTML.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title       string
	description string
	chartOpts   []SVGOption
}

// WithTitle sets the page heading. It defaults to the scene title.
func WithTitle(title string) HTMLOption { return func(r *htmlRenderer) { r.title = title } }

// WithDescription sets the line shown under the heading.
func WithDescription(d string) HTMLOption { return func(r *htmlRenderer) { r.description = d } }

// WithChartOptions passes SVG options to the embedded chart, for example
// WithoutInteraction for a static page.
func WithChartOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.chartOpts = append(r.chartOpts, opts...) }
}

// RenderHTML renders a standalone page holding the chart, the legend and a
// tooltip that follows the pointer.
func RenderHTML(s render.Scene, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: s.Title}
	for _, opt := range opts {
		opt(&r)
	}
	if r.title == "" {
		r.title = "Treemap"
	}

	data := struct {
		Title          string
		Description    string
		Chart          template.HTML
		Legend         template.HTML
		OffsetX        float64
		OffsetY        float64
		TooltipOpacity float64
	}{
		Title:          r.title,
		Description:    r.description,
		Chart:          template.HTML(RenderSVG(s, append([]SVGOption{WithoutTitles()}, r.chartOpts...)...)),
		Legend:         template.HTML(RenderLegendSVG(s)),
		OffsetX:        render.TooltipOffsetX,
		OffsetY:        render.TooltipOffsetY,
		TooltipOpacity: render.TooltipOpacity,
	}

	tmpl, err := template.New("treemap").Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 2em; }
        #title { font-size: 2em; margin-bottom: 0.2em; }
        #description { color: #555; margin-top: 0; }
        #tooltip {
            position: absolute;
            pointer-events: none;
            opacity: 0;
            padding: 6px 8px;
            background: rgba(255, 255, 204, 0.95);
            border: 1px solid #999;
            border-radius: 4px;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <h1 id="title">{{.Title}}</h1>
    {{if .Description}}<p id="description">{{.Description}}</p>{{end}}
    {{.Chart}}
    {{.Legend}}
    <div id="tooltip"></div>
    <script>
        const tooltip = document.getElementById('tooltip');
        document.querySelectorAll('#chart .tile').forEach(tile => {
            tile.addEventListener('mousemove', e => {
                const d = tile.dataset;
                tooltip.innerHTML = '';
                ['Name: ' + d.name, 'Category: ' + d.category, 'Value: ' + d.value].forEach((line, i) => {
                    if (i > 0) tooltip.appendChild(document.createElement('br'));
                    tooltip.appendChild(document.createTextNode(line));
                });
                tooltip.setAttribute('data-value', d.value);
                tooltip.style.left = (e.pageX + {{.OffsetX}}) + 'px';
                tooltip.style.top = (e.pageY + {{.OffsetY}}) + 'px';
                tooltip.style.opacity = {{.TooltipOpacity}};
            });
            tile.addEventListener('mouseout', () => {
                tooltip.style.opacity = 0;
            });
        });
    </script>
</body>
</html>
`
