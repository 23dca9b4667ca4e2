package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/source"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "html", []string{"html"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG, json ,", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	videogames, _ := source.LookupPreset("videogames")

	tests := []struct {
		name     string
		output   string
		resolved string
		vizType  string
		formats  []string
		want     map[string]string
	}{
		{
			name:     "single format uses output verbatim",
			output:   "chart.out",
			resolved: "sales.json",
			vizType:  pipeline.VizTypeTreemap,
			formats:  []string{"svg"},
			want:     map[string]string{"svg": "chart.out"},
		},
		{
			name:     "dataset file name",
			resolved: "/data/sales.json",
			vizType:  pipeline.VizTypeTreemap,
			formats:  []string{"svg", "html"},
			want:     map[string]string{"svg": "sales.svg", "html": "sales.html"},
		},
		{
			name:     "output base with format extension",
			output:   "build/chart.svg",
			resolved: "sales.json",
			vizType:  pipeline.VizTypeTreemap,
			formats:  []string{"svg", "png"},
			want:     map[string]string{"svg": "build/chart.svg", "png": "build/chart.png"},
		},
		{
			name:     "preset name and viz suffix",
			resolved: videogames.URL,
			vizType:  pipeline.VizTypeNodelink,
			formats:  []string{"dot"},
			want:     map[string]string{"dot": "videogames_nodelink.dot"},
		},
		{
			name:     "remote url",
			resolved: "https://example.com/data/movies.json",
			vizType:  pipeline.VizTypeTreemap,
			formats:  []string{"json"},
			want:     map[string]string{"json": "movies.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.resolved, tt.vizType, tt.formats)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
