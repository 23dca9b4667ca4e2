// Package pipeline runs the fetch → build → layout → render sequence shared
// by the CLI commands and the HTTP viewer.
//
// # Stages
//
//  1. Fetch: download (or read) the dataset and decode it
//  2. Build: aggregate values bottom-up and sort siblings
//  3. Layout: compute tile rectangles and the draw commands of the scene
//  4. Render: serialize the scene in the requested formats
//
// Fetched bodies and rendered artifacts are cached; building and laying out
// a few hundred records is cheap enough to redo every run.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "videogames",
//	    Formats: []string{"svg", "html"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	apperr "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/source"
	"github.com/matzehuels/treemap/pkg/treemap"
)

// Visualization types.
const (
	VizTypeTreemap  = "treemap"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeTreemap

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
)

// ValidFormats lists the formats each visualization type can produce.
var ValidFormats = map[string][]string{
	VizTypeTreemap:  {FormatSVG, FormatHTML, FormatJSON, FormatPNG, FormatPDF, FormatDOT},
	VizTypeNodelink: {FormatSVG, FormatPNG, FormatPDF, FormatDOT},
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Fetch options
	Source  string `json:"source"`
	Refresh bool   `json:"refresh,omitempty"`

	// Build options. Strict is the default; Lenient reproduces the browser
	// behaviour of treating unusable values as zero.
	Lenient bool `json:"lenient,omitempty"`

	// Layout options
	VizType string            `json:"viz_type,omitempty"`
	Width   float64           `json:"width,omitempty"`
	Height  float64           `json:"height,omitempty"`
	Padding *float64          `json:"padding,omitempty"`
	Legend  render.LegendGrid `json:"legend,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Static      bool     `json:"static,omitempty"` // omit hover styling and script from SVG
	Detailed    bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and HTTP responses.
	RunID string

	// Source is the resolved dataset location.
	Source string

	// DatasetHash is the content hash of the fetched document.
	DatasetHash string

	Tree   *hierarchy.Tree
	Layout treemap.Result
	Scene  render.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	hierarchy.Stats
	Nodes      int
	Categories int
	Bytes      int
	Warnings   int
	FetchTime  time.Duration
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DatasetHit bool // fetched body came from cache
	RenderHit  bool // every artifact came from cache
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if _, ok := ValidFormats[vizType]; !ok {
		return apperr.New(apperr.ErrCodeInvalidVizType, "invalid viz type %q (must be one of: treemap, nodelink)", vizType)
	}
	return nil
}

// ValidateFormat checks that format is valid for vizType.
func ValidateFormat(vizType, format string) error {
	valid := ValidFormats[vizType]
	if !slices.Contains(valid, format) {
		return apperr.New(apperr.ErrCodeInvalidFormat, "invalid %s format %q (must be one of: %s)",
			vizType, format, strings.Join(valid, ", "))
	}
	return nil
}

// ValidateFormats checks every format against vizType.
func ValidateFormats(vizType string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(vizType, f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.VizType, o.Formats); err != nil {
		return err
	}
	if err := apperr.ValidateDimensions(o.Width, o.Height, *o.Padding); err != nil {
		return err
	}
	if o.Legend.PerRow < 1 {
		return apperr.New(apperr.ErrCodeInvalidInput, "legend must have at least one column")
	}
	if o.Scale <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Source == "" {
		o.Source = source.DefaultPreset
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = treemap.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = treemap.DefaultHeight
	}
	if o.Padding == nil {
		p := treemap.DefaultPadding
		o.Padding = &p
	}
	if o.Legend == (render.LegendGrid{}) {
		o.Legend = render.DefaultLegendGrid
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Title == "" {
		if p, ok := source.LookupPreset(o.Source); ok {
			o.Title = p.Title
			if o.Description == "" {
				o.Description = p.Description
			}
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PaddingValue returns the inner padding, or the default when unset.
func (o *Options) PaddingValue() float64 {
	if o.Padding == nil {
		return treemap.DefaultPadding
	}
	return *o.Padding
}

// SceneKeyOpts returns cache key options for the computed scene.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		Padding:  o.PaddingValue(),
		Strict:   !o.Lenient,
		PerRow:   o.Legend.PerRow,
		RectSize: o.Legend.RectSize,
		HSpacing: o.Legend.HSpacing,
		VSpacing: o.Legend.VSpacing,
		Title:    o.Title,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: o.VizType + "/" + format}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	switch format {
	case FormatSVG, FormatHTML, FormatPNG, FormatPDF:
		if o.Static {
			k.Format += "+static"
		}
	}
	if o.Detailed && (format == FormatDOT || o.VizType == VizTypeNodelink) {
		k.Format += "+detailed"
	}
	if format == FormatHTML && o.Description != "" {
		k.Format += "+" + cache.Hash([]byte(o.Description))[:8]
	}
	return k
}
