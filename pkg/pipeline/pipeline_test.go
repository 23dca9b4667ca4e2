package pipeline

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/treemap/pkg/cache"
	apperr "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/render"
)

const scenario = `{"name":"root","children":[
	{"name":"B","children":[{"name":"B1","category":"b","value":20}]},
	{"name":"A","children":[
		{"name":"A1","category":"a","value":10},
		{"name":"A2","category":"a","value":30}]}]}`

type memFetcher struct {
	docs        map[string]string
	fetches     atomic.Int32
	invalidated atomic.Int32
}

func (f *memFetcher) FetchBytes(_ context.Context, location string) ([]byte, bool, error) {
	f.fetches.Add(1)
	doc, ok := f.docs[location]
	if !ok {
		return nil, false, apperr.New(apperr.ErrCodeFetchFailed, "no dataset at %s", location)
	}
	return []byte(doc), false, nil
}

func (f *memFetcher) Invalidate(context.Context, string) error {
	f.invalidated.Add(1)
	return nil
}

func newTestRunner(t *testing.T, c cache.Cache) (*Runner, *memFetcher) {
	t.Helper()
	f := &memFetcher{docs: map[string]string{
		"sales.json": scenario,
		"bad.json":   `{"name":"root","children":[{"name":"x","category":"c","value":"abc"}]}`,
		"junk.json":  `{"name":`,
	}}
	return NewRunner(c, nil, f, nil), f
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		vizType string
		format  string
		wantErr bool
	}{
		{VizTypeTreemap, "svg", false},
		{VizTypeTreemap, "html", false},
		{VizTypeTreemap, "json", false},
		{VizTypeTreemap, "dot", false},
		{VizTypeNodelink, "svg", false},
		{VizTypeNodelink, "html", true},
		{VizTypeTreemap, "SVG", true},
		{VizTypeTreemap, "", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.vizType, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q, %q) error = %v, wantErr %v", tt.vizType, tt.format, err, tt.wantErr)
		}
		if err != nil && !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat error should carry INVALID_FORMAT, got %v", err)
		}
	}
}

func TestValidateVizType(t *testing.T) {
	for _, v := range []string{"treemap", "nodelink"} {
		if err := ValidateVizType(v); err != nil {
			t.Errorf("ValidateVizType(%q) = %v", v, err)
		}
	}
	if err := ValidateVizType("tower"); !apperr.Is(err, apperr.ErrCodeInvalidVizType) {
		t.Errorf("ValidateVizType(tower) = %v, want INVALID_VIZ_TYPE", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Source != "videogames" || opts.VizType != VizTypeTreemap {
		t.Errorf("source/viz defaults = %q/%q", opts.Source, opts.VizType)
	}
	if opts.Width != 960 || opts.Height != 570 || opts.PaddingValue() != 1.5 {
		t.Errorf("canvas defaults = %vx%v pad %v", opts.Width, opts.Height, opts.PaddingValue())
	}
	if opts.Legend != render.DefaultLegendGrid {
		t.Errorf("legend default = %+v", opts.Legend)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("formats default = %v", opts.Formats)
	}
	if opts.Title != "Video Game Sales" || opts.Description == "" {
		t.Errorf("preset title not applied: %q / %q", opts.Title, opts.Description)
	}
}

func TestOptionsExplicitZeroPadding(t *testing.T) {
	zero := 0.0
	opts := Options{Padding: &zero}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.PaddingValue() != 0 {
		t.Errorf("explicit zero padding replaced by %v", opts.PaddingValue())
	}
}

func TestOptionsValidation(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name string
		opts Options
		code apperr.Code
	}{
		{"bad viz", Options{VizType: "tower"}, apperr.ErrCodeInvalidVizType},
		{"bad format", Options{Formats: []string{"gif"}}, apperr.ErrCodeInvalidFormat},
		{"negative width", Options{Width: -5}, apperr.ErrCodeInvalidInput},
		{"negative padding", Options{Padding: &neg}, apperr.ErrCodeInvalidInput},
		{"negative scale", Options{Scale: -1}, apperr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !apperr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()

	for _, format := range []string{FormatSVG, FormatHTML, FormatPNG, FormatPDF} {
		opts.Static = false
		interactive := opts.ArtifactKeyOpts(format)
		opts.Static = true
		if static := opts.ArtifactKeyOpts(format); static == interactive {
			t.Errorf("static %s should have its own cache key", format)
		}
	}
	opts.Static = true
	if json := opts.ArtifactKeyOpts(FormatJSON); json.Format != VizTypeTreemap+"/"+FormatJSON {
		t.Errorf("json key format = %q, static does not apply", json.Format)
	}
	if png := opts.ArtifactKeyOpts(FormatPNG); png.Scale != DefaultScale {
		t.Errorf("png key scale = %v", png.Scale)
	}
}

func TestExecuteScenario(t *testing.T) {
	runner, _ := newTestRunner(t, nil)

	res, err := runner.Execute(context.Background(), Options{
		Source:  "sales.json",
		Width:   100,
		Height:  60,
		Formats: []string{FormatSVG, FormatJSON, FormatHTML, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.RunID == "" {
		t.Error("RunID should be set")
	}
	if res.Tree.Root().Value != 60 {
		t.Errorf("root value = %v, want 60", res.Tree.Root().Value)
	}
	if res.Stats.Leaves != 3 || res.Stats.Categories != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}

	var ids []string
	for _, tile := range res.Scene.Tiles {
		ids = append(ids, tile.ID)
	}
	if got := strings.Join(ids, ","); got != "root.A.A2,root.A.A1,root.B.B1" {
		t.Errorf("tile order = %s", got)
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatHTML, FormatDOT} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s missing", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"root.A" -> "root.A.A2"`) {
		t.Error("dot artifact should describe the sorted hierarchy")
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner, _ := newTestRunner(t, fc)
	ctx := context.Background()
	opts := Options{Source: "sales.json", Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should render")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should serve artifacts from cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Width = 500
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("changing the canvas should miss the artifact cache")
	}
}

func TestExecuteRefreshInvalidates(t *testing.T) {
	runner, f := newTestRunner(t, nil)
	if _, err := runner.Execute(context.Background(), Options{Source: "sales.json", Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if f.invalidated.Load() != 1 {
		t.Errorf("Invalidate called %d times, want 1", f.invalidated.Load())
	}
}

func TestExecuteErrors(t *testing.T) {
	runner, _ := newTestRunner(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code apperr.Code
	}{
		{"missing dataset", Options{Source: "nope.json"}, apperr.ErrCodeFetchFailed},
		{"undecodable", Options{Source: "junk.json"}, apperr.ErrCodeMalformedRecord},
		{"strict bad value", Options{Source: "bad.json"}, apperr.ErrCodeMalformedRecord},
		{"bad format", Options{Source: "sales.json", Formats: []string{"gif"}}, apperr.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Execute(ctx, tt.opts)
			if !apperr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteLenient(t *testing.T) {
	runner, _ := newTestRunner(t, nil)
	res, err := runner.Execute(context.Background(), Options{Source: "bad.json", Lenient: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", res.Stats.Warnings)
	}
	if res.Tree.Root().Value != 0 {
		t.Errorf("root value = %v, want 0", res.Tree.Root().Value)
	}
}

func TestExecuteNodelinkDOT(t *testing.T) {
	runner, _ := newTestRunner(t, nil)
	res, err := runner.Execute(context.Background(), Options{
		Source:   "sales.json",
		VizType:  VizTypeNodelink,
		Formats:  []string{FormatDOT},
		Detailed: true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	dot := string(res.Artifacts[FormatDOT])
	if !strings.Contains(dot, "value: 60") {
		t.Errorf("detailed dot should label the root total:\n%s", dot)
	}
	if !strings.Contains(dot, res.Scene.Legend[0].Color) {
		t.Error("leaves should reuse the tile colors")
	}
}
