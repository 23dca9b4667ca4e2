package render

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/treemap"
)

func TestFade(t *testing.T) {
	tests := []struct {
		in   string
		t    float64
		want string
	}{
		{"#7f7f7f", 0.1, "#8c8c8c"},
		{"#ffffff", 0.1, "#ffffff"},
		{"#1f77b4", 0, "#1f77b4"},
		{"#1f77b4", 1, "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%v", tt.in, tt.t), func(t *testing.T) {
			got, err := Fade(tt.in, tt.t)
			if err != nil {
				t.Fatalf("Fade: %v", err)
			}
			if got != tt.want {
				t.Errorf("Fade(%q, %v) = %q, want %q", tt.in, tt.t, got, tt.want)
			}
		})
	}

	if _, err := Fade("not-a-color", 0.1); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestColorizer(t *testing.T) {
	c := NewColorizer([]string{"#000001", "#000002", "#000003"})

	got := []string{
		c.ColorOf("wii"),
		c.ColorOf("ps4"),
		c.ColorOf("wii"),
		c.ColorOf("x360"),
		c.ColorOf("gb"),
		c.ColorOf("ps4"),
	}
	want := []string{"#000001", "#000002", "#000001", "#000003", "#000001", "#000002"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"wii", "ps4", "x360", "gb"}, c.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestColorizerDistinct(t *testing.T) {
	c := DefaultColorizer()
	seen := make(map[string]string)
	for i := range len(Category20) {
		cat := fmt.Sprintf("cat-%d", i)
		col := c.ColorOf(cat)
		if prev, ok := seen[col]; ok {
			t.Errorf("%s and %s share color %s", prev, cat, col)
		}
		seen[col] = cat
	}
	if c.ColorOf("cat-0") != c.ColorOf(fmt.Sprintf("cat-%d", len(Category20))) {
		t.Error("palette should wrap around after 20 categories")
	}
}

func TestColorizerConcurrent(t *testing.T) {
	c := DefaultColorizer()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				c.ColorOf(fmt.Sprintf("c%d", (i+j)%30))
			}
		}()
	}
	wg.Wait()
	if got := len(c.Categories()); got != 30 {
		t.Errorf("categories = %d, want 30", got)
	}
}

func TestSplitLabel(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Wii", []string{"Wii"}},
		{"XboxOne", []string{"Xbox", "One"}},
		{"PlayStation4", []string{"Play", "Station4"}},
		{"NBA2K17", []string{"NB", "A2", "K17"}},
		{"Wii Sports", []string{"Wii ", "Sports"}},
		{"GTA", []string{"GTA"}},
		{"a", []string{"a"}},
		{"", []string{""}},
		{"Pokémon Red", []string{"Pokémon ", "Red"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitLabel(tt.in)); diff != "" {
				t.Errorf("SplitLabel(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestLabelLines(t *testing.T) {
	got := LabelLines("XboxOne")
	want := []LabelLine{
		{Text: "Xbox", X: 4, Y: 13},
		{Text: "One", X: 4, Y: 23},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LabelLines mismatch (-want +got):\n%s", diff)
	}
}

func TestLegendGridPosition(t *testing.T) {
	g := DefaultLegendGrid
	tests := []struct {
		i    int
		x, y float64
	}{
		{0, 0, 0},
		{3, 420, 0},
		{4, 0, 27},
		{9, 140, 54},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.i), func(t *testing.T) {
			x, y := g.Position(tt.i)
			if x != tt.x || y != tt.y {
				t.Errorf("Position(%d) = (%v, %v), want (%v, %v)", tt.i, x, y, tt.x, tt.y)
			}
		})
	}

	if rows := g.Rows(9); rows != 3 {
		t.Errorf("Rows(9) = %d, want 3", rows)
	}
	if w, h := g.Size(5); w != 560 || h != 47 {
		t.Errorf("Size(5) = (%v, %v), want (560, 47)", w, h)
	}
}

func sampleTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	leaf := func(name, cat string, v float64) hierarchy.RawRecord {
		return hierarchy.RawRecord{Name: name, Category: cat, Value: hierarchy.Num(v)}
	}
	raw := hierarchy.RawRecord{Name: "root", Children: []hierarchy.RawRecord{
		{Name: "Wii", Children: []hierarchy.RawRecord{
			leaf("WiiSports", "Wii", 82),
			leaf("MarioKart", "Wii", 35),
		}},
		{Name: "DS", Children: []hierarchy.RawRecord{
			leaf("NewSuperMario", "DS", 30),
		}},
		{Name: "Mixed", Children: []hierarchy.RawRecord{
			leaf("Tetris", "GB", 20),
			leaf("Pong", "Wii", 5),
			leaf("Duck", "NES", 28),
		}},
	}}
	tree, err := hierarchy.Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tree.Sort()
	return tree
}

func TestBuildLegendFirstOccurrence(t *testing.T) {
	tree := sampleTree(t)
	colors := NewColorizer([]string{"#111111", "#222222", "#333333", "#444444"})
	got := BuildLegend(tree, tree.Leaves(), colors)

	// Sorted traversal: Wii (117), Mixed (53: Duck, Tetris, Pong), DS (30).
	want := []LegendEntry{
		{Category: "Wii", Color: "#111111", GridIndex: 0},
		{Category: "NES", Color: "#222222", GridIndex: 1},
		{Category: "GB", Color: "#333333", GridIndex: 2},
		{Category: "DS", Color: "#444444", GridIndex: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("legend mismatch (-want +got):\n%s", diff)
	}
}

type recorder struct {
	tiles  []string
	legend []string
}

func (r *recorder) DrawTile(t Tile) { r.tiles = append(r.tiles, t.ID) }
func (r *recorder) DrawLegendEntry(l LegendItem) { r.legend = append(r.legend, l.Category) }

func TestSceneDraw(t *testing.T) {
	tree := sampleTree(t)
	res := treemap.Layout(tree, 960, 570, 1.5)
	scene := NewScene(tree, res, WithTitle("Sales"))

	if len(scene.Tiles) != 6 {
		t.Fatalf("tiles = %d, want 6", len(scene.Tiles))
	}
	if scene.Width != 960 || scene.Height != 570 {
		t.Errorf("scene size = %vx%v, want 960x570", scene.Width, scene.Height)
	}

	var rec recorder
	scene.Draw(&rec)

	wantTiles := []string{
		"root.Wii.WiiSports", "root.Wii.MarioKart",
		"root.Mixed.Duck", "root.Mixed.Tetris", "root.Mixed.Pong",
		"root.DS.NewSuperMario",
	}
	if diff := cmp.Diff(wantTiles, rec.tiles); diff != "" {
		t.Errorf("tile order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Wii", "NES", "GB", "DS"}, rec.legend); diff != "" {
		t.Errorf("legend order mismatch (-want +got):\n%s", diff)
	}

	for _, tile := range scene.Tiles {
		for _, l := range scene.Legend {
			if l.Category == tile.Category && l.Color != tile.Color {
				t.Errorf("tile %s color %s differs from legend color %s", tile.ID, tile.Color, l.Color)
			}
		}
	}

	pong, ok := scene.Tile("root.Mixed.Pong")
	if !ok {
		t.Fatal("tile root.Mixed.Pong not found")
	}
	if pong.Width <= 0 || pong.Height <= 0 {
		t.Errorf("pong tile has no area: %+v", pong)
	}

	item := scene.Legend[2]
	if item.X != 280 || item.Y != 0 {
		t.Errorf("legend item 2 at (%v, %v), want (280, 0)", item.X, item.Y)
	}
}

func TestSceneTotals(t *testing.T) {
	tree := sampleTree(t)
	scene := NewScene(tree, treemap.Layout(tree, 960, 570, 1.5))

	totals := scene.Totals()
	if len(totals) != 4 {
		t.Fatalf("totals = %d, want 4", len(totals))
	}
	if totals[0].Category != "Wii" || totals[0].Count != 3 || totals[0].Value != 122 {
		t.Errorf("Wii totals = %+v, want 3 tiles worth 122", totals[0])
	}
}

func TestTooltip(t *testing.T) {
	tile := Tile{ID: "root.Wii.WiiSports", Name: "Wii Sports", Category: "Wii", Value: 82.53}

	shown := ShowTooltip(tile, 100, 200)
	want := Tooltip{
		Lines:     []string{"Name: Wii Sports", "Category: Wii", "Value: 82.53"},
		Value:     82.53,
		X:         110,
		Y:         170,
		Opacity:   0.9,
		Highlight: "root.Wii.WiiSports",
	}
	if diff := cmp.Diff(want, shown); diff != "" {
		t.Errorf("shown tooltip mismatch (-want +got):\n%s", diff)
	}
	if !shown.Visible() {
		t.Error("shown tooltip should be visible")
	}

	hidden := HideTooltip()
	if hidden.Visible() || hidden.Highlight != "" {
		t.Errorf("hidden tooltip = %+v, want invisible without highlight", hidden)
	}
}
