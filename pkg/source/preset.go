package source

import (
	"slices"
	"strings"
)

// Preset is a named public dataset.
type Preset struct {
	Name        string
	Title       string
	Description string
	URL         string
}

// DefaultPreset is used when no dataset is configured.
const DefaultPreset = "videogames"

// Presets lists the built-in datasets.
var Presets = []Preset{
	{
		Name:        "videogames",
		Title:       "Video Game Sales",
		Description: "Top 100 Most Sold Video Games Grouped by Platform",
		URL:         "https://cdn.rawgit.com/freeCodeCamp/testable-projects-fcc/a80ce8f9/src/data/tree_map/video-game-sales-data.json",
	},
	{
		Name:        "movies",
		Title:       "Movie Sales",
		Description: "Top 100 Highest Grossing Movies Grouped By Genre",
		URL:         "https://cdn.freecodecamp.org/testable-projects-fcc/data/tree_map/movie-data.json",
	},
	{
		Name:        "kickstarter",
		Title:       "Kickstarter Pledges",
		Description: "Top 100 Most Pledged Kickstarter Campaigns Grouped By Category",
		URL:         "https://cdn.freecodecamp.org/testable-projects-fcc/data/tree_map/kickstarter-funding-data.json",
	},
}

// LookupPreset finds a preset by case-insensitive name.
func LookupPreset(name string) (Preset, bool) {
	i := slices.IndexFunc(Presets, func(p Preset) bool {
		return strings.EqualFold(p.Name, name)
	})
	if i < 0 {
		return Preset{}, false
	}
	return Presets[i], true
}

// PresetNames returns the preset names in declaration order.
func PresetNames() []string {
	names := make([]string, len(Presets))
	for i, p := range Presets {
		names[i] = p.Name
	}
	return names
}

// Resolve maps a preset name to its URL. Any other location, including the
// empty string, is returned unchanged except that "" becomes the default
// preset's URL.
func Resolve(location string) string {
	if location == "" {
		location = DefaultPreset
	}
	if p, ok := LookupPreset(location); ok {
		return p.URL
	}
	return location
}

// IsRemote reports whether a resolved location is fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
