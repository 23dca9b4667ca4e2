package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/pipeline"
)

func TestStatsLine(t *testing.T) {
	st := pipeline.Stats{
		Stats:      hierarchy.Stats{Leaves: 3, Groups: 2, Total: 1500},
		Categories: 2,
	}

	tests := []struct {
		name     string
		stats    pipeline.Stats
		cached   bool
		contains []string
		absent   []string
	}{
		{"fresh", st, false, []string{"3 tiles", "2 groups", "2 categories", "total 1,500", iconFresh}, []string{"warnings"}},
		{"cached", st, true, []string{iconCached}, []string{iconFresh}},
		{"warnings", pipeline.Stats{Warnings: 4}, false, []string{"4 warnings"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := statsLine(tt.stats, tt.cached)
			for _, want := range tt.contains {
				if !strings.Contains(line, want) {
					t.Errorf("statsLine() = %q, missing %q", line, want)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(line, bad) {
					t.Errorf("statsLine() = %q, should not contain %q", line, bad)
				}
			}
		})
	}
}
