package planner

import (
	"reflect"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name   string
		head   map[string]string
		cached map[string]string
		want   map[string]string
	}{
		{
			name:   "empty cache builds everything",
			head:   map[string]string{"alpha": "rev1", "beta": "rev2"},
			cached: map[string]string{},
			want:   map[string]string{"alpha": "rev1", "beta": "rev2"},
		},
		{
			name:   "up to date builds nothing",
			head:   map[string]string{"alpha": "rev1", "beta": "rev2"},
			cached: map[string]string{"alpha": "rev1", "beta": "rev2"},
			want:   map[string]string{},
		},
		{
			name:   "changed revision rebuilds",
			head:   map[string]string{"alpha": "rev1b", "beta": "rev2"},
			cached: map[string]string{"alpha": "rev1", "beta": "rev2"},
			want:   map[string]string{"alpha": "rev1b"},
		},
		{
			name:   "stale cache entry for removed tool is ignored",
			head:   map[string]string{"alpha": "rev1"},
			cached: map[string]string{"alpha": "rev1", "gamma": "rev3"},
			want:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.head, tt.cached)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Plan = %v, want %v", got, tt.want)
			}
		})
	}
}
