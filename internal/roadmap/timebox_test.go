package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTimeBox(t *testing.T) {
	tests := []struct {
		goal    string
		want    *TimeBox
		cleaned string
	}{
		{"Learn Go in 3 days", &TimeBox{3, "days", true}, "Learn Go"},
		{"Master Kubernetes within 2 weeks", &TimeBox{2, "weeks", false}, "Master Kubernetes"},
		{"React crash course for 6 hours!", &TimeBox{6, "hours", true}, "React crash course"},
		{"Learn Rust in 1 Day", &TimeBox{1, "days", true}, "Learn Rust"},
		{"Learn SQL in 14 days", &TimeBox{14, "days", true}, "Learn SQL"},
		{"Learn SQL in 15 days", &TimeBox{15, "days", false}, "Learn SQL"},
		{"In 3 months become a data engineer", &TimeBox{3, "months", false}, "become a data engineer"},
		{"Become a backend engineer", nil, "Become a backend engineer"},
		{"  Learn Python 3  ", nil, "Learn Python 3"},
	}
	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			tb, cleaned := ExtractTimeBox(tt.goal)
			assert.Equal(t, tt.want, tb)
			assert.Equal(t, tt.cleaned, cleaned)
		})
	}
}

func TestExtractTimeBox_OnlyDuration(t *testing.T) {
	tb, cleaned := ExtractTimeBox("3 weeks")
	require.NotNil(t, tb)
	assert.Equal(t, 3, tb.Value)
	assert.Equal(t, "3 weeks", cleaned, "an empty remainder keeps the original goal")
}
