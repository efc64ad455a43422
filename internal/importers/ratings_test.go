package importers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRatingList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []float64
	}{
		{"bracketed csv style", "[4.5, 4.2, 4.8, 4.1, 4.6]", []float64{4.5, 4.2, 4.8, 4.1, 4.6}},
		{"bare comma separated xml style", "4.5,4.2", []float64{4.5, 4.2}},
		{"spaces around values", " 4.5 , 4.2 ", []float64{4.5, 4.2}},
		{"parentheses", "(3.0,2.5)", []float64{3.0, 2.5}},
		{"single value", "[5]", []float64{5}},
		{"empty string", "", []float64{}},
		{"empty brackets", "[]", []float64{}},
		{"trailing comma", "4.5,4.2,", []float64{4.5, 4.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings, err := ParseRatingList(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ratings)
		})
	}
}

func TestParseRatingList_Invalid(t *testing.T) {
	_, err := ParseRatingList("[4.5, abc]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []float64
		expected float64
	}{
		{"empty list defaults to zero", nil, 0},
		{"single rating", []float64{3.7}, 3.7},
		{"rounds to one decimal place", []float64{4.5, 4.2, 4.8, 4.1, 4.6}, 4.4},
		{"rounds half up", []float64{4.0, 4.5}, 4.3},
		{"whole mean", []float64{2, 4}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AverageRating(tt.ratings), 1e-9)
		})
	}
}

func TestRatingListRoundTrip(t *testing.T) {
	// CSV ratings string from a real export decodes and aggregates to 4.4.
	ratings, err := ParseRatingList("[4.5, 4.2, 4.8, 4.1, 4.6]")
	require.NoError(t, err)
	assert.Equal(t, []float64{4.5, 4.2, 4.8, 4.1, 4.6}, ratings)
	assert.InDelta(t, 4.4, AverageRating(ratings), 1e-9)
}
