package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingList_Value(t *testing.T) {
	t.Run("encodes as JSON array", func(t *testing.T) {
		value, err := RatingList{4.5, 4.2}.Value()
		require.NoError(t, err)
		assert.Equal(t, "[4.5,4.2]", value)
	})

	t.Run("nil encodes as empty array", func(t *testing.T) {
		var ratings RatingList
		value, err := ratings.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", value)
	})
}

func TestRatingList_Scan(t *testing.T) {
	t.Run("from string", func(t *testing.T) {
		var ratings RatingList
		require.NoError(t, ratings.Scan("[4.5,4.2]"))
		assert.Equal(t, RatingList{4.5, 4.2}, ratings)
	})

	t.Run("from bytes", func(t *testing.T) {
		var ratings RatingList
		require.NoError(t, ratings.Scan([]byte("[5]")))
		assert.Equal(t, RatingList{5}, ratings)
	})

	t.Run("nil and empty become empty list", func(t *testing.T) {
		var ratings RatingList
		require.NoError(t, ratings.Scan(nil))
		assert.Equal(t, RatingList{}, ratings)

		require.NoError(t, ratings.Scan(""))
		assert.Equal(t, RatingList{}, ratings)
	})

	t.Run("unsupported type", func(t *testing.T) {
		var ratings RatingList
		assert.Error(t, ratings.Scan(42))
	})
}
