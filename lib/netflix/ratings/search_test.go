package ratings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func searchCorpus() []RatingItem {
	return []RatingItem{
		{MovieID: 1, Title: "The Matrix"},
		{MovieID: 2, Title: "The Matrix Reloaded"},
		{MovieID: 3, Title: "Stranger Things"},
		{MovieID: 4, Title: "Mad Men"},
	}
}

func TestSearchItemsSubstringOutranksFuzzy(t *testing.T) {
	matches := SearchItems(searchCorpus(), "matrix", 0)
	require.GreaterOrEqual(t, len(matches), 2)
	require.Equal(t, "The Matrix", matches[0].Item.Title)
	require.Equal(t, "The Matrix Reloaded", matches[1].Item.Title)
	require.Equal(t, 1.0, matches[0].Similarity)
}

func TestSearchItemsFuzzyMatch(t *testing.T) {
	// close misspelling still finds the title
	matches := SearchItems(searchCorpus(), "stranger thing", 1)
	require.Len(t, matches, 1)
	require.Equal(t, "Stranger Things", matches[0].Item.Title)
}

func TestSearchItemsNormalizesQuery(t *testing.T) {
	matches := SearchItems(searchCorpus(), "  MAD   MEN  ", 0)
	require.NotEmpty(t, matches)
	require.Equal(t, "Mad Men", matches[0].Item.Title)
}

func TestSearchItemsEmptyQuery(t *testing.T) {
	require.Nil(t, SearchItems(searchCorpus(), "   ", 0))
}

func TestSearchItemsLimit(t *testing.T) {
	matches := SearchItems(searchCorpus(), "the matrix", 1)
	require.Len(t, matches, 1)
}
