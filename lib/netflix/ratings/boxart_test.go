package ratings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxArtURL(t *testing.T) {
	item := RatingItem{MovieID: 70273235, Kind: RatingKindStar}

	url, ok := item.BoxArtURL(BoxArtHD)
	require.True(t, ok)
	require.Equal(t, "https://assets.nflxext.com/us/boxshots/ghd/70273235.jpg", url)

	url, ok = item.BoxArtURL(BoxArtSmall)
	require.True(t, ok)
	require.Equal(t, "https://assets.nflxext.com/us/boxshots/small/70273235.jpg", url)
}

func TestBoxArtURLThumbTitlesHaveNone(t *testing.T) {
	item := RatingItem{MovieID: 80117715, Kind: RatingKindThumb}
	_, ok := item.BoxArtURL(BoxArtLarge)
	require.False(t, ok)
}
