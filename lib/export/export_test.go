package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ratingsexporter/lib/export"
	"ratingsexporter/lib/netflix/ratings"

	"github.com/stretchr/testify/require"
)

func sampleItems() []ratings.RatingItem {
	return []ratings.RatingItem{
		{
			MovieID:        70273235,
			Title:          "The Matrix",
			Kind:           ratings.RatingKindStar,
			YourRating:     4,
			IntRating:      40,
			DateString:     "1/2/14",
			ComparableDate: time.Unix(1388678400, 0).UTC(),
			FetchTimestamp: 1388678400,
		},
		{
			MovieID:        80117715,
			Title:          "Comma, The Movie",
			Kind:           ratings.RatingKindThumb,
			YourRating:     2,
			IntRating:      2,
			DateString:     "3/4/18",
			ComparableDate: time.Unix(1520121600, 0).UTC(),
			FetchTimestamp: 1520121600,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleItems()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "movieID", records[0][0])
	require.Equal(t,
		[]string{"70273235", "The Matrix", "star", "4", "40", "1/2/14",
			"1388678400", "2014-01-02T16:00:00Z"},
		records[1],
	)
	// the comma in the title survives the round trip
	require.Equal(t, "Comma, The Movie", records[2][1])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, sampleItems()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "The Matrix", decoded[0]["title"])
	require.Equal(t, "star", decoded[0]["ratingType"])
	require.Equal(t, 4.0, decoded[0]["yourRating"])
	require.Equal(t, "thumb", decoded[1]["ratingType"])
}

func TestWriteJSONEmptyHistoryIsAnArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, nil))
	require.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	export.RenderTable(&buf, sampleItems())

	out := buf.String()
	require.Contains(t, out, "The Matrix")
	require.Contains(t, out, "70273235")
	require.Contains(t, out, "RATED ON")
}
