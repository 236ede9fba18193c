// Package export renders a fetched rating history as CSV, JSON, or a
// terminal table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"ratingsexporter/lib/netflix/ratings"

	"github.com/jedib0t/go-pretty/v6/table"
)

var csvHeader = []string{
	"movieID", "title", "ratingType", "yourRating", "intRating",
	"date", "timestamp", "comparableDate",
}

// WriteCSV writes the items with a header row. Rating values are written
// exactly as fetched.
func WriteCSV(w io.Writer, items []ratings.RatingItem) error {
	out := csv.NewWriter(w)
	err := out.Write(csvHeader)
	if err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, item := range items {
		record := []string{
			strconv.FormatUint(uint64(item.MovieID), 10),
			item.Title,
			string(item.Kind),
			strconv.FormatFloat(item.YourRating, 'f', -1, 64),
			strconv.Itoa(item.IntRating),
			item.DateString,
			strconv.FormatUint(uint64(item.FetchTimestamp), 10),
			item.ComparableDate.Format(time.RFC3339),
		}
		err = out.Write(record)
		if err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}

type jsonItem struct {
	MovieID        uint    `json:"movieID"`
	Title          string  `json:"title"`
	RatingType     string  `json:"ratingType"`
	YourRating     float64 `json:"yourRating"`
	IntRating      int     `json:"intRating"`
	Date           string  `json:"date"`
	Timestamp      uint    `json:"timestamp"`
	ComparableDate string  `json:"comparableDate"`
}

// WriteJSON writes the items as an indented JSON array.
func WriteJSON(w io.Writer, items []ratings.RatingItem) error {
	out := make([]jsonItem, 0, len(items))
	for _, item := range items {
		out = append(out, jsonItem{
			MovieID:        item.MovieID,
			Title:          item.Title,
			RatingType:     string(item.Kind),
			YourRating:     item.YourRating,
			IntRating:      item.IntRating,
			Date:           item.DateString,
			Timestamp:      item.FetchTimestamp,
			ComparableDate: item.ComparableDate.Format(time.RFC3339),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(out)
	if err != nil {
		return fmt.Errorf("write json export: %w", err)
	}
	return nil
}

// RenderTable prints the items as a rounded table.
func RenderTable(w io.Writer, items []ratings.RatingItem) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Movie ID", "Title", "Type", "Rating", "Rated On"})

	for _, item := range items {
		t.AppendRow(table.Row{
			item.MovieID,
			item.Title,
			item.Kind,
			strconv.FormatFloat(item.YourRating, 'f', -1, 64),
			item.DateString,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
