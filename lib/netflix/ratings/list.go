// Package ratings fetches and assembles a profile's movie/show rating
// history from the Shakti rating-history endpoint.
package ratings

import (
	"encoding/json"
	"fmt"
	"time"
)

// RatingKind distinguishes the two rating systems Netflix has used.
type RatingKind string

const (
	RatingKindStar  RatingKind = "star"
	RatingKindThumb RatingKind = "thumb"
)

// RatingItem is a single rated title.
//
// The numeric semantics of YourRating and IntRating are not fully
// understood: values seen in the wild can be negative or zero, so both are
// preserved exactly as the API returned them. IntRating looks like a
// tenths-scale rendering of YourRating but that is unconfirmed.
type RatingItem struct {
	MovieID uint
	Title   string
	Kind    RatingKind
	// YourRating is the decimal rating value as returned upstream.
	YourRating float64
	// IntRating is the integer rating value as returned upstream.
	IntRating int
	// DateString is the display form of the rating date.
	DateString string
	// ComparableDate orders ratings; derived from a unix timestamp which
	// may carry fractional seconds.
	ComparableDate time.Time
	// FetchTimestamp is the upstream-reported time the item was fetched.
	FetchTimestamp uint
}

// RatingsPage is one page of the rating history, immutable once parsed.
type RatingsPage struct {
	CodeName       string
	Items          []RatingItem
	TotalRatings   int
	PageIndex      int
	PageSize       int
	TrackID        uint
	TimeZoneAbbrev string
}

type itemJSON struct {
	RatingType     *string  `json:"ratingType"`
	Title          *string  `json:"title"`
	MovieID        *uint    `json:"movieID"`
	YourRating     *float64 `json:"yourRating"`
	IntRating      *int     `json:"intRating"`
	Date           *string  `json:"date"`
	Timestamp      *uint    `json:"timestamp"`
	ComparableDate *float64 `json:"comparableDate"`
}

type pageJSON struct {
	CodeName     *string    `json:"codeName"`
	RatingItems  []itemJSON `json:"ratingItems"`
	TotalRatings *int       `json:"totalRatings"`
	Page         *int       `json:"page"`
	Size         *int       `json:"size"`
	TrackID      *uint      `json:"trkid"`
	TimeZone     *string    `json:"tz"`
}

// ParsePage decodes a rating-history response. Every field of the wire
// shape is required; a missing or mistyped field is a parse error, never a
// defaulted value.
func ParsePage(data []byte) (*RatingsPage, error) {
	var raw pageJSON
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parse ratings page: %w", err)
	}

	if raw.CodeName == nil || raw.RatingItems == nil || raw.TotalRatings == nil ||
		raw.Page == nil || raw.Size == nil || raw.TrackID == nil || raw.TimeZone == nil {
		return nil, fmt.Errorf("parse ratings page: required field missing")
	}
	if len(raw.RatingItems) > *raw.Size {
		return nil, fmt.Errorf(
			"parse ratings page: %d items exceed page size %d",
			len(raw.RatingItems), *raw.Size,
		)
	}

	page := &RatingsPage{
		CodeName:       *raw.CodeName,
		TotalRatings:   *raw.TotalRatings,
		PageIndex:      *raw.Page,
		PageSize:       *raw.Size,
		TrackID:        *raw.TrackID,
		TimeZoneAbbrev: *raw.TimeZone,
		Items:          make([]RatingItem, 0, len(raw.RatingItems)),
	}

	for i, item := range raw.RatingItems {
		parsed, err := parseItem(item)
		if err != nil {
			return nil, fmt.Errorf("parse rating item %d: %w", i, err)
		}
		page.Items = append(page.Items, parsed)
	}
	return page, nil
}

func parseItem(raw itemJSON) (RatingItem, error) {
	if raw.RatingType == nil || raw.Title == nil || raw.MovieID == nil ||
		raw.YourRating == nil || raw.IntRating == nil || raw.Date == nil ||
		raw.Timestamp == nil || raw.ComparableDate == nil {
		return RatingItem{}, fmt.Errorf("required field missing")
	}

	kind := RatingKind(*raw.RatingType)
	switch kind {
	case RatingKindStar, RatingKindThumb:
	default:
		return RatingItem{}, fmt.Errorf("unknown rating type %q", *raw.RatingType)
	}

	seconds, fraction := int64(*raw.ComparableDate), *raw.ComparableDate
	nanos := int64((fraction - float64(seconds)) * float64(time.Second))

	return RatingItem{
		MovieID:        *raw.MovieID,
		Title:          *raw.Title,
		Kind:           kind,
		YourRating:     *raw.YourRating,
		IntRating:      *raw.IntRating,
		DateString:     *raw.Date,
		ComparableDate: time.Unix(seconds, nanos),
		FetchTimestamp: *raw.Timestamp,
	}, nil
}
