package ratings

import (
	"slices"
	"strings"

	"ratingsexporter/lib/textutil"

	"github.com/antzucaro/matchr"
)

// minSearchSimilarity cuts off fuzzy matches that share little beyond a
// few characters with the query.
const minSearchSimilarity = 0.8

// SearchMatch pairs an item with its title similarity to a query.
type SearchMatch struct {
	Item       RatingItem
	Similarity float64
}

// SearchItems ranks items by title similarity to the query, descending.
// Titles containing the query as a substring score a flat 1 so exact
// fragments always outrank fuzzy hits. At most limit matches are returned
// when limit is positive.
func SearchItems(items []RatingItem, query string, limit int) []SearchMatch {
	query = textutil.NormalizeName(query)
	if query == "" {
		return nil
	}

	var matches []SearchMatch
	for _, item := range items {
		title := textutil.NormalizeName(item.Title)

		similarity := matchr.JaroWinkler(query, title, false)
		if strings.Contains(title, query) {
			similarity = 1
		}
		if similarity < minSearchSimilarity {
			continue
		}
		matches = append(matches, SearchMatch{Item: item, Similarity: similarity})
	}

	slices.SortFunc(matches, func(a, b SearchMatch) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		default:
			return strings.Compare(a.Item.Title, b.Item.Title)
		}
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
