package ratings

import "fmt"

// BoxArtSize selects a DVD box-art rendition on the asset CDN.
type BoxArtSize string

const (
	BoxArtSmall BoxArtSize = "small"
	BoxArtLarge BoxArtSize = "large"
	BoxArtHD    BoxArtSize = "ghd"
)

const dvdBoxArtFormat = "https://assets.nflxext.com/us/boxshots/%s/%d.jpg"

// BoxArtURL derives the thumbnail URL for the item. Only star-rated (DVD
// era) titles have a predictable CDN path; thumb-rated titles need their
// streaming box art resolved through the Shakti API, which happens
// elsewhere, so this returns false for them.
func (item RatingItem) BoxArtURL(size BoxArtSize) (string, bool) {
	if item.Kind != RatingKindStar {
		return "", false
	}
	return fmt.Sprintf(dvdBoxArtFormat, string(size), item.MovieID), true
}
