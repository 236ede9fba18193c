// Package credential models the pair of session cookies a Netflix login
// leaves behind and turns them into a storable credential.
package credential

import (
	"fmt"
	"log/slog"
	"net/http"

	"ratingsexporter/lib/credentialstore"
)

// Cookie names a valid login is required to produce. Harvesting is strict:
// a credential missing either one is useless and is never constructed.
const (
	CookieNetflixID       = "NetflixId"
	CookieSecureNetflixID = "SecureNetflixId"
)

// Credential is the pair of session ids backing every authenticated request.
// Either field may be empty on its own, but the credential is only usable
// once both are present.
type Credential struct {
	NetflixID       string
	SecureNetflixID string
}

// Valid reports whether both session ids are present.
func (c Credential) Valid() bool {
	return c.NetflixID != "" && c.SecureNetflixID != ""
}

// FromCookies filters the cookie set down to the required names and builds
// a credential from them. It fails unless every required cookie is found.
func FromCookies(cookies []*http.Cookie) (Credential, error) {
	var c Credential
	for _, cookie := range cookies {
		switch cookie.Name {
		case CookieNetflixID:
			c.NetflixID = cookie.Value
		case CookieSecureNetflixID:
			c.SecureNetflixID = cookie.Value
		}
	}
	if !c.Valid() {
		return Credential{}, fmt.Errorf("required session cookies missing from cookie set")
	}
	return c, nil
}

// StorageItems implements credentialstore.Storable.
func (c *Credential) StorageItems() []credentialstore.Item {
	return []credentialstore.Item{
		{
			Name:        CookieNetflixID,
			Value:       c.NetflixID,
			Description: "The Netflix cookie used in requests",
		},
		{
			Name:        CookieSecureNetflixID,
			Value:       c.SecureNetflixID,
			Description: "The Secure Netflix cookie used in requests",
		},
	}
}

// RestoreItems implements credentialstore.Storable. Unknown items are
// skipped, since the store may hold items from newer credential layouts.
func (c *Credential) RestoreItems(items []credentialstore.Item) error {
	for _, item := range items {
		switch item.Name {
		case CookieNetflixID:
			c.NetflixID = item.Value
		case CookieSecureNetflixID:
			c.SecureNetflixID = item.Value
		default:
			slog.Warn("unknown credential item", "name", item.Name)
		}
	}
	if !c.Valid() {
		return fmt.Errorf("%w: restored credential is incomplete", credentialstore.ErrInvalidData)
	}
	return nil
}
