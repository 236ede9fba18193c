package commands

import (
	"log/slog"
	"net/http"

	"ratingsexporter/lib/netflix/credential"
	"ratingsexporter/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	loginNetflixID    *string
	loginSecureID     *string
	loginCookieHeader *string
)

func init() {
	loginNetflixID = loginCmd.Flags().String(
		"netflix-id", "", "The NetflixId cookie value.")
	loginSecureID = loginCmd.Flags().String(
		"secure-netflix-id", "", "The SecureNetflixId cookie value.")
	loginCookieHeader = loginCmd.Flags().String(
		"cookie-header", "",
		"A raw Cookie header copied from an authenticated browser session; the two session cookies are harvested from it.")
	rootCmd.AddCommand(loginCmd)
}

// harvestHeader extracts the session cookies out of a raw Cookie header.
func harvestHeader(header string) (credential.Credential, error) {
	request := http.Request{Header: http.Header{"Cookie": []string{header}}}
	return credential.FromCookies(request.Cookies())
}

var loginCmd = &cobra.Command{
	Use:   "login [--netflix-id <id> --secure-netflix-id <id>] [--cookie-header <header>]",
	Short: "Stores the Netflix session cookies for later commands.",
	Run: func(cmd *cobra.Command, args []string) {
		var cred credential.Credential
		if *loginCookieHeader != "" {
			var err error
			cred, err = harvestHeader(*loginCookieHeader)
			if err != nil {
				serviceutil.Fatal("failed to harvest cookies from header", err)
			}
		} else {
			cred = credential.Credential{
				NetflixID:       *loginNetflixID,
				SecureNetflixID: *loginSecureID,
			}
			if !cred.Valid() {
				serviceutil.Fatal(
					"both --netflix-id and --secure-netflix-id are required without --cookie-header",
					nil,
				)
			}
		}

		store, db := openStore()
		defer db.Close()

		err := store.Store(cmd.Context(), &cred)
		if err != nil {
			serviceutil.Fatal("failed to store credential", err)
		}
		slog.Info("credential stored", "db", *dbPath)
	},
}
