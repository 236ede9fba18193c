package commands

import (
	"errors"
	"log/slog"

	"ratingsexporter/lib/credentialstore"
	"ratingsexporter/lib/netflix/credential"
	"ratingsexporter/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clears the stored Netflix session cookies.",
	Run: func(cmd *cobra.Command, args []string) {
		store, db := openStore()
		defer db.Close()

		err := store.Clear(cmd.Context(), &credential.Credential{})
		if errors.Is(err, credentialstore.ErrItemNotFound) {
			slog.Info("no stored credential")
			return
		}
		if err != nil {
			serviceutil.Fatal("failed to clear credential", err)
		}
		slog.Info("credential cleared", "db", *dbPath)
	},
}
