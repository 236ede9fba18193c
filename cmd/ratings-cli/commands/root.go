package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"ratingsexporter/lib/credentialstore"
	"ratingsexporter/lib/netflix/credential"
	"ratingsexporter/lib/netflix/session"
	"ratingsexporter/lib/netflix/shakti"
	"ratingsexporter/lib/restyutil"
	"ratingsexporter/lib/serviceutil"
	"ratingsexporter/lib/sqliteutil"
	"ratingsexporter/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose         *bool
	dbPath          *string
	strictBootstrap *bool
)

func init() {
	verbose = rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false, "Enable debug logging and request dumps.")
	dbPath = rootCmd.PersistentFlags().String(
		"db", "credentials.db", "The credential database path.")
	strictBootstrap = rootCmd.PersistentFlags().Bool(
		"strict-bootstrap", false,
		"Fail instead of falling back to the pinned API version when the live bootstrap fails.")
}

var rootCmd = &cobra.Command{
	Use:   "ratings-cli",
	Short: "ratings-cli exports your Netflix rating history.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (credentialstore.SqliteStore, *sql.DB) {
	db, err := sqliteutil.OpenDB(credentialstore.Schema, *dbPath)
	if err != nil {
		serviceutil.Fatal("failed to open credential database", err)
	}
	return credentialstore.NewSqliteStore(db), db
}

// newSession restores the stored credential and builds a pinned session
// from it.
func newSession(ctx context.Context) *session.Client {
	store, db := openStore()
	defer db.Close()

	cred := &credential.Credential{}
	err := store.Restore(ctx, cred)
	if errors.Is(err, credentialstore.ErrItemNotFound) {
		serviceutil.Fatal("no stored credential, run login first", err)
	}
	if err != nil {
		serviceutil.Fatal("failed to restore credential", err)
	}

	opts := session.Options{}
	if *verbose {
		opts.InstrumentOutput = restyutil.NewFilesystemOutput(".dev/resty/netflix")
	}
	client, err := session.NewClient(*cred, opts)
	if err != nil {
		serviceutil.Fatal("failed to build netflix session", err)
	}
	return client
}

func resolveApi(ctx context.Context, s session.Session) shakti.ApiContext {
	if *strictBootstrap {
		api, err := shakti.Bootstrap(ctx, s)
		if err != nil {
			serviceutil.Fatal("api bootstrap failed", err)
		}
		return api
	}
	return shakti.Resolve(ctx, s)
}
