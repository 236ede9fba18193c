package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"ratingsexporter/lib/export"
	"ratingsexporter/lib/netflix/ratings"
	"ratingsexporter/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	exportFormat *string
	exportOut    *string
)

func init() {
	exportFormat = exportCmd.Flags().String("format", "csv", "The export format, csv or json.")
	exportOut = exportCmd.Flags().String("out", "-", "The output file, - for stdout.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--format csv|json] [--out <path>]",
	Short: "Fetches the full rating history and exports it.",
	Run: func(cmd *cobra.Command, args []string) {
		var write func(io.Writer, []ratings.RatingItem) error
		switch *exportFormat {
		case "csv":
			write = export.WriteCSV
		case "json":
			write = export.WriteJSON
		default:
			serviceutil.Fatal(fmt.Sprintf("unknown export format %q", *exportFormat), nil)
		}

		s := newSession(cmd.Context())
		api := resolveApi(cmd.Context(), s)

		start := time.Now()
		items, err := ratings.FetchAll(cmd.Context(), ratings.NewFetcher(s, api))
		if err != nil {
			serviceutil.Fatal("failed to fetch rating history", err)
		}
		slog.Info("fetched rating history",
			"ratings", len(items), "seconds", time.Since(start).Seconds())

		out := os.Stdout
		if *exportOut != "-" {
			out, err = os.Create(*exportOut)
			if err != nil {
				serviceutil.Fatal("failed to create output file", err)
			}
			defer out.Close()
		}

		err = write(out, items)
		if err != nil {
			serviceutil.Fatal("failed to write export", err)
		}
	},
}
