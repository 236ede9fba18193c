package commands

import (
	"fmt"
	"os"

	"ratingsexporter/lib/export"
	"ratingsexporter/lib/netflix/ratings"
	"ratingsexporter/lib/serviceutil"

	"github.com/spf13/cobra"
)

var listPage *uint

func init() {
	listPage = listCmd.Flags().Uint("page", 0, "The rating history page to print.")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [--page N]",
	Short: "Prints one page of the rating history.",
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession(cmd.Context())
		api := resolveApi(cmd.Context(), s)

		fetcher := ratings.NewFetcher(s, api)
		page, err := ratings.FetchOne(cmd.Context(), fetcher, *listPage)
		if err != nil {
			serviceutil.Fatal("failed to fetch ratings page", err)
		}

		export.RenderTable(os.Stdout, page.Items)

		totalPages := 0
		if page.PageSize > 0 {
			totalPages = (page.TotalRatings + page.PageSize - 1) / page.PageSize
		}
		fmt.Printf("page %d of %d, %d ratings total\n",
			page.PageIndex+1, totalPages, page.TotalRatings)
	},
}
