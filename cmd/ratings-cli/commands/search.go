package commands

import (
	"fmt"
	"os"
	"strings"

	"ratingsexporter/lib/netflix/ratings"
	"ratingsexporter/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchLimit *int

func init() {
	searchLimit = searchCmd.Flags().Int("limit", 20, "The maximum number of matches to print.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-searches the rating history by title.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		s := newSession(cmd.Context())
		api := resolveApi(cmd.Context(), s)

		items, err := ratings.FetchAll(cmd.Context(), ratings.NewFetcher(s, api))
		if err != nil {
			serviceutil.Fatal("failed to fetch rating history", err)
		}

		matches := ratings.SearchItems(items, query, *searchLimit)
		if len(matches) == 0 {
			fmt.Printf("no titles matching %q\n", query)
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Movie ID", "Title", "Rating", "Similarity"})
		for _, match := range matches {
			t.AppendRow(table.Row{
				match.Item.MovieID,
				match.Item.Title,
				match.Item.YourRating,
				fmt.Sprintf("%.2f", match.Similarity),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
