package commands

import (
	"fmt"
	"os"

	"ratingsexporter/lib/netflix/shakti"
	"ratingsexporter/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Bootstraps the API and prints the active profile.",
	Run: func(cmd *cobra.Command, args []string) {
		s := newSession(cmd.Context())

		api, err := shakti.Bootstrap(cmd.Context(), s)
		if err != nil {
			serviceutil.Fatal("api bootstrap failed, the stored credential may be stale", err)
		}

		fmt.Fprintf(os.Stdout, "profile:          %s\n", api.ProfileName)
		fmt.Fprintf(os.Stdout, "guid:             %s\n", api.ProfileGUID)
		fmt.Fprintf(os.Stdout, "build identifier: %s\n", api.BuildIdentifier)
		fmt.Fprintf(os.Stdout, "api root:         %s\n", api.ApiRoot)
	},
}
