package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/roadwatch/pkg/model"
)

func newReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List your submitted reports",
		Long: "List the reports filed by the logged-in account. Results are " +
			"cached locally; when the server is unreachable the last cached " +
			"listing is shown instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAuth(); err != nil {
				return err
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			reports, fetchErr := client.MyReports(cmd.Context())
			if fetchErr == nil {
				if err := st.ReplaceReports(cmd.Context(), reports); err != nil {
					logger.Warn("caching reports failed", "error", err)
				}
			} else {
				logger.Warn("fetching reports failed, trying cache", "error", fetchErr)
				reports, err = st.ListReports(cmd.Context())
				if err != nil || len(reports) == 0 {
					return fmt.Errorf("list reports: %w", fetchErr)
				}
				fmt.Println("Server unreachable; showing cached reports.")
			}

			printReports(reports)
			return nil
		},
	}
}

func printReports(reports []model.Report) {
	if len(reports) == 0 {
		fmt.Println("No reports yet.")
		return
	}

	fmt.Printf("%-6s  %-8s  %-12s  %-14s  %s\n", "ID", "SEVERITY", "STATUS", "CREATED", "DESCRIPTION")
	for _, r := range reports {
		fmt.Printf("%-6d  %-8s  %-12s  %-14s  %s\n",
			r.ID, r.Severity(), r.Status, humanize.Time(r.CreatedAt), r.Description)
		fmt.Printf("        %s\n", model.MapsURL(r.Latitude, r.Longitude))
	}
}
