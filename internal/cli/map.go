package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/me/roadwatch/internal/mapview"
	"github.com/me/roadwatch/pkg/model"
)

func newMapCmd() *cobra.Command {
	var serveAddr string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Show the admin area and alert positions (admin)",
		Long: "Print the managed geographical area and every alert position " +
			"with its severity color. With --serve, host a local web page " +
			"rendering the same data on an interactive map.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireAdmin()
			if err != nil {
				return err
			}

			if serveAddr != "" {
				srv := mapview.New(client, sess.UserID, logger)
				fmt.Printf("Serving map on http://%s (Ctrl-C to stop)\n", serveAddr)
				return http.ListenAndServe(serveAddr, srv.Handler())
			}

			area, err := client.UserLocation(cmd.Context(), sess.UserID)
			if err != nil {
				return fmt.Errorf("fetch area: %w", err)
			}
			locations, err := client.AlertLocations(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch alert locations: %w", err)
			}

			fmt.Printf("Area: %s (center %.5f,%.5f, radius %.1f km)\n",
				area.Name, area.Latitude, area.Longitude, area.Radius)
			if len(locations) == 0 {
				fmt.Println("No alert positions.")
				return nil
			}
			fmt.Printf("%-6s  %-8s  %-6s  %s\n", "ID", "SEVERITY", "COLOR", "POSITION")
			for _, loc := range locations {
				sev := model.ParseSeverity(loc.SeverityLevel)
				fmt.Printf("%-6d  %-8s  %-6s  %s\n",
					loc.AlertID, sev, sev.Color(), model.MapsURL(loc.Latitude, loc.Longitude))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serveAddr, "serve", "", "Serve an interactive map on this address (e.g. 127.0.0.1:8090)")
	return cmd
}
