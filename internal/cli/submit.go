package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/roadwatch/internal/device"
	"github.com/me/roadwatch/pkg/api"
	"github.com/me/roadwatch/pkg/model"
)

func newSubmitCmd() *cobra.Command {
	var (
		description string
		severity    string
		image       string
		lat, lon    float64
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a road hazard report",
		Long: "File a new report with a photo, description, severity and the " +
			"device position. Without --lat/--lon the configured device " +
			"location is used; a denied location permission blocks submission.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireAuth()
			if err != nil {
				return err
			}
			if description == "" {
				return fmt.Errorf("--description is required")
			}
			sev := model.ParseSeverity(severity)

			picker := device.FilePicker{Path: image}
			imagePath, err := picker.Pick(cmd.Context())
			if err != nil {
				if errors.Is(err, device.ErrCanceled) {
					fmt.Println("No image selected; report not submitted.")
					return nil
				}
				return fmt.Errorf("pick image: %w", err)
			}

			coords, err := currentLocation(cmd, lat, lon)
			if err != nil {
				if errors.Is(err, device.ErrPermissionDenied) {
					return fmt.Errorf("location permission denied; cannot submit a report without a position")
				}
				return fmt.Errorf("acquire location: %w", err)
			}

			err = client.SubmitReport(cmd.Context(), api.ReportSubmission{
				UserID:        sess.UserID,
				ImageURL:      imagePath,
				Description:   description,
				Latitude:      coords.Latitude,
				Longitude:     coords.Longitude,
				SeverityLevel: string(sev),
			})
			if err != nil {
				return fmt.Errorf("submit report: %w", err)
			}

			fmt.Printf("Report submitted (%s) at %.5f,%.5f.\n", sev, coords.Latitude, coords.Longitude)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "What and where the hazard is")
	cmd.Flags().StringVar(&severity, "severity", "medium", "Severity level (high, medium, low)")
	cmd.Flags().StringVar(&image, "image", "", "Path to the hazard photo")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Override report latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Override report longitude")
	return cmd
}

// currentLocation resolves the report position: explicit flags win, otherwise
// the configured device location stands in for the platform location service.
func currentLocation(cmd *cobra.Command, lat, lon float64) (device.Coordinates, error) {
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
		return device.Coordinates{Latitude: lat, Longitude: lon}, nil
	}
	provider := device.StaticLocation{
		Coords:  device.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude},
		Granted: cfg.LocationGranted,
	}
	return provider.Current(cmd.Context())
}
