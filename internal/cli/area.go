package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/roadwatch/pkg/api"
)

func newAreaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Manage geographical areas",
	}
	cmd.AddCommand(newAreaCreateCmd())
	return cmd
}

func newAreaCreateCmd() *cobra.Command {
	var (
		name     string
		lat, lon float64
		radius   float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a geographical area",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
				return fmt.Errorf("--lat and --lon are required")
			}

			id, err := client.CreateArea(cmd.Context(), api.AreaParams{
				Name:      name,
				Latitude:  lat,
				Longitude: lon,
				Radius:    radius,
			})
			if err != nil {
				return fmt.Errorf("create area: %w", err)
			}

			fmt.Printf("Area %d created.\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Area name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Center latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Center longitude")
	cmd.Flags().Float64Var(&radius, "radius", 5, "Radius in kilometers")
	return cmd
}
