package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/roadwatch/pkg/api"
	"github.com/me/roadwatch/pkg/model"
)

func newSignupCmd() *cobra.Command {
	var (
		name     string
		email    string
		password string
		role     string
		lat, lon float64
		radius   float64
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a RoadWatch account",
		Long: "Create a user or admin account. Admin signup first registers the " +
			"admin's geographical area (center and radius) and links the new " +
			"account to it; regular users carry no area.",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := model.Role(role)
			if !r.Valid() {
				return fmt.Errorf("role must be %q or %q", model.RoleUser, model.RoleAdmin)
			}
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("--name, --email and --password are required")
			}

			params := api.RegisterParams{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     role,
			}

			if r == model.RoleAdmin {
				if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
					return fmt.Errorf("admin signup requires --lat and --lon for the managed area")
				}
				areaID, err := client.CreateArea(cmd.Context(), api.AreaParams{
					Name:      fmt.Sprintf("Admin Area for %s", email),
					Latitude:  lat,
					Longitude: lon,
					Radius:    radius,
				})
				if err != nil {
					return fmt.Errorf("signup: %w", err)
				}
				params.LocationArea = &areaID
			}

			result, err := client.Register(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("signup: %w", err)
			}

			if !result.Complete() {
				// Account exists but the response lacks credentials, so a
				// separate login is needed.
				fmt.Println("Account created. Please log in.")
				return nil
			}

			rt := attachRouter()
			defer rt.Close()

			sess := result.Session()
			if err := sessions.Login(cmd.Context(), sess.Token, sess.UserID, sess.Role); err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			client.SetToken(sess.Token)

			fmt.Printf("Account created; logged in as %s (%s).\n", email, result.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&role, "role", string(model.RoleUser), "Account role (user or admin)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Area center latitude (admin only)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Area center longitude (admin only)")
	cmd.Flags().Float64Var(&radius, "radius", 5, "Area radius in kilometers (admin only)")
	return cmd
}
