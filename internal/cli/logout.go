package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sessions.Current().IsAuthenticated() {
				fmt.Println("Not logged in.")
				return nil
			}

			rt := attachRouter()
			defer rt.Close()

			sessions.Logout(cmd.Context())
			client.SetToken("")

			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := sessions.Current()
			if !sess.IsAuthenticated() {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("User %s (%s)\n", sess.UserID, sess.Role)
			return nil
		},
	}
}
