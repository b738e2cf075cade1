package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/roadwatch/internal/poller"
	"github.com/me/roadwatch/pkg/model"
)

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List incoming hazard alerts (admin)",
		Long: "Show the admin alert feed, unread alerts first. 'alerts watch' " +
			"keeps polling the feed; 'alerts read' marks one alert as read.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			alerts, fetchErr := client.AdminAlerts(cmd.Context())
			if fetchErr == nil {
				model.SortAlerts(alerts)
				if err := st.ReplaceAlerts(cmd.Context(), alerts); err != nil {
					logger.Warn("caching alerts failed", "error", err)
				}
			} else {
				logger.Warn("fetching alerts failed, trying cache", "error", fetchErr)
				alerts, err = st.ListAlerts(cmd.Context())
				if err != nil || len(alerts) == 0 {
					return fmt.Errorf("list alerts: %w", fetchErr)
				}
				fmt.Println("Server unreachable; showing cached alerts.")
			}

			printAlerts(alerts)
			return nil
		},
	}

	cmd.AddCommand(newAlertsWatchCmd(), newAlertsReadCmd())
	return cmd
}

func newAlertsWatchCmd() *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the alert feed until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}

			cfgPoll := poller.Config{
				Interval: cfg.PollInterval(),
				OnUpdate: func(alerts []model.Alert) {
					printAlerts(alerts)
					fmt.Println()
				},
				OnError: func(err error) {
					fmt.Printf("Fetch failed: %v (keeping previous alerts)\n", err)
				},
			}
			if interval > 0 {
				cfgPoll.Interval = time.Duration(interval) * time.Second
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := poller.New(client, cfgPoll, logger)
			if err := p.Start(ctx); err != nil {
				return err
			}
			defer p.Stop()

			fmt.Printf("Watching alerts every %s; Ctrl-C to stop.\n", cfgPoll.Interval)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().IntVar(&interval, "interval", 0, "Poll interval in seconds (default from config)")
	return cmd
}

func newAlertsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <alert-id>",
		Short: "Mark an alert as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAdmin(); err != nil {
				return err
			}
			alertID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert id %q", args[0])
			}

			if err := client.MarkAlertRead(cmd.Context(), alertID); err != nil {
				return fmt.Errorf("mark alert read: %w", err)
			}

			fmt.Printf("Alert %d marked as read.\n", alertID)
			return nil
		},
	}
}

func printAlerts(alerts []model.Alert) {
	if len(alerts) == 0 {
		fmt.Println("No alerts.")
		return
	}

	fmt.Printf("%-6s  %-7s  %-8s  %-20s  %s\n", "ID", "STATUS", "SEVERITY", "TIME", "DESCRIPTION")
	for _, a := range alerts {
		fmt.Printf("%-6d  %-7s  %-8s  %-20s  %s\n",
			a.AlertID, a.AlertStatus, a.Severity(), a.AlertTime, a.Description)
	}
}
