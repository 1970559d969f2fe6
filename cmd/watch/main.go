package main

import (
	"context"
	"fmt"
	"io"
	"mdstore/internal/config"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"mdstore/internal/logging"
	"mdstore/internal/poller"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	interval   time.Duration
	once       bool
)

var rootCmd = &cobra.Command{
	Use:   "mdwatch",
	Short: "Print storefront notifications as they arrive",
	Long: `Polls the shared store the way an open storefront page does and prints
each notification the signed-in customer has not seen yet. Delivered
notifications are marked as seen.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.Flags().DurationVarP(&interval, "interval", "i", 0, "poll interval (defaults to the configured one)")
	rootCmd.Flags().BoolVar(&once, "once", false, "poll a single time and exit")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := config.OpenStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	seedAdmin := model.AdminUser{Email: cfg.Shop.SeedAdmin, Password: cfg.Shop.SeedAdminPass}
	entities := repository.NewEntityRepository(store, seedAdmin, logger)
	sessions := repository.NewSessionRepository(store, logger)
	notifications := repository.NewNotificationRepository(store, logger)

	if interval <= 0 {
		interval = cfg.Shop.PollInterval
	}
	alerts := poller.AlerterFunc(func(ctx context.Context, n model.Notification) error {
		_, err := fmt.Fprintf(out, "[%s] %s: %s\n", displayTime(n.Timestamp), n.Title, n.Message)
		return err
	})
	p := poller.New(entities, sessions, notifications, alerts, interval, logger)

	if once {
		snapshot, err := p.Tick(ctx)
		if err != nil {
			return err
		}
		if snapshot.Unseen == 0 {
			fmt.Fprintln(out, "No new notifications")
		}
		return nil
	}
	return p.Run(ctx)
}

func displayTime(ts model.Stamp) string {
	if ts.IsText() {
		return ts.String()
	}
	return time.UnixMilli(ts.Millis()).Format("2006-01-02 15:04:05")
}
