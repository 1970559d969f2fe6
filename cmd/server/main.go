package main

import (
	"context"
	"errors"
	"fmt"
	"mdstore/internal/api/router"
	"mdstore/internal/api/util"
	"mdstore/internal/config"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"mdstore/internal/core/service"
	"mdstore/internal/logging"
	"mdstore/internal/poller"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	withPoller bool
)

var rootCmd = &cobra.Command{
	Use:   "mdstore",
	Short: "MD Fine Jewelry storefront and admin API",
	Long: `Serves the storefront and admin panel over HTTP on top of a shared
key-value store (memory, redis, mongo, sqlite or postgres).

With --poll the server also runs the notification poller and logs every
notification delivered to the signed-in storefront customer.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.Flags().BoolVar(&withPoller, "poll", false, "run the notification poller alongside the API")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
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

	// Initialize repositories
	seedAdmin := model.AdminUser{Email: cfg.Shop.SeedAdmin, Password: cfg.Shop.SeedAdminPass}
	entities := repository.NewEntityRepository(store, seedAdmin, logger)
	sessions := repository.NewSessionRepository(store, logger)
	notifications := repository.NewNotificationRepository(store, logger)

	// Initialize services
	opts := service.OptionsFromConfig(cfg)
	services := router.Services{
		Customers:     service.NewCustomerService(entities, sessions, notifications, opts, logger),
		Orders:        service.NewOrderService(entities, sessions, notifications, opts, logger),
		Products:      service.NewProductService(entities, logger),
		Carts:         service.NewCartService(entities, sessions, logger),
		Admins:        service.NewAdminService(entities, sessions, opts, logger),
		Notifications: service.NewNotificationService(notifications, opts, logger),
	}

	secret := cfg.Auth.AccessSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("JWT_ACCESS_SECRET not set, admin tokens will not survive a restart")
	}
	tokens := util.NewTokenIssuer(secret, cfg.Auth.TokenTTL)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(services, tokens, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withPoller {
		alerts := poller.AlerterFunc(func(ctx context.Context, n model.Notification) error {
			logger.Info("Notification delivered",
				zap.String("title", n.Title),
				zap.String("message", n.Message),
				zap.String("target", n.TargetEmail),
			)
			return nil
		})
		p := poller.New(entities, sessions, notifications, alerts, cfg.Shop.PollInterval, logger)
		g.Go(func() error {
			return p.Run(ctx)
		})
	}

	return g.Wait()
}
