package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dom/tutorial-blog/internal/api"
	"github.com/dom/tutorial-blog/internal/api/middleware"
	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/config"
	"github.com/dom/tutorial-blog/internal/logging"
	"github.com/dom/tutorial-blog/internal/render"
	"github.com/dom/tutorial-blog/internal/repository/postgres"
	"github.com/dom/tutorial-blog/internal/server"
	"github.com/dom/tutorial-blog/internal/service"
	"github.com/dom/tutorial-blog/internal/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "blog [command] [flags]",
		Short:        "Multi-user tutorial blog",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	cmd.AddCommand(serveCommand())
	return cmd
}

func serveCommand() *cobra.Command {
	var port, databaseURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the blog web app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port != "" {
				cfg.Port = port
			}
			if databaseURL != "" {
				cfg.DatabaseURL = databaseURL
			}

			log := logging.New(logging.Options{
				Level:     cfg.LogLevel,
				Format:    cfg.LogFormat,
				AddSource: cfg.IsDevelopment(),
			})
			slog.SetDefault(log)

			return serve(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection URL (overrides DATABASE_URL)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, postgres.NewLogger(log, postgres.LogLevel(cfg.LogLevel)))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	// Initialize repositories and services
	repos := postgres.NewRepositories(db, cfg.Namespace)
	services := service.NewServices(repos, cfg, log)

	codec := auth.NewCookieCodec([]byte(cfg.SessionSecret))
	sessions := middleware.NewSessionManager(codec, services.Auth, log)

	renderer, err := render.New(render.NewContentFormatter())
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run()

	router := api.NewRouter(services, sessions, renderer, hub, log)

	grp, ctx := errgroup.WithContext(ctx)

	listener, err := server.Listen(ctx, "0.0.0.0:"+cfg.Port)
	if err != nil {
		hub.Stop()
		return fmt.Errorf("failed to listen: %w", err)
	}

	log.InfoContext(ctx, "server starting",
		slog.String("address", listener.Addr().String()),
		slog.String("namespace", cfg.Namespace),
		slog.String("password_scheme", string(cfg.PasswordScheme)),
	)
	server.Serve(ctx, grp, server.New(router), listener, server.ShutdownTimeout, hub.Stop)

	if err := grp.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}
