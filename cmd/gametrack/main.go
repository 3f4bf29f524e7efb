package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/farhan/gametrack/internal/api"
	"github.com/farhan/gametrack/internal/auth"
	"github.com/farhan/gametrack/internal/config"
	"github.com/farhan/gametrack/internal/models"
	"github.com/farhan/gametrack/internal/notify"
	"github.com/farhan/gametrack/internal/storage"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gametrack",
		Short: "GameTrack — issue-tracker-driven game tracking with live notifications",
	}

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))
	rootCmd.AddCommand(secretCmd())
	rootCmd.AddCommand(gamesCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the GameTrack server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := setupLogger(cfg.Logging)

			if cfg.Auth.Secret == "" {
				log.Warn().Msg("auth.secret is empty, all tokens will be rejected")
			}
			if cfg.Webhook.Secret == "" {
				log.Warn().Msg("webhook.secret is empty, webhooks cannot be verified")
			}

			store, err := setupStorage(cfg.Storage, log)
			if err != nil {
				return fmt.Errorf("failed to setup storage: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(context.Background()); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("database migrations completed")

			broker := notify.NewBroker(log)

			server := api.NewServer(cfg, store, broker, log)
			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server error")
				}
			}()

			log.Info().
				Str("version", version).
				Int("port", cfg.Server.Port).
				Strs("allowed_senders", cfg.Webhook.AllowedSenders).
				Str("storage", cfg.Storage.Driver).
				Msg("GameTrack is running")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info().Msg("shutting down...")

			if err := server.Shutdown(10 * time.Second); err != nil {
				log.Error().Err(err).Msg("server shutdown error")
			}

			broker.Close()

			log.Info().Msg("GameTrack stopped")
			return nil
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := setupLogger(cfg.Logging)

			store, err := setupStorage(cfg.Storage, log)
			if err != nil {
				return fmt.Errorf("failed to setup storage: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(context.Background()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			log.Info().Msg("migrations completed successfully")
			return nil
		},
	}
}

func tokenCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a subscriber token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("auth.secret is not configured")
			}
			if ttl == 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := auth.Generate(user, []byte(cfg.Auth.Secret), ttl)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().String("user", "", "user id to embed in the token")
	cmd.Flags().Duration("ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	return cmd
}

func secretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Generate a webhook signing secret",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(models.NewSecret())
		},
	}
}

func gamesCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Inspect tracked games",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all tracked games",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := storeFromConfig(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			games, err := store.ListGames(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list games: %w", err)
			}

			if len(games) == 0 {
				fmt.Println("No games tracked.")
				return nil
			}

			for _, game := range games {
				fmt.Printf("  %s  %s  issue=%d  (created %s)\n",
					game.ID, game.Name, game.IssueID, game.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("GameTrack v%s\n", version)
		},
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func setupStorage(cfg config.StorageConfig, log zerolog.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case "sqlite":
		log.Info().Str("path", cfg.SQLite.Path).Msg("using SQLite storage")
		return storage.NewSQLite(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func storeFromConfig(configPath string) (storage.Storage, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.Logging)
	store, err := setupStorage(cfg.Storage, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup storage: %w", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, func() { store.Close() }, nil
}
