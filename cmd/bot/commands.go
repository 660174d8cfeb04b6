package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"composer-pasta-bot/internal/bot"
	"composer-pasta-bot/internal/config"
	"composer-pasta-bot/internal/game"
	"composer-pasta-bot/internal/game/round"
	"composer-pasta-bot/internal/model"
	"composer-pasta-bot/internal/pkg/db"
	"composer-pasta-bot/internal/pkg/lock"
	"composer-pasta-bot/internal/repository"
	"composer-pasta-bot/internal/service"
)

// errCatalogClash is returned by check-catalog when a name is in both catalogs.
var errCatalogClash = errors.New("catalogs share names")

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "composer-pasta-bot",
		Short:         "A Telegram trivia game: is it a composer or a pasta?",
		Args:          cobra.NoArgs,
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				if errors.Is(err, config.ErrEmptyToken) {
					log.Fatal().Err(err).Msg("Set bot.token in config.yaml or BOT_TOKEN in the environment")
				}
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&configPath, "config", "c", "config", "directory containing config.yaml")
	fs.String("log-level", "", "log level: debug, info, warn or error (env: LOG_LEVEL)")
	fs.String("storage-driver", "", "where player records are kept: yaml or postgres (env: STORAGE_DRIVER)")
	fs.String("player-file", "", "player records file for the yaml driver (env: STORAGE_PLAYER_FILE)")
	fs.String("composer-file", "", "composer catalog file (env: CATALOG_COMPOSER_FILE)")
	fs.String("pasta-file", "", "pasta catalog file (env: CATALOG_PASTA_FILE)")

	cmd.AddCommand(newCheckCatalogCmd(&configPath))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("composer-pasta-bot v{{.Version}}\n")

	return cmd
}

func newCheckCatalogCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-catalog",
		Short: "Report names that appear in both the composer and the pasta catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath, cmd.Flags())
			if err != nil {
				return err
			}

			catalog, err := repository.LoadCatalog(cfg.Catalog.ComposerFile, cfg.Catalog.PastaFile)
			if err != nil {
				return err
			}

			clashes := catalog.Clashes()
			out := cmd.OutOrStdout()
			if len(clashes) == 0 {
				fmt.Fprintln(out, "No names appear in both catalogs.")
				return nil
			}
			fmt.Fprintf(out, "%d names appear in both catalogs:\n", len(clashes))
			for _, name := range clashes {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return fmt.Errorf("%w: %d", errCatalogClash, len(clashes))
		},
	}
}

// loadConfig reads the configuration and applies its log level.
func loadConfig(configPath string, flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := cfg.ValidateGame(); err != nil {
		return nil, err
	}

	log.Info().Msg("Configuration loaded successfully")
	return cfg, nil
}

// run starts the bot and blocks until SIGINT or SIGTERM.
func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	catalog, err := repository.LoadCatalog(cfg.Catalog.ComposerFile, cfg.Catalog.PastaFile)
	if err != nil {
		return err
	}
	if clashes := catalog.Clashes(); len(clashes) > 0 {
		log.Error().Strs("names", clashes).Msg("Names appear in both catalogs; questions about them are ambiguous")
	}

	repo, closeRepo, err := openRecordRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	records := service.LoadPlayerRecords(ctx, repo)

	registry := game.NewRegistry()
	machine, err := newMachine(cfg, catalog, registry, records)
	if err != nil {
		return err
	}

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:   cfg,
		Machine:  machine,
		Records:  records,
		RoomLock: lock.NewRoomLock(),
	})
	if err != nil {
		return err
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go telegramBot.Start()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
	}

	telegramBot.Stop()

	if rooms := registry.RoomIDs(); len(rooms) > 0 {
		log.Warn().Ints64("room_ids", rooms).Msg("Abandoning unfinished games")
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	if err := records.Flush(flushCtx); err != nil {
		return err
	}

	log.Info().Msg("Bot stopped gracefully")
	return nil
}

// openRecordRepository opens the configured player-record store.
// The returned func releases it.
func openRecordRepository(ctx context.Context, cfg *config.Config) (service.RecordRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := repository.Migrate(ctx, pool.Pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return repository.NewPostgresRecordRepository(pool.Pool), pool.Close, nil
	default:
		repo := repository.NewYAMLRecordRepository(cfg.Storage.PlayerFile)
		log.Info().Str("path", repo.Path()).Msg("Using YAML player records")
		return repo, func() {}, nil
	}
}

// newMachine builds the question selector and the round machine over registry.
func newMachine(cfg *config.Config, catalog *model.Catalog, registry *game.Registry, records *service.PlayerRecords) (*round.Machine, error) {
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	selector, err := game.NewSelector(
		catalog.ComposerNames(),
		catalog.PastaNames(),
		rand.New(rand.NewSource(seed)),
		cfg.Game.ComposerSplit,
	)
	if err != nil {
		return nil, err
	}

	return round.New(registry, selector, catalog, records, &round.Config{
		IdleTimeout: cfg.Game.IdleTimeout,
	}), nil
}
