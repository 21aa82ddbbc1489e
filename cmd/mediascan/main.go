package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/database"
	"github.com/slipstream/mediascan/internal/discovery"
	"github.com/slipstream/mediascan/internal/importer"
	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/logger"
	"github.com/slipstream/mediascan/internal/scanner"
	"github.com/slipstream/mediascan/internal/scanner/fanart"
	"github.com/slipstream/mediascan/internal/scanner/omdb"
	"github.com/slipstream/mediascan/internal/scanner/tmdb"
	"github.com/slipstream/mediascan/internal/scanner/trailer"
	"github.com/slipstream/mediascan/internal/scanner/tvdb"
	"github.com/slipstream/mediascan/internal/scanqueue"
	"github.com/slipstream/mediascan/internal/scheduler"
	"github.com/slipstream/mediascan/internal/scheduler/tasks"
	"github.com/slipstream/mediascan/internal/staging"
	"github.com/slipstream/mediascan/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before the config")
	writeConfig := flag.Bool("write-config", false, "Print an example config file and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.WriteExample(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write example config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("database", cfg.Database.Path).
		Strs("roots", cfg.Discovery.Roots).
		Msg("starting mediascan")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("mediascan stopped with error")
		log.Close()
		os.Exit(1)
	}
	log.Info().Msg("mediascan stopped")
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	stagedFiles := staging.NewStore(db.Conn())
	libraryStore := library.NewStore(db.Conn())

	if n, err := stagedFiles.FailInterrupted(ctx); err != nil {
		return err
	} else if n > 0 {
		log.Warn().Int64("count", n).Msg("Marked interrupted imports as errored")
	}
	if n, err := libraryStore.ResumeInterruptedScans(ctx); err != nil {
		return err
	} else if n > 0 {
		log.Warn().Int64("count", n).Msg("Requeued interrupted metadata scans")
	}

	registry, err := newRegistry(cfg, log)
	if err != nil {
		return err
	}

	importService := importer.NewService(stagedFiles, libraryStore, log.Logger)
	dispatcher := staging.NewDispatcher(stagedFiles, importService, log.Logger)

	processor := scanqueue.NewEntityProcessor(libraryStore, registry, scanqueue.Sources{
		Movie:   cfg.Scan.MovieSources,
		Series:  cfg.Scan.SeriesSources,
		Fanart:  cfg.Scan.FanartSources,
		Trailer: cfg.Scan.TrailerSources,
	}, log.Logger)
	pool := scanqueue.NewPool(libraryStore, processor, scanqueue.Config{
		PoolSize:      cfg.Scan.PoolSize,
		QueueCapacity: cfg.Scan.QueueCapacity,
		PollInterval:  cfg.Scan.PollInterval,
	}, log.Logger)

	walker := discovery.NewWalker(stagedFiles, cfg.Discovery.Roots, log.Logger)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		return err
	}
	taskLog := log.WithComponent("tasks")
	registrations := []error{
		tasks.RegisterStagingDiscoveryTask(sched, walker, cfg.Discovery, taskLog),
		tasks.RegisterStagingDispatchTask(sched, dispatcher, cfg.Staging, taskLog),
		tasks.RegisterStagingRetryTask(sched, stagedFiles, cfg.Staging, taskLog),
		tasks.RegisterMetadataScanTask(sched, pool, cfg.Scan, taskLog),
		tasks.RegisterLibraryRescanTask(sched, libraryStore, cfg.Scan, taskLog),
	}
	if err := errors.Join(registrations...); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	if err := sched.Start(); err != nil {
		return err
	}

	if cfg.Discovery.Watch && len(cfg.Discovery.Roots) > 0 {
		w, err := startWatcher(cfg.Discovery, sched, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("failed to start file watcher, relying on scheduled discovery")
		} else {
			defer w.Stop()
		}
	}

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	pool.Stop()
	dispatcher.Stop()
	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}
	return nil
}

// startWatcher runs the discovery task early whenever media files change
// under the roots.
func startWatcher(cfg config.DiscoveryConfig, sched *scheduler.Scheduler, log zerolog.Logger) (*watcher.Watcher, error) {
	w, err := watcher.New(watcher.Config{Debounce: cfg.WatchDebounce}, func(events []watcher.Event) {
		log.Debug().Int("events", len(events)).Msg("Media files changed, running discovery")
		if err := sched.RunNow(tasks.StagingDiscoveryTaskID); err != nil {
			log.Warn().Err(err).Msg("failed to trigger discovery")
		}
	}, log)
	if err != nil {
		return nil, err
	}

	for _, root := range cfg.Roots {
		if err := w.AddRoot(root); err != nil {
			log.Warn().Err(err).Str("root", root).Msg("failed to watch root")
		}
	}
	w.Start()
	return w, nil
}

// newRegistry builds the scanner registry from the configured plugins.
// Plugins without credentials are left out so their sources are skipped.
func newRegistry(cfg *config.Config, log *logger.Logger) (*scanner.Registry, error) {
	registry := scanner.NewRegistry(log.Logger)

	tmdbClient := tmdb.NewClient(cfg.Metadata.TMDB, log.Logger)
	tmdbScanner := tmdb.NewScanner(tmdbClient, scanner.DefaultCacheConfig(), log.Logger)
	register(registry, tmdbScanner, tmdbClient.IsConfigured(), log.Logger)

	omdbClient := omdb.NewClient(cfg.Metadata.OMDB, log.Logger)
	register(registry, omdb.NewScanner(omdbClient, log.Logger), omdbClient.IsConfigured(), log.Logger)

	tvdbClient := tvdb.NewClient(cfg.Metadata.TVDB, log.Logger)
	register(registry, tvdb.NewScanner(tvdbClient, scanner.DefaultCacheConfig(), log.Logger), tvdbClient.IsConfigured(), log.Logger)

	var movieLookup scanner.LookupFunc
	if tmdbClient.IsConfigured() {
		movieLookup = tmdbScanner.LookupMovie
	}
	fanartClient := fanart.NewClient(cfg.Metadata.Fanart, log.Logger)
	register(registry, fanart.NewScanner(fanartClient, movieLookup, log.Logger), fanartClient.IsConfigured(), log.Logger)

	definition, err := trailer.LoadDefinition(cfg.Metadata.Trailer.DefinitionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load trailer definition: %w", err)
	}
	trailerClient, err := trailer.NewClient(cfg.Metadata.Trailer, definition, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create trailer client: %w", err)
	}
	register(registry, trailer.NewScanner(trailerClient, definition, log.Logger), trailerClient.IsConfigured(), log.Logger)

	return registry, nil
}

func register(registry *scanner.Registry, s scanner.Scanner, configured bool, log zerolog.Logger) {
	if !configured {
		log.Warn().Str("scanner", s.Name()).Msg("Scanner not configured, its sources will be skipped")
		return
	}
	families := registry.Register(s)
	log.Info().Str("scanner", s.Name()).Interface("families", families).Msg("Registered scanner")
}
