package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/solarquiz/internal/config"
	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/logging"
	"github.com/abhisek/solarquiz/internal/narrator"
	"github.com/abhisek/solarquiz/internal/store"
	"github.com/abhisek/solarquiz/internal/store/postgres"
)

// memoryDSN is a private in-memory SQLite database. The store keeps a
// single connection, so it lives as long as the store.
const memoryDSN = ":memory:"

// env holds what every command needs: configuration, the logger, the local
// store and the high-score tracker over the configured backend.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	tracker *highscore.Tracker

	closers []func()
}

// openEnv loads configuration, applies flag overrides and opens storage.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	e := &env{cfg: cfg, log: log}
	e.closers = append(e.closers, func() { _ = log.Sync() })

	dsn := memoryDSN
	if cfg.Storage.Driver != config.DriverMemory {
		if dsn, err = resolveDBPath(cmd, cfg.DB); err != nil {
			e.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	}
	st, err := store.Open(dsn)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, func() { st.Close() })

	backend, err := e.openBackend(cmd.Context())
	if err != nil {
		e.Close()
		return nil, err
	}
	e.tracker = highscore.NewTracker(backend, highscore.WithLogger(log))

	log.Debug("environment ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("db", dsn),
		zap.String("engine", cfg.Narration.Engine),
	)
	return e, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetBool("memory"); v {
		cfg.Storage.Driver = config.DriverMemory
	}
}

func (e *env) openBackend(ctx context.Context) (highscore.Backend, error) {
	switch e.cfg.Storage.Driver {
	case config.DriverMemory:
		return highscore.NewMemoryBackend(), nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, e.cfg.Storage.PostgresURL, postgres.DefaultPoolConfig())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		e.closers = append(e.closers, pool.Close)
		backend, err := postgres.NewBackend(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("init postgres backend: %w", err)
		}
		return backend, nil
	default:
		return e.store.HighScores(), nil
	}
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// speaker returns the configured speech engine, falling back to a silent
// speaker paced by estimate when none is installed.
func (e *env) speaker() narrator.Speaker {
	engine := e.cfg.Narration.Engine
	switch engine {
	case config.EngineSilent:
		return narrator.NewSilentSpeaker()
	case config.EngineAuto:
		name, ok := narrator.DetectEngine()
		if !ok {
			e.log.Info("no speech engine found, narration will be silent")
			return narrator.NewSilentSpeaker()
		}
		e.log.Debug("speech engine detected", zap.String("engine", name))
		return narrator.NewCommandSpeaker(name)
	case config.EngineEspeak:
		if name, ok := narrator.DetectEngine(); ok && name == "espeak-ng" {
			return narrator.NewCommandSpeaker(name)
		}
		return narrator.NewCommandSpeaker("espeak")
	default:
		return narrator.NewCommandSpeaker(engine)
	}
}

// narratorOptions returns pacing from config and the saved voice.
func (e *env) narratorOptions(ctx context.Context) []narrator.Option {
	pacing := narrator.DefaultPacing()
	if e.cfg.Narration.MinFloor > 0 {
		pacing.MinFloor = e.cfg.Narration.MinFloor
	}
	if e.cfg.Narration.PerWord > 0 {
		pacing.PerWord = e.cfg.Narration.PerWord
	}

	voice := narrator.DefaultVoice
	if prefs, err := e.store.Preferences().Load(ctx); err != nil {
		e.log.Warn("load preferences", zap.Error(err))
	} else {
		voice = narrator.Voice{Rate: prefs.TTSRate, Pitch: prefs.TTSPitch}
	}

	return []narrator.Option{
		narrator.WithPacing(pacing),
		narrator.WithVoice(voice),
		narrator.WithLogger(e.log),
	}
}
