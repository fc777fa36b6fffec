package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/coremind/internal/adapters/analysis"
	sqlitememory "github.com/bnema/coremind/internal/adapters/memory/sqlite"
	tomlmemory "github.com/bnema/coremind/internal/adapters/memory/toml"
	pulserender "github.com/bnema/coremind/internal/adapters/render/pulse"
	"github.com/bnema/coremind/internal/adapters/reports"
	"github.com/bnema/coremind/internal/application"
	"github.com/bnema/coremind/internal/config"
	"github.com/bnema/coremind/internal/logging"
	"github.com/bnema/coremind/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const skipWiringAnnotation = "coremind/skip-wiring"

type app struct {
	configFile string

	viper         *viper.Viper
	cfg           config.Config
	logger        *zap.Logger
	decoder       *reports.Decoder
	pulseRenderer func([]application.PulseResult, pulserender.RenderOptions) (string, error)
	now           func() time.Time
}

func (a *app) wire(stderr io.Writer) error {
	v, cfg, err := config.Load(a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}

	a.viper = v
	a.cfg = cfg
	a.logger = logger
	a.decoder = reports.NewDecoder(logger)
	a.pulseRenderer = pulserender.Render
	a.now = time.Now

	return nil
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) openMemory() (ports.MemoryStore, error) {
	switch a.cfg.Memory.Backend {
	case config.BackendSQLite:
		store, err := sqlitememory.Open(a.cfg.Memory.Path, sqlitememory.WithLogger(a.logger))
		if err != nil {
			return nil, fmt.Errorf("wire sqlite memory: %w", err)
		}
		return store, nil
	default:
		store, err := tomlmemory.NewStore(a.viper, tomlmemory.WithLogger(a.logger))
		if err != nil {
			return nil, fmt.Errorf("wire toml memory: %w", err)
		}
		return store, nil
	}
}

// openMind wires a Mind over the configured memory and initializes it. The
// caller owns the returned Mind and must Close it.
func (a *app) openMind(ctx context.Context) (*application.Mind, error) {
	memory, err := a.openMemory()
	if err != nil {
		return nil, err
	}

	mind, err := application.NewMind(memory, analysis.NewConsensus(a.logger),
		application.WithLogger(a.logger),
		application.WithStateRestore(a.cfg.Mind.RestoreState),
	)
	if err != nil {
		_ = memory.Close()
		return nil, fmt.Errorf("wire mind: %w", err)
	}

	if err := mind.Initialize(ctx); err != nil {
		_ = mind.Close()
		return nil, fmt.Errorf("initialize mind: %w", err)
	}

	return mind, nil
}
