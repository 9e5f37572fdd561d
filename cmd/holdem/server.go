package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cardstream/holdem/cmd/holdem/shared"
	"github.com/cardstream/holdem/internal/evaluator"
	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/internal/replay"
	"github.com/cardstream/holdem/internal/server"
	"github.com/cardstream/holdem/internal/session"
)

// ServerCmd runs the table server
type ServerCmd struct {
	Config string `kong:"default='holdem.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides config'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !c.Debug {
		logger.SetLevel(shared.ParseLevel(cfg.Server.LogLevel))
	}
	oracle := evaluator.New()
	store := session.NewStore(time.Duration(cfg.Session.TTLMinutes)*time.Minute, nil, func() (*game.Table, error) {
		seats := session.SeatOrder[:cfg.Table.MaxSeats]
		return game.NewTable(oracle, seats, game.TableConfig{
			SmallBlind: cfg.Table.SmallBlind,
			BigBlind:   cfg.Table.BigBlind,
			StartChips: cfg.Table.StartChips,
		})
	})

	var buf *replay.Buffer
	if cfg.Replay.Enabled {
		buf, err = replay.Load(cfg.Replay.Path, cfg.Replay.Capacity, cfg.AI.Seed)
		if err != nil {
			logger.Warn("Starting with an empty replay buffer", "path", cfg.Replay.Path, "error", err)
			buf, err = replay.New(cfg.Replay.Capacity, cfg.AI.Seed)
			if err != nil {
				return err
			}
		}
	}

	service := server.NewGameService(cfg, store, logger, buf)
	srv := server.NewServer(cfg, logger, service)
	if c.Addr != "" {
		srv.SetAddr(c.Addr)
	}

	logger.Info("Starting hold'em server",
		"addr", cfg.GetServerAddress(),
		"small_blind", cfg.Table.SmallBlind,
		"big_blind", cfg.Table.BigBlind,
		"start_chips", cfg.Table.StartChips,
		"max_seats", cfg.Table.MaxSeats,
		"ai_strategy", cfg.AI.Strategy,
		"replay", cfg.Replay.Enabled,
	)

	ctx := shared.SetupSignalHandler(logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
