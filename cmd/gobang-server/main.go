package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/montplusa/gobang/pkg/config"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/montplusa/gobang/pkg/server"
	"github.com/montplusa/gobang/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are used when empty)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	agent := flag.String("agent", "", "Computer opponent: trivial, random, rule, mcts, neural or onnx (overrides config)")
	dbPath := flag.String("db", "", "SQLite file for finished games (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *agent != "" {
		cfg.Server.Agent = *agent
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	// Fail at startup rather than on the first game
	if _, err := cfg.Agent(cfg.Server.Agent, cfg.Game); err != nil {
		log.Fatal().Err(err).Str("agent", cfg.Server.Agent).Msg("failed to create agent")
	}

	var st *store.Store
	if cfg.Store.Path != "" {
		var err error
		if st, err = store.Open(cfg.Store.Path); err != nil {
			log.Fatal().Err(err).Msg("failed to open store")
		}
		defer st.Close()
	}

	factory := func(opts game.Options) (game.Agent, error) {
		return cfg.Agent(cfg.Server.Agent, opts)
	}
	srv := server.New(server.NewController(cfg.Game, factory, st), st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.Run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("agent", cfg.Server.Agent).Msg("server-listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server-stopped")
}
