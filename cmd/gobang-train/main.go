package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/montplusa/gobang/pkg/ai/neural"
	"github.com/montplusa/gobang/pkg/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "YAML config file (defaults are used when empty)")
	episodes := flag.Int("episodes", 0, "Number of training episodes (overrides config)")
	workers := flag.Int("workers", 0, "Games played in parallel per update (overrides config)")
	opponent := flag.String("opponent", "", "Opponent agent: trivial, random, rule, mcts, neural or onnx (overrides config)")
	out := flag.String("out", "", "Where to save the network (overrides config)")
	randomRate := flag.Float64("random-rate", -1, "Exploration rate of the learner (overrides config)")
	learningRate := flag.Float64("lr", 0, "Learning rate for a new network (overrides config)")
	fresh := flag.Bool("fresh", false, "Start from a new network even if one is saved")
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
	if *episodes > 0 {
		cfg.Training.Episodes = *episodes
	}
	if *workers > 0 {
		cfg.Training.Workers = *workers
	}
	if *opponent != "" {
		cfg.Training.Opponent = *opponent
	}
	if *out != "" {
		cfg.Network.Path = *out
	}
	if *randomRate >= 0 {
		cfg.Training.RandomRate = *randomRate
	}
	if *learningRate > 0 {
		cfg.Network.LearningRate = *learningRate
	}

	// Continue from the saved network unless asked not to
	var network *neural.Network
	if _, err := os.Stat(cfg.Network.Path); err == nil && !*fresh {
		if network, err = neural.Load(cfg.Network.Path); err != nil {
			log.Fatal().Err(err).Msg("failed to load network")
		}
		log.Info().Str("path", cfg.Network.Path).Msg("resuming-network")
	} else {
		if network, err = neural.NewNetwork(cfg.NetworkConfig()); err != nil {
			log.Fatal().Err(err).Msg("failed to create network")
		}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Network.Path), 0755); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}

	opp, err := cfg.Agent(cfg.Training.Opponent, cfg.Game)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create opponent")
	}

	agentOpts := cfg.Agent
	agentOpts.RandomRate = cfg.Training.RandomRate
	trainCfg := neural.TrainingConfig{
		Episodes:       cfg.Training.Episodes,
		Workers:        cfg.Training.Workers,
		ReportInterval: cfg.Training.ReportInterval,
		SaveInterval:   cfg.Training.SaveInterval,
		Path:           cfg.Network.Path,
		Options:        cfg.Game,
		Agent:          agentOpts,
		Opponent:       opp,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := neural.Train(ctx, network, trainCfg); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("training failed")
		}
		// Interrupted: keep what has been learned so far
		log.Warn().Str("path", cfg.Network.Path).Msg("training-interrupted")
		if err := network.Save(cfg.Network.Path); err != nil {
			log.Fatal().Err(err).Msg("failed to save network")
		}
	}
}
