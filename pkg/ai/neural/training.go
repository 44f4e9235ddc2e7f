package neural

import (
	"context"
	"fmt"
	"time"

	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// TrainingConfig specifies parameters for training against an opponent
type TrainingConfig struct {
	Episodes       int          // Number of games
	Workers        int          // Games played in parallel before each update
	ReportInterval int          // How often to report progress, in episodes
	SaveInterval   int          // How often to save the network, in episodes (0 disables)
	Path           string       // Where to save the network ("" disables saving)
	Options        game.Options // Board shape used for every game
	Agent          Options      // Learner move selection (exploration rate etc.)
	Opponent       game.Agent   // Opponent; must be safe for concurrent use when Workers > 1
}

// TrainingStats tracks metrics during training
type TrainingStats struct {
	Episodes   int
	Wins       int
	Losses     int
	Draws      int
	FirstWins  int // games won by whoever moved first
	SecondWins int
	TotalTurns int
	Loss       float64 // exponential moving average, negative until the first update
	StartTime  time.Time
}

func (s TrainingStats) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Episodes) * 100
}

func (s *TrainingStats) record(res game.BattleResult, learner string) {
	s.Episodes++
	s.TotalTurns += len(res.Moves)
	switch res.Winner {
	case game.PlayerOne:
		s.FirstWins++
	case game.PlayerTwo:
		s.SecondWins++
	}
	switch res.WinnerName() {
	case "":
		s.Draws++
	case learner:
		s.Wins++
	default:
		s.Losses++
	}
}

func (s *TrainingStats) updateLoss(loss float64) {
	if s.Loss < 0 {
		s.Loss = loss
		return
	}
	s.Loss = s.Loss*0.95 + loss*0.05
}

// Train plays config.Episodes games between the network and the opponent,
// alternating colours, and fits the network on every batch of finished games
func Train(ctx context.Context, n *Network, config TrainingConfig) (TrainingStats, error) {
	stats := TrainingStats{Loss: -1, StartTime: time.Now()}
	if config.ReportInterval <= 0 {
		return stats, errors.New("report interval must be greater than 0")
	}
	if config.Opponent == nil {
		return stats, errors.New("training needs an opponent")
	}
	if !n.config.Matches(config.Options) {
		return stats, errors.Errorf("network %q does not fit board %dx%d depth %d/%d", n.config.Name,
			config.Options.Rows, config.Options.Cols, config.Options.BoardDepth, config.Options.MoveDepth)
	}
	workers := max(config.Workers, 1)
	learner := NewAgent(n, config.Agent)

	log.Info().
		Str("learner", learner.Name()).
		Str("opponent", config.Opponent.Name()).
		Int("episodes", config.Episodes).
		Int("workers", workers).
		Float64("random-rate", config.Agent.RandomRate).
		Msg("starting-training")

	lastReportTime := time.Now()
	lastReportDone := 0
	nextReport := config.ReportInterval
	nextSave := config.SaveInterval

	for episode := 0; episode < config.Episodes; episode += workers {
		batch := min(workers, config.Episodes-episode)
		results := make([]game.BattleResult, batch)

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < batch; i++ {
			i := i
			g.Go(func() error {
				board, err := game.NewBoard(config.Options)
				if err != nil {
					return err
				}
				first, second := game.Agent(learner), config.Opponent
				if (episode+i)%2 == 1 {
					first, second = second, first
				}
				runner := game.NewRunner(board, first, second)
				runner.Collect = true
				res, err := runner.Run(gctx)
				if err != nil {
					return errors.Wrapf(err, "episode %d", episode+i+1)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return stats, err
		}

		var frames []game.TrainingFrame
		for _, res := range results {
			stats.record(res, learner.Name())
			frames = append(frames, res.Frames...)
		}
		stats.updateLoss(n.Fit(frames))

		done := episode + batch
		if done >= nextReport || done == config.Episodes {
			now := time.Now()
			elapsed := now.Sub(lastReportTime)
			var gamesPerSecond float64
			var eta time.Duration
			if elapsed > 0 {
				gamesPerSecond = float64(done-lastReportDone) / elapsed.Seconds()
				eta = time.Duration(float64(config.Episodes-done) / gamesPerSecond * float64(time.Second))
			}
			log.Info().Msg(fmt.Sprintf("[%d/%d] Win: %.1f%% (W:%d L:%d D:%d) | First/Second: %d/%d | Turns: %.1f | Loss: %.4f | %.2f games/sec | Elapsed: %s | ETA: %s",
				done, config.Episodes, stats.WinRate(), stats.Wins, stats.Losses, stats.Draws,
				stats.FirstWins, stats.SecondWins,
				float64(stats.TotalTurns)/float64(stats.Episodes), stats.Loss, gamesPerSecond,
				formatDuration(now.Sub(stats.StartTime)), formatDuration(eta)))
			lastReportTime = now
			lastReportDone = done
			for nextReport <= done {
				nextReport += config.ReportInterval
			}
		}

		if config.Path != "" && config.SaveInterval > 0 && done >= nextSave {
			log.Info().Int("episode", done).Str("path", config.Path).Msg("saving-network")
			if err := n.Save(config.Path); err != nil {
				return stats, err
			}
			for nextSave <= done {
				nextSave += config.SaveInterval
			}
		}
	}

	if config.Path != "" {
		if err := n.Save(config.Path); err != nil {
			return stats, err
		}
	}
	log.Info().
		Str("elapsed", formatDuration(time.Since(stats.StartTime))).
		Float64("win-rate", stats.WinRate()).
		Int("wins", stats.Wins).
		Int("losses", stats.Losses).
		Int("draws", stats.Draws).
		Str("path", config.Path).
		Msg("training-completed")
	return stats, nil
}

// formatDuration returns a human-readable string for a duration
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
