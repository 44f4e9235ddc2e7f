package game

import (
	"context"
	"time"

	"github.com/montplusa/gobang/pkg/game/debug"
	"github.com/pkg/errors"
)

// BattleResult は対戦結果の記録
type BattleResult struct {
	Rows     int           `json:"rows"`
	Cols     int           `json:"cols"`
	Goal     int           `json:"goal"`
	Agents   [2]string     `json:"agents"` // [先手, 後手]
	Moves    []Move        `json:"moves"`  // 手の履歴
	Status   string        `json:"status"`
	Winner   Player        `json:"winner"`
	Duration time.Duration `json:"duration"`

	// Collect 時のみ。Backfill 済み
	Frames []TrainingFrame `json:"-"`
}

// WinnerName は勝ったエージェントの名前を返す。引き分けなら空文字
func (r BattleResult) WinnerName() string {
	switch r.Winner {
	case PlayerOne:
		return r.Agents[0]
	case PlayerTwo:
		return r.Agents[1]
	}
	return ""
}

// Runner は対戦を管理
type Runner struct {
	agents [2]Agent
	board  *Board
	// true なら各手の学習データを集める
	Collect bool
}

// NewRunner は先手 first、後手 second で対戦する Runner を返す
func NewRunner(board *Board, first, second Agent) *Runner {
	return &Runner{agents: [2]Agent{first, second}, board: board}
}

// Board は対局に使う盤面を返す
func (r *Runner) Board() *Board { return r.board }

// Run は盤面をリセットして一局を実行する。
// ctx のキャンセルは手と手の間でのみ確認する
func (r *Runner) Run(ctx context.Context) (BattleResult, error) {
	b := r.board
	b.Reset()
	start := time.Now()
	opts := b.Options()
	result := BattleResult{
		Rows:   opts.Rows,
		Cols:   opts.Cols,
		Goal:   opts.Goal,
		Agents: [2]string{r.agents[0].Name(), r.agents[1].Name()},
		Status: StatusContinue.String(),
	}

	var frames []TrainingFrame
	for !b.GameEnd() {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, "battle interrupted")
		}
		player := b.CurrentPlayer()
		agent := r.agentFor(player)
		m, err := agent.SelectMove(b)
		if err != nil {
			return result, errors.Wrapf(err, "agent %s", agent.Name())
		}
		debug.Log("turn %d: %s plays %s", b.StepCount()+1, agent.Name(), m)

		status, winner := b.Move(m.Row, m.Col)
		if status == StatusInvalid {
			return result, errors.Wrapf(ErrAgentMove, "agent %s played %s", agent.Name(), m)
		}
		result.Moves = append(result.Moves, m)
		if r.Collect {
			frames = append(frames, b.TrainingWindow())
		}
		if status != StatusContinue {
			result.Status = status.String()
			result.Winner = winner
		}
	}

	result.Duration = time.Since(start)
	if r.Collect {
		Backfill(frames, result.Winner)
		result.Frames = frames
	}
	return result, nil
}

func (r *Runner) agentFor(p Player) Agent {
	if p == PlayerOne {
		return r.agents[0]
	}
	return r.agents[1]
}
