package rule

import (
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
)

// Weights は連の長さと開いた端の数ごとの評価値。
// Four は goal-1 連、Three は goal-2 連、Two は goal-3 連を表す
type Weights struct {
	Open4   float64 `yaml:"open_4" json:"open_4"`
	Closed4 float64 `yaml:"closed_4" json:"closed_4"`
	Open3   float64 `yaml:"open_3" json:"open_3"`
	Closed3 float64 `yaml:"closed_3" json:"closed_3"`
	Open2   float64 `yaml:"open_2" json:"open_2"`
	Closed2 float64 `yaml:"closed_2" json:"closed_2"`
	// Defense は相手がそのマスに打った場合の評価に掛ける係数
	Defense float64 `yaml:"defense" json:"defense"`
}

func DefaultWeights() Weights {
	return Weights{
		Open4:   100000,
		Closed4: 15000,
		Open3:   2500,
		Closed3: 400,
		Open2:   200,
		Closed2: 20,
		Defense: 0.9,
	}
}

const winScore = 1e9

// RuleAI は確定手があればそれを打ち、なければ連の形で各マスを評価して最大のマスに打つ
type RuleAI struct {
	weights Weights
	// 既存の石からこの距離以内の空きマスだけを候補にする
	reach int
}

// New は RuleAI を生成する
func New(w Weights) *RuleAI {
	return &RuleAI{weights: w, reach: 2}
}

func (ai *RuleAI) Name() string { return "rule" }

func (ai *RuleAI) SelectMove(b *game.Board) (game.Move, error) {
	if b.GameEnd() {
		return game.Move{}, errors.New("rule: game already ended")
	}
	cands := ai.Candidates(b)
	if len(cands) == 0 {
		return game.Move{}, errors.New("rule: no empty cell")
	}
	g := b.Grid()
	best := cands[0]
	bestScore := -1.0
	for _, m := range cands {
		s := ai.Score(g, m, b.CurrentPlayer(), b.Goal())
		if s > bestScore {
			best, bestScore = m, s
		}
	}
	return best, nil
}

// Candidates は確定手があればその段階の候補を、なければ石の近くの空きマスを返す。
// 盤面が空なら中央
func (ai *RuleAI) Candidates(b *game.Board) []game.Move {
	if tier, moves := b.CertainMoves(); tier != game.TierNone {
		return moves
	}
	if b.StepCount() == 0 {
		rows, cols := b.Shape()
		return []game.Move{{Row: rows / 2, Col: cols / 2}}
	}
	return Nearby(b.Grid(), ai.reach)
}

// Nearby は石から Chebyshev 距離 reach 以内の空きマスを row-major 順で返す
func Nearby(g game.Grid, reach int) []game.Move {
	var moves []game.Move
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.At(r, c) != game.Empty {
				continue
			}
			if hasNeighbor(g, r, c, reach) {
				moves = append(moves, game.Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

func hasNeighbor(g game.Grid, row, col, reach int) bool {
	for r := row - reach; r <= row+reach; r++ {
		for c := col - reach; c <= col+reach; c++ {
			if g.InBounds(r, c) && g.At(r, c) != game.Empty {
				return true
			}
		}
	}
	return false
}

// Score は空きマス m の評価値。player が打った場合の攻撃値と、相手が打った場合の防御値の和
func (ai *RuleAI) Score(g game.Grid, m game.Move, player game.Player, goal int) float64 {
	attack := ai.cellScore(g, m, player, goal)
	defense := ai.cellScore(g, m, player.Opponent(), goal)
	return attack + ai.weights.Defense*defense + centerBias(g, m)
}

func (ai *RuleAI) cellScore(g game.Grid, m game.Move, p game.Player, goal int) float64 {
	total := 0.0
	for _, d := range game.Directions {
		run, open := 1, 0
		for _, sign := range [2]int{1, -1} {
			r, c := m.Row+sign*d.DRow, m.Col+sign*d.DCol
			for g.InBounds(r, c) && g.At(r, c) == p {
				run++
				r, c = r+sign*d.DRow, c+sign*d.DCol
			}
			if g.InBounds(r, c) && g.At(r, c) == game.Empty {
				open++
			}
		}
		total += ai.shapeScore(goal-run, open)
	}
	return total
}

// shapeScore は勝利まであと gap 個の連を、開いた端の数 open で評価する
func (ai *RuleAI) shapeScore(gap, open int) float64 {
	w := ai.weights
	if gap <= 0 {
		return winScore
	}
	if open == 0 {
		return 0
	}
	switch gap {
	case 1:
		return pick(open, w.Open4, w.Closed4)
	case 2:
		return pick(open, w.Open3, w.Closed3)
	case 3:
		return pick(open, w.Open2, w.Closed2)
	}
	return float64(open)
}

func pick(open int, both, one float64) float64 {
	if open == 2 {
		return both
	}
	return one
}

// 同点なら中央寄りを優先する
func centerBias(g game.Grid, m game.Move) float64 {
	dr := abs(m.Row - g.Rows()/2)
	dc := abs(m.Col - g.Cols()/2)
	return -0.01 * float64(dr+dc)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
