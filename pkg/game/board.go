package game

import (
	"github.com/montplusa/gobang/pkg/game/debug"
)

// Status は Board.Move の結果
type Status int

const (
	StatusInvalid Status = iota - 1
	StatusContinue
	StatusWin
	StatusDraw
)

func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusContinue:
		return "continue"
	case StatusWin:
		return "win"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Options は盤面の大きさ、勝利に必要な連続数、特徴量ウィンドウの深さ
type Options struct {
	Rows       int `yaml:"rows" json:"rows"`
	Cols       int `yaml:"cols" json:"cols"`
	Goal       int `yaml:"goal" json:"goal"`
	BoardDepth int `yaml:"board_depth" json:"board_depth"`
	MoveDepth  int `yaml:"move_depth" json:"move_depth"`
}

func DefaultOptions() Options {
	return Options{
		Rows:       15,
		Cols:       15,
		Goal:       5,
		BoardDepth: 10,
		MoveDepth:  5,
	}
}

// Validate は設定の整合性を確認する
func (o Options) Validate() error {
	switch {
	case o.Goal < 2:
		return &ConfigurationError{Field: "goal", Reason: "must be at least 2"}
	case o.Rows < o.Goal:
		return &ConfigurationError{Field: "rows", Reason: "smaller than goal"}
	case o.Cols < o.Goal:
		return &ConfigurationError{Field: "cols", Reason: "smaller than goal"}
	case o.BoardDepth < 1:
		return &ConfigurationError{Field: "board_depth", Reason: "must be at least 1"}
	case o.MoveDepth < 1:
		return &ConfigurationError{Field: "move_depth", Reason: "must be at least 1"}
	}
	return nil
}

// Board は五目並べの盤面と手番、着手履歴、特徴量ウィンドウを保持する。
// 一つの対局につき一つの goroutine からのみ使う
type Board struct {
	opts     Options
	grid     Grid
	steps    []Move
	current  Player
	opponent Player
	gameEnd  bool
	winner   Player
	window   *Window
	valid    []float64
}

// NewBoard は空の盤面を返す。設定が不正なら *ConfigurationError
func NewBoard(opts Options) (*Board, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		opts:   opts,
		grid:   NewGrid(opts.Rows, opts.Cols),
		window: NewWindow(opts.Rows, opts.Cols, opts.BoardDepth, opts.MoveDepth),
		valid:  make([]float64, opts.Rows*opts.Cols),
	}
	b.Reset()
	return b, nil
}

// Reset は盤面・履歴・手番を初期状態に戻す
func (b *Board) Reset() {
	b.grid.Clear()
	b.steps = b.steps[:0]
	b.current = PlayerOne
	b.opponent = PlayerTwo
	b.gameEnd = false
	b.winner = Empty
	b.window.Reset()
	for i := range b.valid {
		b.valid[i] = 0
	}
}

// Validate は (row, col) に現在の手番が打てるかを確認する
func (b *Board) Validate(row, col int) error {
	m := Move{Row: row, Col: col}
	switch {
	case b.gameEnd:
		return &InvalidMoveError{Move: m, Reason: "game already ended"}
	case !b.grid.InBounds(row, col):
		return &InvalidMoveError{Move: m, Reason: "out of bounds"}
	case b.grid.At(row, col) != Empty:
		return &InvalidMoveError{Move: m, Reason: "cell occupied"}
	}
	return nil
}

// Move は現在の手番で (row, col) に打つ。
// 打てない場合は何も変更せず StatusInvalid を返す。
// 勝てば (StatusWin, 勝者)、引き分けなら (StatusDraw, Empty)、続行なら手番を交代して (StatusContinue, Empty)
func (b *Board) Move(row, col int) (Status, Player) {
	if err := b.Validate(row, col); err != nil {
		debug.Log("move rejected: %v", err)
		return StatusInvalid, Empty
	}
	m := Move{Row: row, Col: col}
	mover := b.current
	b.steps = append(b.steps, m)
	b.window.Update(b.grid, mover, m)
	b.grid.Set(row, col, mover)
	b.valid[row*b.opts.Cols+col] = occupiedPenalty

	switch Evaluate(b.grid, mover, b.opts.Goal) {
	case OutcomeWin:
		b.gameEnd = true
		b.winner = mover
		return StatusWin, mover
	case OutcomeDraw:
		b.gameEnd = true
		b.winner = Empty
		return StatusDraw, Empty
	}
	b.current, b.opponent = b.opponent, b.current
	return StatusContinue, Empty
}

const occupiedPenalty = -10

func (b *Board) IsEmpty(row, col int) bool {
	return b.grid.InBounds(row, col) && b.grid.At(row, col) == Empty
}

// At は (row, col) の石を返す
func (b *Board) At(row, col int) Player {
	return b.grid.At(row, col)
}

func (b *Board) Shape() (rows, cols int) {
	return b.opts.Rows, b.opts.Cols
}

func (b *Board) Options() Options { return b.opts }
func (b *Board) Goal() int        { return b.opts.Goal }

// Steps は着手履歴のコピーを返す
func (b *Board) Steps() []Move {
	out := make([]Move, len(b.steps))
	copy(out, b.steps)
	return out
}

// StepCount は着手数を返す
func (b *Board) StepCount() int { return len(b.steps) }

// LastMove は直前の着手を返す
func (b *Board) LastMove() (Move, bool) {
	if len(b.steps) == 0 {
		return Move{}, false
	}
	return b.steps[len(b.steps)-1], true
}

func (b *Board) CurrentPlayer() Player  { return b.current }
func (b *Board) OpponentPlayer() Player { return b.opponent }
func (b *Board) GameEnd() bool          { return b.gameEnd }

// Winner は勝者を返す。未決着・引き分けでは Empty
func (b *Board) Winner() Player { return b.winner }

// Grid は盤面のコピーを返す
func (b *Board) Grid() Grid { return b.grid.Clone() }

// EmptyCells は空きマスを row-major 順で返す
func (b *Board) EmptyCells() []Move {
	moves := make([]Move, 0, len(b.grid.cells)-len(b.steps))
	for r := 0; r < b.opts.Rows; r++ {
		for c := 0; c < b.opts.Cols; c++ {
			if b.grid.At(r, c) == Empty {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// ValidMask は空きマスが 0、埋まったマスが -10 のマスクのコピーを返す
func (b *Board) ValidMask() []float64 {
	out := make([]float64, len(b.valid))
	copy(out, b.valid)
	return out
}

// CertainMoves は現在の手番から見た確定手を返す
func (b *Board) CertainMoves() (Tier, []Move) {
	return FindCandidateMoves(b.grid, b.current, b.opponent, b.opts.Goal)
}

// PredictionWindow は現在の盤面を一手分進めた特徴量を返す。保持している履歴は変更しない
func (b *Board) PredictionWindow() Features {
	w := b.window.Clone()
	w.advance(b.grid, b.current)
	return w.Snapshot()
}

// TrainingFrame は学習用の一手分のデータ
type TrainingFrame struct {
	Features Features `json:"features"`
	Move     Move     `json:"move"`
	Player   Player   `json:"player"`
	// Label は対局が終了した手でのみ設定される。最終的な値は Backfill が決める
	Label  *float64 `json:"label,omitempty"`
	Weight float64  `json:"weight"`
}

// TrainingWindow は直前の着手を含めて更新済みの履歴を返す。
// 直前の着手で対局が終わっていれば Label を 1 にする
func (b *Board) TrainingWindow() TrainingFrame {
	f := TrainingFrame{Features: b.window.Snapshot()}
	if m, ok := b.LastMove(); ok {
		f.Move = m
		f.Player = b.grid.At(m.Row, m.Col)
	}
	if b.gameEnd {
		label := 1.0
		f.Label = &label
	}
	return f
}

// Clone は Board のディープコピーを返す
func (b *Board) Clone() *Board {
	steps := make([]Move, len(b.steps))
	copy(steps, b.steps)
	valid := make([]float64, len(b.valid))
	copy(valid, b.valid)
	return &Board{
		opts:     b.opts,
		grid:     b.grid.Clone(),
		steps:    steps,
		current:  b.current,
		opponent: b.opponent,
		gameEnd:  b.gameEnd,
		winner:   b.winner,
		window:   b.window.Clone(),
		valid:    valid,
	}
}
