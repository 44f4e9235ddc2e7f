package game

import "fmt"

// Player はマスの状態と手番を兼ねる
type Player int8

const (
	Empty     Player = 0
	PlayerOne Player = 1
	PlayerTwo Player = -1
)

// Opponent は相手プレイヤーを返す (Empty は Empty のまま)
func (p Player) Opponent() Player {
	return -p
}

func (p Player) String() string {
	switch p {
	case PlayerOne:
		return "one"
	case PlayerTwo:
		return "two"
	default:
		return "empty"
	}
}

// Move は (row, col) の一手
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Grid は rows×cols の盤面 (row-major)
type Grid struct {
	rows  int
	cols  int
	cells []Player
}

// NewGrid は空の盤面を返す
func NewGrid(rows, cols int) Grid {
	return Grid{rows: rows, cols: cols, cells: make([]Player, rows*cols)}
}

// GridFromRows は行ごとの値から盤面を作る。全行の長さが揃っていることが前提
func GridFromRows(rows [][]Player) Grid {
	g := NewGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.cols {
			panic(fmt.Sprintf("game: row %d has %d cells, want %d", r, len(row), g.cols))
		}
		copy(g.cells[r*g.cols:], row)
	}
	return g
}

func (g Grid) Rows() int { return g.rows }
func (g Grid) Cols() int { return g.cols }

func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.rows && col < g.cols
}

func (g Grid) At(row, col int) Player {
	return g.cells[g.index(row, col)]
}

func (g Grid) Set(row, col int, p Player) {
	g.cells[g.index(row, col)] = p
}

// Full は空きマスが一つもないかを返す
func (g Grid) Full() bool {
	for _, c := range g.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

// Clear は全マスを Empty に戻す
func (g Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Empty
	}
}

// Clone は Grid のディープコピーを返す
func (g Grid) Clone() Grid {
	cells := make([]Player, len(g.cells))
	copy(cells, g.cells)
	return Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Rows2D は JSON 出力用に二次元スライスへ展開する
func (g Grid) Rows2D() [][]int {
	out := make([][]int, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = make([]int, g.cols)
		for c := 0; c < g.cols; c++ {
			out[r][c] = int(g.At(r, c))
		}
	}
	return out
}

// Perspective は player の石を +1、相手の石を -1 とした盤面を返す
func (g Grid) Perspective(player Player) []float64 {
	out := make([]float64, len(g.cells))
	for i, c := range g.cells {
		switch c {
		case Empty:
		case player:
			out[i] = 1
		default:
			out[i] = -1
		}
	}
	return out
}

func (g Grid) index(row, col int) int {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("game: cell (%d,%d) outside %dx%d grid", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}
