package game

// Direction は走査方向 (dRow, dCol)
type Direction struct {
	DRow int
	DCol int
}

// Directions は横・縦・右下がり・左下がりの 4 方向
var Directions = [4]Direction{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Line は走査中のウィンドウ。Cells と Moves は同じ並び
type Line struct {
	Dir   Direction
	Cells []Player
	Moves []Move
}

// ScanLines は 4 方向すべてについて長さ length のウィンドウを盤面内の全開始位置で
// 走査し、visit が false を返した時点で打ち切る。Line のスライスは呼び出し間で再利用される
func ScanLines(g Grid, length int, visit func(Line) bool) {
	if length <= 0 {
		return
	}
	line := Line{
		Cells: make([]Player, length),
		Moves: make([]Move, length),
	}
	for _, d := range Directions {
		line.Dir = d
		for r := 0; r < g.rows; r++ {
			for c := 0; c < g.cols; c++ {
				endRow := r + d.DRow*(length-1)
				endCol := c + d.DCol*(length-1)
				if !g.InBounds(endRow, endCol) {
					continue
				}
				for i := 0; i < length; i++ {
					row, col := r+d.DRow*i, c+d.DCol*i
					line.Cells[i] = g.cells[row*g.cols+col]
					line.Moves[i] = Move{Row: row, Col: col}
				}
				if !visit(line) {
					return
				}
			}
		}
	}
}
