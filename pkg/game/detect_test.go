package game

import "testing"

func TestEvaluateRuns(t *testing.T) {
	tests := []struct {
		name  string
		moves []Move
	}{
		{"horizontal", []Move{{2, 1}, {2, 2}, {2, 3}, {2, 4}, {2, 5}}},
		{"vertical", []Move{{0, 7}, {1, 7}, {2, 7}, {3, 7}, {4, 7}}},
		{"diagonal", []Move{{3, 3}, {4, 4}, {5, 5}, {6, 6}, {7, 7}}},
		{"anti-diagonal", []Move{{0, 4}, {1, 3}, {2, 2}, {3, 1}, {4, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(8, 8)
			for _, m := range tt.moves {
				g.Set(m.Row, m.Col, PlayerOne)
			}
			if got := Evaluate(g, PlayerOne, 5); got != OutcomeWin {
				t.Fatalf("Evaluate(one) = %v, want win", got)
			}
			if got := Evaluate(g, PlayerTwo, 5); got != OutcomeNone {
				t.Fatalf("Evaluate(two) = %v, want none", got)
			}
		})
	}
}

func TestEvaluateBrokenRun(t *testing.T) {
	g := NewGrid(8, 8)
	for _, c := range []int{0, 1, 2, 3, 5, 6} {
		g.Set(0, c, PlayerOne)
	}
	g.Set(0, 4, PlayerTwo)
	if got := Evaluate(g, PlayerOne, 5); got != OutcomeNone {
		t.Fatalf("Evaluate = %v, want none", got)
	}
	if got := Evaluate(g, PlayerOne, 4); got != OutcomeWin {
		t.Fatalf("Evaluate with run length 4 = %v, want win", got)
	}
}

// drawGrid は最長でも 2 連にしかならない詰め方で盤面を埋める
func drawGrid(rows, cols int) Grid {
	g := NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if (c/2+r)%2 == 0 {
				g.Set(r, c, PlayerOne)
			} else {
				g.Set(r, c, PlayerTwo)
			}
		}
	}
	return g
}

func TestEvaluateDraw(t *testing.T) {
	g := NewGrid(8, 8)
	for _, p := range []Player{PlayerOne, PlayerTwo} {
		if got := Evaluate(g, p, 5); got != OutcomeNone {
			t.Fatalf("empty board: Evaluate(%v) = %v, want none", p, got)
		}
	}

	g = drawGrid(8, 8)
	for _, p := range []Player{PlayerOne, PlayerTwo} {
		if got := Evaluate(g, p, 5); got != OutcomeDraw {
			t.Fatalf("full board: Evaluate(%v) = %v, want draw", p, got)
		}
		if got := Evaluate(g, p, 3); got != OutcomeDraw {
			t.Fatalf("full board: Evaluate(%v, 3) = %v, want draw", p, got)
		}
	}
}

func TestScanLinesStopsEarly(t *testing.T) {
	g := NewGrid(6, 6)
	calls := 0
	ScanLines(g, 3, func(Line) bool {
		calls++
		return calls < 4
	})
	if calls != 4 {
		t.Fatalf("visit called %d times, want 4", calls)
	}
}

func TestScanLinesCount(t *testing.T) {
	// 4x4 盤面で長さ 3: 横 8, 縦 8, 斜め 4, 逆斜め 4
	g := NewGrid(4, 4)
	counts := map[Direction]int{}
	ScanLines(g, 3, func(l Line) bool {
		counts[l.Dir]++
		return true
	})
	want := map[Direction]int{{0, 1}: 8, {1, 0}: 8, {1, 1}: 4, {1, -1}: 4}
	for d, n := range want {
		if counts[d] != n {
			t.Errorf("direction %v: %d windows, want %d", d, counts[d], n)
		}
	}
}
