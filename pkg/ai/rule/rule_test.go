package rule

import (
	"testing"

	"github.com/montplusa/gobang/pkg/game"
)

func playAll(t *testing.T, b *game.Board, moves ...game.Move) {
	t.Helper()
	for _, m := range moves {
		if status, _ := b.Move(m.Row, m.Col); status != game.StatusContinue {
			t.Fatalf("Move%v = %v", m, status)
		}
	}
}

func newBoard(t *testing.T) *game.Board {
	t.Helper()
	b, err := game.NewBoard(game.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestRuleOpensInCenter(t *testing.T) {
	b := newBoard(t)
	m, err := New(DefaultWeights()).SelectMove(b)
	if err != nil {
		t.Fatal(err)
	}
	if m != (game.Move{Row: 7, Col: 7}) {
		t.Fatalf("first move = %v, want centre", m)
	}
}

func TestRuleTakesWin(t *testing.T) {
	b := newBoard(t)
	playAll(t, b,
		game.Move{Row: 7, Col: 3}, game.Move{Row: 0, Col: 0},
		game.Move{Row: 7, Col: 4}, game.Move{Row: 0, Col: 2},
		game.Move{Row: 7, Col: 5}, game.Move{Row: 0, Col: 4},
		game.Move{Row: 7, Col: 6}, game.Move{Row: 0, Col: 6},
	)
	m, err := New(DefaultWeights()).SelectMove(b)
	if err != nil {
		t.Fatal(err)
	}
	if m != (game.Move{Row: 7, Col: 2}) && m != (game.Move{Row: 7, Col: 7}) {
		t.Fatalf("move = %v, want a winning cell", m)
	}
}

func TestRuleBlocksWin(t *testing.T) {
	b := newBoard(t)
	playAll(t, b,
		game.Move{Row: 0, Col: 0}, game.Move{Row: 3, Col: 10},
		game.Move{Row: 14, Col: 14}, game.Move{Row: 4, Col: 10},
		game.Move{Row: 0, Col: 14}, game.Move{Row: 5, Col: 10},
		game.Move{Row: 2, Col: 10}, game.Move{Row: 6, Col: 10},
	)
	m, err := New(DefaultWeights()).SelectMove(b)
	if err != nil {
		t.Fatal(err)
	}
	if m != (game.Move{Row: 7, Col: 10}) {
		t.Fatalf("move = %v, want block at (7,10)", m)
	}
}

func TestRulePrefersOwnThreat(t *testing.T) {
	b := newBoard(t)
	ai := New(DefaultWeights())
	playAll(t, b,
		game.Move{Row: 7, Col: 7}, game.Move{Row: 0, Col: 0},
		game.Move{Row: 7, Col: 8}, game.Move{Row: 0, Col: 14},
	)
	g := b.Grid()
	extend := ai.Score(g, game.Move{Row: 7, Col: 9}, game.PlayerOne, 5)
	far := ai.Score(g, game.Move{Row: 10, Col: 3}, game.PlayerOne, 5)
	if extend <= far {
		t.Fatalf("extending score %v <= isolated score %v", extend, far)
	}
}

func TestNearby(t *testing.T) {
	g := game.NewGrid(5, 5)
	g.Set(0, 0, game.PlayerOne)
	if got := len(Nearby(g, 1)); got != 3 {
		t.Fatalf("Nearby = %d cells, want 3", got)
	}
}
