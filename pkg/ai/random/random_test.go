package random

import (
	"testing"

	"github.com/montplusa/gobang/pkg/game"
)

func TestSelectMoveEmptyCell(t *testing.T) {
	b, err := game.NewBoard(game.Options{Rows: 3, Cols: 3, Goal: 3, BoardDepth: 1, MoveDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	ai := New()
	for i := 0; i < 9 && !b.GameEnd(); i++ {
		m, err := ai.SelectMove(b)
		if err != nil {
			t.Fatalf("SelectMove: %v", err)
		}
		if !b.IsEmpty(m.Row, m.Col) {
			t.Fatalf("selected occupied cell %v", m)
		}
		b.Move(m.Row, m.Col)
	}
}

func TestCenteredStaysNearCenter(t *testing.T) {
	b, err := game.NewBoard(game.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		m, err := Centered(b, 2)
		if err != nil {
			t.Fatal(err)
		}
		if m.Row < 5 || m.Row > 9 || m.Col < 5 || m.Col > 9 {
			t.Fatalf("move %v outside centre square", m)
		}
	}
}
