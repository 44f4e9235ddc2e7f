package game

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

// scripted は決められた手を順に返す
type scripted struct {
	name  string
	moves []Move
	next  int
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) SelectMove(b *Board) (Move, error) {
	if s.next >= len(s.moves) {
		return Move{}, errors.New("script exhausted")
	}
	m := s.moves[s.next]
	s.next++
	return m, nil
}

func TestRunnerWin(t *testing.T) {
	b := mustBoard(t, DefaultOptions())
	one := &scripted{name: "one", moves: []Move{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}}}
	two := &scripted{name: "two", moves: []Move{{1, 0}, {1, 1}, {1, 2}, {1, 3}}}
	r := NewRunner(b, one, two)
	r.Collect = true

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Winner != PlayerOne || res.WinnerName() != "one" || res.Status != "win" {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Moves) != 9 || len(res.Frames) != 9 {
		t.Fatalf("moves=%d frames=%d, want 9", len(res.Moves), len(res.Frames))
	}
	last := res.Frames[len(res.Frames)-1]
	if *last.Label != 1 || last.Weight != 1 {
		t.Fatalf("last frame label=%v weight=%v", *last.Label, last.Weight)
	}
	if *res.Frames[1].Label != 0 || res.Frames[1].Weight != 0.25 {
		t.Fatalf("loser frame label=%v weight=%v", *res.Frames[1].Label, res.Frames[1].Weight)
	}
}

func TestRunnerRejectsOccupiedCell(t *testing.T) {
	b := mustBoard(t, DefaultOptions())
	one := &scripted{name: "one", moves: []Move{{7, 7}, {7, 8}}}
	two := &scripted{name: "two", moves: []Move{{7, 7}}}
	_, err := NewRunner(b, one, two).Run(context.Background())
	if errors.Cause(err) != ErrAgentMove {
		t.Fatalf("err = %v, want ErrAgentMove", err)
	}
}

func TestRunnerCancelled(t *testing.T) {
	b := mustBoard(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	one := &scripted{name: "one", moves: []Move{{0, 0}}}
	two := &scripted{name: "two"}
	res, err := NewRunner(b, one, two).Run(ctx)
	if errors.Cause(err) != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(res.Moves) != 0 {
		t.Fatalf("moves played after cancel: %v", res.Moves)
	}
}
