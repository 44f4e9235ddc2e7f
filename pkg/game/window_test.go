package game

import (
	"reflect"
	"testing"
)

func TestRingEviction(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 3; i++ {
		if _, ok := r.Push(i); ok {
			t.Fatalf("push %d evicted while not full", i)
		}
	}
	evicted, ok := r.Push(4)
	if !ok || evicted != 1 {
		t.Fatalf("Push(4) evicted (%d, %v), want (1, true)", evicted, ok)
	}
	got := []int{r.At(0), r.At(1), r.At(2)}
	if want := []int{2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ring = %v, want %v", got, want)
	}

	c := r.Clone()
	c.Push(5)
	if r.At(0) != 2 {
		t.Fatalf("clone shares state with original")
	}
	r.Reset()
	if r.Len() != 0 || r.Cap() != 3 {
		t.Fatalf("after reset Len=%d Cap=%d", r.Len(), r.Cap())
	}
}

func TestHistoryNegate(t *testing.T) {
	h := newHistory(2, 2)
	h.push([]float64{1, 0})
	h.negate()
	h.push([]float64{0, 1})
	if got := h.frame(0); !reflect.DeepEqual(got, []float64{-1, 0}) {
		t.Fatalf("frame(0) = %v", got)
	}
	if got := h.frame(1); !reflect.DeepEqual(got, []float64{0, 1}) {
		t.Fatalf("frame(1) = %v", got)
	}
}

func smallOptions() Options {
	return Options{Rows: 3, Cols: 3, Goal: 3, BoardDepth: 2, MoveDepth: 2}
}

func mustBoard(t *testing.T, opts Options) *Board {
	t.Helper()
	b, err := NewBoard(opts)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

func TestWindowFollowsMoves(t *testing.T) {
	b := mustBoard(t, smallOptions())
	b.Move(0, 0)
	b.Move(1, 1)

	f := b.TrainingWindow().Features
	if len(f.Board) != 2 || len(f.Mine) != 2 || len(f.Theirs) != 2 {
		t.Fatalf("depths = %d/%d/%d, want 2/2/2", len(f.Board), len(f.Mine), len(f.Theirs))
	}
	// 二手目は一手目の後の盤面を後手視点で見る
	if f.Board[1][0] != -1 {
		t.Fatalf("board latest = %v", f.Board[1])
	}
	if f.Theirs[1][0] != -1 {
		t.Fatalf("theirs latest = %v", f.Theirs[1])
	}
	for _, frame := range f.Mine {
		for _, v := range frame {
			if v != 0 {
				t.Fatalf("mine = %v, want zeros", f.Mine)
			}
		}
	}

	b.Move(0, 1)
	f = b.TrainingWindow().Features
	want := []float64{1, 0, 0, 0, -1, 0, 0, 0, 0}
	if !reflect.DeepEqual(f.Board[1], want) {
		t.Fatalf("board latest = %v, want %v", f.Board[1], want)
	}
	if f.Board[0][0] != 1 {
		t.Fatalf("board previous = %v, want negated frame", f.Board[0])
	}
	if f.Mine[1][0] != 1 {
		t.Fatalf("mine latest = %v, want own previous move", f.Mine[1])
	}
	if f.Theirs[1][4] != -1 {
		t.Fatalf("theirs latest = %v, want opponent move", f.Theirs[1])
	}
}

func TestPredictionWindowDoesNotMutate(t *testing.T) {
	b := mustBoard(t, smallOptions())
	b.Move(0, 0)
	b.Move(1, 1)

	before := b.TrainingWindow().Features
	pw := b.PredictionWindow()
	after := b.TrainingWindow().Features
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("PredictionWindow mutated stored history")
	}
	latest := pw.Board[len(pw.Board)-1]
	if want := b.Grid().Perspective(b.CurrentPlayer()); !reflect.DeepEqual(latest, want) {
		t.Fatalf("prediction board = %v, want %v", latest, want)
	}
	if got, want := len(pw.Flatten()), pw.Planes()*9; got != want {
		t.Fatalf("Flatten len = %d, want %d", got, want)
	}
}
