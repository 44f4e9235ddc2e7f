package game

import (
	"math"
	"testing"
)

func frameFor(p Player) TrainingFrame {
	return TrainingFrame{Player: p}
}

func TestBackfillWin(t *testing.T) {
	frames := []TrainingFrame{
		frameFor(PlayerOne), frameFor(PlayerTwo),
		frameFor(PlayerOne), frameFor(PlayerTwo),
		frameFor(PlayerOne),
	}
	Backfill(frames, PlayerOne)

	wantWeights := []float64{0.5 + 1.0/6, 0.5, 0.5 + 2.0/6, 0.5, 1}
	for i, f := range frames {
		if f.Label == nil {
			t.Fatalf("frame %d has no label", i)
		}
		wantLabel := 0.0
		if f.Player == PlayerOne {
			wantLabel = 1
		}
		if *f.Label != wantLabel {
			t.Errorf("frame %d label = %v, want %v", i, *f.Label, wantLabel)
		}
		if math.Abs(f.Weight-wantWeights[i]) > 1e-9 {
			t.Errorf("frame %d weight = %v, want %v", i, f.Weight, wantWeights[i])
		}
	}
}

func TestBackfillDraw(t *testing.T) {
	frames := []TrainingFrame{frameFor(PlayerOne), frameFor(PlayerTwo), frameFor(PlayerOne), frameFor(PlayerTwo)}
	Backfill(frames, Empty)
	for i, f := range frames {
		if f.Label == nil || *f.Label != 0.5 || f.Weight != 0.25 {
			t.Fatalf("frame %d = label %v weight %v", i, f.Label, f.Weight)
		}
	}
}
