package onnx

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/montplusa/gobang/pkg/game"
	"gorgonia.org/tensor"
)

func TestInputTensorShape(t *testing.T) {
	b, err := game.NewBoard(game.Options{Rows: 5, Cols: 6, Goal: 4, BoardDepth: 3, MoveDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	b.Move(1, 1)
	in := inputTensor(b.PredictionWindow())
	if want := (tensor.Shape{1, 7, 5, 6}); !reflect.DeepEqual(in.Shape(), want) {
		t.Fatalf("shape = %v, want %v", in.Shape(), want)
	}
	data := in.Data().([]float32)
	// 最新の盤面フレーム (チャネル 2) の (1,1) は相手の石
	if got := data[2*30+1*6+1]; got != -1 {
		t.Fatalf("latest frame (1,1) = %v, want -1", got)
	}
}

func TestScores(t *testing.T) {
	out := tensor.New(tensor.WithShape(1, 4), tensor.WithBacking([]float32{0.1, 0.2, 0.3, 0.4}))
	got, err := scores(out, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{0.1, 0.2, 0.3, 0.4} {
		if diff := got[i] - want; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("scores[%d] = %v, want %v", i, got[i], want)
		}
	}
	if _, err := scores(out, 9); err == nil {
		t.Fatalf("scores accepted a wrong cell count")
	}
}

func TestNewRejectsGarbage(t *testing.T) {
	if _, err := New([]byte("not a model")); err == nil {
		t.Fatalf("New accepted invalid bytes")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.onnx")); err == nil {
		t.Fatalf("Load accepted a missing file")
	}
}
