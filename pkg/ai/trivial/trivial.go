package trivial

import (
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
)

// TrivialAI は行優先で最初の空きマスに打つ。結果が決まるのでテストや比較の基準に使う
type TrivialAI struct{}

func (ai *TrivialAI) Name() string {
	return "trivial"
}

func New() *TrivialAI {
	return &TrivialAI{}
}

// SelectMove は左上から走査して最初の空きマスを返します
func (ai *TrivialAI) SelectMove(b *game.Board) (game.Move, error) {
	rows, cols := b.Shape()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if b.IsEmpty(r, c) {
				return game.Move{Row: r, Col: c}, nil
			}
		}
	}
	return game.Move{}, errors.New("trivial: no empty cell")
}
