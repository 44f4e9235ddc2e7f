package random

import (
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
	"lukechampine.com/frand"
)

// RandomAI は空きマスから一様ランダムに打つ実装
type RandomAI struct{}

// New は RandomAI を生成する
func New() *RandomAI { return &RandomAI{} }

func (r *RandomAI) Name() string { return "random" }

func (r *RandomAI) SelectMove(b *game.Board) (game.Move, error) {
	return Pick(b)
}

// Pick は b の空きマスを一つランダムに選ぶ
func Pick(b *game.Board) (game.Move, error) {
	cells := b.EmptyCells()
	if len(cells) == 0 {
		return game.Move{}, errors.New("random: no empty cell")
	}
	return cells[frand.Intn(len(cells))], nil
}

// Centered は盤面中央から半径 radius の正方形内の空きマスを一つ選ぶ。
// 候補がなければ盤面全体から選ぶ
func Centered(b *game.Board, radius int) (game.Move, error) {
	rows, cols := b.Shape()
	cr, cc := rows/2, cols/2
	var cells []game.Move
	for r := cr - radius; r <= cr+radius; r++ {
		for c := cc - radius; c <= cc+radius; c++ {
			if b.IsEmpty(r, c) {
				cells = append(cells, game.Move{Row: r, Col: c})
			}
		}
	}
	if len(cells) == 0 {
		return Pick(b)
	}
	return cells[frand.Intn(len(cells))], nil
}
