//go:build js && wasm
// +build js,wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/montplusa/gobang/pkg/ai/mcts"
	"github.com/montplusa/gobang/pkg/ai/random"
	"github.com/montplusa/gobang/pkg/ai/rule"
	"github.com/montplusa/gobang/pkg/ai/trivial"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
)

// newAgent はブラウザで使えるエージェントを名前から作る (モデルファイルを読むものは除く)
func newAgent(name string) (game.Agent, error) {
	switch name {
	case "trivial":
		return trivial.New(), nil
	case "random":
		return random.New(), nil
	case "rule":
		return rule.New(rule.DefaultWeights()), nil
	case "mcts":
		opts := mcts.DefaultOptions()
		opts.Simulations = 300
		return mcts.New(opts), nil
	}
	return nil, errors.Errorf("unknown agent %q", name)
}

func errorJSON(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

// runBattle(first, second, rows, cols, goal) は一局を実行して BattleResult の JSON 文字列を返す
func runBattle(this js.Value, args []js.Value) interface{} {
	opts := game.DefaultOptions()
	first, second := "rule", "random"
	if len(args) >= 2 {
		first, second = args[0].String(), args[1].String()
	}
	if len(args) >= 5 {
		opts.Rows, opts.Cols, opts.Goal = args[2].Int(), args[3].Int(), args[4].Int()
	}

	// 1) AI の初期化
	ai1, err := newAgent(first)
	if err != nil {
		return errorJSON(err)
	}
	ai2, err := newAgent(second)
	if err != nil {
		return errorJSON(err)
	}
	board, err := game.NewBoard(opts)
	if err != nil {
		return errorJSON(err)
	}

	// 2) Runner の実行
	result, err := game.NewRunner(board, ai1, ai2).Run(context.Background())
	if err != nil {
		return errorJSON(err)
	}

	// 3) JSON 文字列にシリアライズ
	b, _ := json.Marshal(result)
	return string(b)
}

func main() {
	js.Global().Set("runBattle", js.FuncOf(runBattle))
	select {} // ブロック
}
