package config

import (
	"github.com/montplusa/gobang/pkg/ai/mcts"
	"github.com/montplusa/gobang/pkg/ai/neural"
	"github.com/montplusa/gobang/pkg/ai/onnx"
	"github.com/montplusa/gobang/pkg/ai/random"
	"github.com/montplusa/gobang/pkg/ai/rule"
	"github.com/montplusa/gobang/pkg/ai/trivial"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
)

// AgentNames はコマンドラインで指定できるエージェント名
var AgentNames = []string{"trivial", "random", "rule", "mcts", "neural", "onnx"}

// Agent は名前からエージェントを作る。
// neural と onnx は設定ファイルのパスからモデルを読み込み、盤面の大きさが合わなければエラー
func (c Config) Agent(name string, opts game.Options) (game.Agent, error) {
	switch name {
	case "trivial":
		return trivial.New(), nil
	case "random":
		return random.New(), nil
	case "rule":
		return rule.New(c.Rule), nil
	case "mcts":
		return mcts.New(c.MCTS), nil
	case "neural":
		n, err := neural.Load(c.Network.Path)
		if err != nil {
			return nil, err
		}
		if !n.Config().Matches(opts) {
			return nil, errors.Errorf("network %s does not fit a %dx%d board", c.Network.Path, opts.Rows, opts.Cols)
		}
		return neural.NewAgent(n, c.Agent), nil
	case "onnx":
		p, err := onnx.Load(c.Network.ONNX)
		if err != nil {
			return nil, err
		}
		return neural.NewPolicy("onnx", p, c.Agent), nil
	}
	return nil, errors.Errorf("unknown agent %q", name)
}
