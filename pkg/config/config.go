package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/montplusa/gobang/pkg/ai/mcts"
	"github.com/montplusa/gobang/pkg/ai/neural"
	"github.com/montplusa/gobang/pkg/ai/rule"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
)

// Config は各コマンドが共有する設定。YAML ファイルで上書きでき、書かれていない項目は既定値のまま
type Config struct {
	Game     game.Options    `yaml:"game"`
	Network  NetworkSection  `yaml:"network"`
	Agent    neural.Options  `yaml:"agent"`
	Rule     rule.Weights    `yaml:"rule"`
	MCTS     mcts.Options    `yaml:"mcts"`
	Training TrainingSection `yaml:"training"`
	Battle   BattleSection   `yaml:"battle"`
	Server   ServerSection   `yaml:"server"`
	Store    StoreSection    `yaml:"store"`
}

type NetworkSection struct {
	Name         string  `yaml:"name"`
	Path         string  `yaml:"path"`
	ONNX         string  `yaml:"onnx"`
	HiddenLayers []int   `yaml:"hidden_layers"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
}

type TrainingSection struct {
	Episodes       int     `yaml:"episodes"`
	Workers        int     `yaml:"workers"`
	ReportInterval int     `yaml:"report_interval"`
	SaveInterval   int     `yaml:"save_interval"`
	RandomRate     float64 `yaml:"random_rate"`
	Opponent       string  `yaml:"opponent"`
}

type BattleSection struct {
	Games   int    `yaml:"games"`
	Workers int    `yaml:"workers"`
	Output  string `yaml:"output"`
	Prefix  string `yaml:"prefix"`
}

type ServerSection struct {
	Addr  string `yaml:"addr"`
	Agent string `yaml:"agent"`
}

type StoreSection struct {
	Path string `yaml:"path"`
}

// Default は既定の設定を返す
func Default() Config {
	net := neural.DefaultNetworkConfig()
	return Config{
		Game: game.DefaultOptions(),
		Network: NetworkSection{
			Name:         net.Name,
			Path:         "data/network.json",
			ONNX:         "data/policy.onnx",
			HiddenLayers: net.HiddenLayers,
			LearningRate: net.LearningRate,
			Momentum:     net.Momentum,
		},
		Agent: neural.DefaultOptions(),
		Rule:  rule.DefaultWeights(),
		MCTS:  mcts.DefaultOptions(),
		Training: TrainingSection{
			Episodes:       1000,
			Workers:        4,
			ReportInterval: 10,
			SaveInterval:   100,
			RandomRate:     0.1,
			Opponent:       "rule",
		},
		Battle: BattleSection{
			Games:   10,
			Workers: 4,
			Output:  "results",
			Prefix:  "battle",
		},
		Server: ServerSection{
			Addr:  ":8080",
			Agent: "rule",
		},
	}
}

// Load は path の YAML を既定値の上に読み込む。ファイルがなければエラー
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Game.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// NetworkConfig は盤面設定と network セクションから重みなしのネットワーク設定を作る
func (c Config) NetworkConfig() neural.NetworkConfig {
	return neural.NetworkConfig{
		Name:         c.Network.Name,
		Rows:         c.Game.Rows,
		Cols:         c.Game.Cols,
		BoardDepth:   c.Game.BoardDepth,
		MoveDepth:    c.Game.MoveDepth,
		HiddenLayers: c.Network.HiddenLayers,
		LearningRate: c.Network.LearningRate,
		Momentum:     c.Network.Momentum,
	}
}
