package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/montplusa/gobang/pkg/ai/neural"
	"github.com/montplusa/gobang/pkg/game"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Game != game.DefaultOptions() {
		t.Fatalf("Game = %+v", cfg.Game)
	}
	if err := cfg.Game.Validate(); err != nil {
		t.Fatalf("default game options invalid: %v", err)
	}
	nc := cfg.NetworkConfig()
	if !nc.Matches(cfg.Game) {
		t.Fatalf("network config %+v does not match game options", nc)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
game:
  rows: 9
  cols: 9
training:
  episodes: 5
  opponent: mcts
agent:
  random_rate: 0.3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.Rows != 9 || cfg.Game.Cols != 9 {
		t.Fatalf("board = %dx%d, want 9x9", cfg.Game.Rows, cfg.Game.Cols)
	}
	// 書かれていない項目は既定値のまま
	if cfg.Game.Goal != 5 || cfg.Game.BoardDepth != 10 {
		t.Fatalf("goal/depth = %d/%d, want defaults", cfg.Game.Goal, cfg.Game.BoardDepth)
	}
	if cfg.Training.Episodes != 5 || cfg.Training.Opponent != "mcts" {
		t.Fatalf("training = %+v", cfg.Training)
	}
	if cfg.Training.Workers != Default().Training.Workers {
		t.Fatalf("workers = %d, want default", cfg.Training.Workers)
	}
	if cfg.Agent.RandomRate != 0.3 || cfg.Agent.RuleBonus != 10 {
		t.Fatalf("agent = %+v", cfg.Agent)
	}
	if cfg.Network.Path != Default().Network.Path {
		t.Fatalf("network path = %q", cfg.Network.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load of missing file returned nil error")
	}
	if _, err := Load(writeFile(t, "game: [1, 2")); err == nil {
		t.Fatalf("Load of malformed YAML returned nil error")
	}
	if _, err := Load(writeFile(t, "game:\n  rows: 3\n")); err == nil {
		t.Fatalf("Load accepted rows smaller than goal")
	}
}

func TestAgent(t *testing.T) {
	cfg := Default()
	for _, name := range []string{"trivial", "random", "rule", "mcts"} {
		a, err := cfg.Agent(name, cfg.Game)
		if err != nil {
			t.Fatalf("Agent(%q): %v", name, err)
		}
		if a.Name() != name {
			t.Fatalf("Agent(%q).Name() = %q", name, a.Name())
		}
	}
	if _, err := cfg.Agent("alphazero", cfg.Game); err == nil {
		t.Fatal("unknown agent accepted")
	}
}

func TestNeuralAgentShape(t *testing.T) {
	cfg := Default()
	cfg.Game = game.Options{Rows: 5, Cols: 5, Goal: 4, BoardDepth: 2, MoveDepth: 2}
	cfg.Network.HiddenLayers = []int{8}
	cfg.Network.Path = filepath.Join(t.TempDir(), "network.json")

	n, err := neural.NewNetwork(cfg.NetworkConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Save(cfg.Network.Path); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.Agent("neural", cfg.Game); err != nil {
		t.Fatalf("Agent(neural): %v", err)
	}
	other := cfg.Game
	other.Rows = 6
	if _, err := cfg.Agent("neural", other); err == nil {
		t.Fatal("network accepted for a different board")
	}

	cfg.Network.Path = filepath.Join(t.TempDir(), "missing.json")
	if _, err := cfg.Agent("neural", cfg.Game); err == nil {
		t.Fatal("missing network file accepted")
	}
}
