package neural

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/montplusa/gobang/pkg/game"
	"github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
	"github.com/pkg/errors"
)

// NetworkConfig defines the network architecture, the board shape it was built for and its weights
type NetworkConfig struct {
	Name         string        `json:"name" yaml:"name"`
	Rows         int           `json:"rows" yaml:"rows"`
	Cols         int           `json:"cols" yaml:"cols"`
	BoardDepth   int           `json:"board_depth" yaml:"board_depth"`
	MoveDepth    int           `json:"move_depth" yaml:"move_depth"`
	HiddenLayers []int         `json:"hidden_layers" yaml:"hidden_layers"`
	LearningRate float64       `json:"learning_rate" yaml:"learning_rate"`
	Momentum     float64       `json:"momentum" yaml:"momentum"`
	Weights      [][][]float64 `json:"weights,omitempty" yaml:"-"`
}

func DefaultNetworkConfig() NetworkConfig {
	opts := game.DefaultOptions()
	return NetworkConfig{
		Name:         "default",
		Rows:         opts.Rows,
		Cols:         opts.Cols,
		BoardDepth:   opts.BoardDepth,
		MoveDepth:    opts.MoveDepth,
		HiddenLayers: []int{128},
		LearningRate: 0.01,
		Momentum:     0.5,
	}
}

// InputSize is the number of network inputs for this configuration
func (c NetworkConfig) InputSize() int {
	return InputSize(c.Rows, c.Cols, c.BoardDepth, c.MoveDepth)
}

// Matches reports whether boards built with opts produce inputs this network accepts
func (c NetworkConfig) Matches(opts game.Options) bool {
	return c.Rows == opts.Rows && c.Cols == opts.Cols &&
		c.BoardDepth == opts.BoardDepth && c.MoveDepth == opts.MoveDepth
}

// Network is a policy network mapping a feature window to one score per cell.
// go-deep keeps activations inside the neurons, so every forward pass holds mu
type Network struct {
	mu      sync.Mutex
	network *deep.Neural
	trainer *training.OnlineTrainer
	config  NetworkConfig
}

// NewNetwork creates the network and applies config.Weights when present
func NewNetwork(config NetworkConfig) (*Network, error) {
	if config.Rows <= 0 || config.Cols <= 0 || config.BoardDepth <= 0 || config.MoveDepth <= 0 {
		return nil, errors.Errorf("neural: invalid shape %dx%d depth %d/%d",
			config.Rows, config.Cols, config.BoardDepth, config.MoveDepth)
	}
	var layers []int
	layers = append(layers, config.HiddenLayers...)
	layers = append(layers, config.Rows*config.Cols) // Output: one score per cell

	network := deep.NewNeural(&deep.Config{
		Inputs:     config.InputSize(),
		Layout:     layers,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeBinary,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})

	// Apply loaded weights if any
	if config.Weights != nil {
		if len(config.Weights) != len(layers) {
			return nil, errors.Errorf("neural: weights have %d layers, want %d", len(config.Weights), len(layers))
		}
		network.ApplyWeights(config.Weights)
	}

	return &Network{
		network: network,
		trainer: training.NewTrainer(training.NewSGD(config.LearningRate, config.Momentum, 0.0, false), 0),
		config:  config,
	}, nil
}

// Config returns the configuration without weights
func (n *Network) Config() NetworkConfig {
	c := n.config
	c.Weights = nil
	return c
}

// Predict implements Predictor
func (n *Network) Predict(f game.Features) ([]float64, error) {
	if f.Rows != n.config.Rows || f.Cols != n.config.Cols ||
		len(f.Board) != n.config.BoardDepth || len(f.Mine) != n.config.MoveDepth {
		return nil, errors.Errorf("neural: features %dx%d depth %d/%d do not fit network %q",
			f.Rows, f.Cols, len(f.Board), len(f.Mine), n.config.Name)
	}
	input := Inputs(f)
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.network.Predict(input), nil
}

// Fit runs one training pass over labelled frames. Only the output of the
// cell actually played is pulled toward its label, scaled by the frame weight;
// every other output is its own target. It returns the weighted squared
// error of the played cells before the update
func (n *Network) Fit(frames []game.TrainingFrame) float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	examples := make(training.Examples, 0, len(frames))
	var loss float64
	for _, f := range frames {
		if f.Label == nil {
			continue
		}
		input := Inputs(f.Features)
		pred := n.network.Predict(input)
		target := make([]float64, len(pred))
		copy(target, pred)
		idx := f.Move.Row*n.config.Cols + f.Move.Col
		diff := *f.Label - pred[idx]
		loss += f.Weight * diff * diff
		target[idx] = pred[idx] + f.Weight*diff
		examples = append(examples, training.Example{Input: input, Response: target})
	}
	if len(examples) == 0 {
		return 0
	}
	examples.Shuffle()
	n.trainer.Train(n.network, examples, nil, 1)
	return loss / float64(len(examples))
}

// Save writes the configuration and current weights as JSON
func (n *Network) Save(path string) error {
	n.mu.Lock()
	config := n.config
	config.Weights = n.network.Dump().Weights
	n.mu.Unlock()

	data, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "encode network")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write network %s", path)
	}
	return nil
}

// Load reads a network written by Save
func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read network %s", path)
	}
	var config NetworkConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "decode network %s", path)
	}
	return NewNetwork(config)
}
