package neural

import (
	"fmt"

	"github.com/montplusa/gobang/pkg/ai/random"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
	"lukechampine.com/frand"
)

// Predictor maps a feature window to one score per cell (row-major)
type Predictor interface {
	Predict(f game.Features) ([]float64, error)
}

// Options tune how a Policy turns scores into moves
type Options struct {
	// RandomRate is the probability of playing a random empty cell instead
	RandomRate float64 `yaml:"random_rate" json:"random_rate"`
	// RuleBonus is added to the score of every tactical candidate
	RuleBonus float64 `yaml:"rule_bonus" json:"rule_bonus"`
	// FirstMoveRadius bounds the random opening move around the centre
	FirstMoveRadius int `yaml:"first_move_radius" json:"first_move_radius"`
}

func DefaultOptions() Options {
	return Options{
		RandomRate:      0,
		RuleBonus:       10,
		FirstMoveRadius: 2,
	}
}

// Policy is a game.Agent playing the highest scoring empty cell
type Policy struct {
	name      string
	predictor Predictor
	opts      Options
}

func NewPolicy(name string, p Predictor, opts Options) *Policy {
	return &Policy{name: name, predictor: p, opts: opts}
}

// NewAgent wraps a network as an agent
func NewAgent(n *Network, opts Options) *Policy {
	return NewPolicy(fmt.Sprintf("neural (%s)", n.config.Name), n, opts)
}

func (p *Policy) Name() string { return p.name }

func (p *Policy) SelectMove(b *game.Board) (game.Move, error) {
	if b.GameEnd() {
		return game.Move{}, errors.New("neural: game already ended")
	}
	if b.StepCount() == 0 {
		return random.Centered(b, p.opts.FirstMoveRadius)
	}
	if p.opts.RandomRate > 0 && frand.Float64() < p.opts.RandomRate {
		return random.Pick(b)
	}

	scores, err := p.Scores(b)
	if err != nil {
		return game.Move{}, err
	}
	_, cols := b.Shape()
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	m := game.Move{Row: best / cols, Col: best % cols}
	if !b.IsEmpty(m.Row, m.Col) {
		return random.Pick(b)
	}
	return m, nil
}

// Scores returns the predictor map for the current player plus the valid mask
// (occupied cells are pushed down) and the rule bonus on tactical candidates
func (p *Policy) Scores(b *game.Board) ([]float64, error) {
	scores, err := p.predictor.Predict(b.PredictionWindow())
	if err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	rows, cols := b.Shape()
	if len(scores) != rows*cols {
		return nil, errors.Errorf("neural: predictor returned %d scores, want %d", len(scores), rows*cols)
	}
	out := make([]float64, len(scores))
	for i, v := range b.ValidMask() {
		out[i] = scores[i] + v
	}
	if tier, moves := b.CertainMoves(); tier != game.TierNone {
		for _, m := range moves {
			out[m.Row*cols+m.Col] += p.opts.RuleBonus
		}
	}
	return out, nil
}
