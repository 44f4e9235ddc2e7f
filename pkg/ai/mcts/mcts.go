package mcts

import (
	"math"

	"github.com/montplusa/gobang/pkg/ai/rule"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
	"lukechampine.com/frand"
)

// Options configures the search
type Options struct {
	Simulations int     `yaml:"simulations" json:"simulations"`
	Exploration float64 `yaml:"exploration" json:"exploration"`
	// RolloutDepth caps the random playout; unfinished playouts count as draws
	RolloutDepth int `yaml:"rollout_depth" json:"rollout_depth"`
}

func DefaultOptions() Options {
	return Options{
		Simulations:  2000,
		Exploration:  1.414, // sqrt(2)
		RolloutDepth: 60,
	}
}

// node represents a node in the Monte Carlo search tree.
// reward is accumulated from the perspective of mover (the player who played move)
type node struct {
	move     game.Move
	mover    game.Player
	parent   *node
	children []*node
	untried  []game.Move
	visits   int
	reward   float64
	terminal bool
	result   float64
}

// MCTSAI selects moves with UCB1 tree search. Expansion and playouts only
// consider tactical candidates when any exist, otherwise cells near stones
type MCTSAI struct {
	opts Options
}

func New(opts Options) *MCTSAI {
	return &MCTSAI{opts: opts}
}

func (ai *MCTSAI) Name() string { return "mcts" }

// SelectMove runs the configured number of simulations from b and returns the
// child with the best average reward
func (ai *MCTSAI) SelectMove(b *game.Board) (game.Move, error) {
	if b.GameEnd() {
		return game.Move{}, errors.New("mcts: game already ended")
	}
	g := b.Grid()
	goal := b.Goal()
	player := b.CurrentPlayer()

	root := &node{
		mover:   player.Opponent(),
		untried: expansions(g, player, goal),
	}
	switch len(root.untried) {
	case 0:
		return game.Move{}, errors.New("mcts: no candidate move")
	case 1:
		return root.untried[0], nil
	}

	for i := 0; i < ai.opts.Simulations; i++ {
		sim := g.Clone()

		// Selection and expansion
		n := ai.selectNode(root, sim)
		if !n.terminal && len(n.untried) > 0 {
			n = expand(n, sim, goal)
		}

		// Simulation
		reward := n.result
		if !n.terminal {
			reward = rollout(sim, n.mover, goal, ai.opts.RolloutDepth)
		}

		// Backpropagation
		backpropagate(n, reward)
	}

	var bestChild *node
	var bestScore float64
	for _, child := range root.children {
		// Use exploitation only (not exploration) for final selection
		score := child.reward / float64(child.visits)
		if bestChild == nil || score > bestScore {
			bestChild = child
			bestScore = score
		}
	}
	if bestChild == nil {
		return root.untried[0], nil
	}
	return bestChild.move, nil
}

// selectNode descends through fully expanded nodes using UCB1, replaying moves onto sim
func (ai *MCTSAI) selectNode(n *node, sim game.Grid) *node {
	for !n.terminal && len(n.untried) == 0 && len(n.children) > 0 {
		var best *node
		var bestUCB float64
		for _, child := range n.children {
			exploitation := child.reward / float64(child.visits)
			exploration := ai.opts.Exploration * math.Sqrt(math.Log(float64(n.visits))/float64(child.visits))
			ucb := exploitation + exploration
			if best == nil || ucb > bestUCB {
				best = child
				bestUCB = ucb
			}
		}
		n = best
		sim.Set(n.move.Row, n.move.Col, n.mover)
	}
	return n
}

// expand plays a random untried move of n onto sim and attaches the child
func expand(n *node, sim game.Grid, goal int) *node {
	idx := frand.Intn(len(n.untried))
	m := n.untried[idx]
	n.untried = append(n.untried[:idx], n.untried[idx+1:]...)

	mover := n.mover.Opponent()
	sim.Set(m.Row, m.Col, mover)
	child := &node{move: m, mover: mover, parent: n}
	switch game.Evaluate(sim, mover, goal) {
	case game.OutcomeWin:
		child.terminal, child.result = true, 1
	case game.OutcomeDraw:
		child.terminal, child.result = true, 0.5
	default:
		child.untried = expansions(sim, mover.Opponent(), goal)
	}
	n.children = append(n.children, child)
	return child
}

// rollout plays until the game ends or depth runs out and scores the result for lastMover
func rollout(sim game.Grid, lastMover game.Player, goal, depth int) float64 {
	player := lastMover.Opponent()
	for step := 0; step < depth; step++ {
		moves := expansions(sim, player, goal)
		if len(moves) == 0 {
			return 0.5
		}
		m := moves[frand.Intn(len(moves))]
		sim.Set(m.Row, m.Col, player)
		switch game.Evaluate(sim, player, goal) {
		case game.OutcomeWin:
			if player == lastMover {
				return 1
			}
			return 0
		case game.OutcomeDraw:
			return 0.5
		}
		player = player.Opponent()
	}
	return 0.5
}

// backpropagate updates the statistics for all nodes in the path
func backpropagate(n *node, reward float64) {
	for ; n != nil; n = n.parent {
		n.visits++
		n.reward += reward
		// Invert reward for parent (opponent's perspective)
		reward = 1 - reward
	}
}

func expansions(g game.Grid, toMove game.Player, goal int) []game.Move {
	if tier, moves := game.FindCandidateMoves(g, toMove, toMove.Opponent(), goal); tier != game.TierNone {
		return moves
	}
	if moves := rule.Nearby(g, 1); len(moves) > 0 {
		return moves
	}
	center := game.Move{Row: g.Rows() / 2, Col: g.Cols() / 2}
	if g.At(center.Row, center.Col) == game.Empty {
		return []game.Move{center}
	}
	return nil
}
