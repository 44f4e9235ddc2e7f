package server

import (
	"context"
	"sync"
	"time"

	"github.com/montplusa/gobang/pkg/game"
	"github.com/montplusa/gobang/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrNoGame is returned when a move arrives before any game was started
var ErrNoGame = errors.New("no game in progress")

// ErrNotYourTurn is returned when the human moves while the agent is to play
var ErrNotYourTurn = errors.New("not the human's turn")

// AgentFactory builds the computer opponent for a board shape
type AgentFactory func(opts game.Options) (game.Agent, error)

// StatusResponse is the JSON view of the current game
type StatusResponse struct {
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	Goal       int         `json:"goal"`
	Board      [][]int     `json:"board"`
	Steps      []game.Move `json:"steps"`
	NextPlayer game.Player `json:"next_player"`
	Human      game.Player `json:"human"`
	Agent      string      `json:"agent"`
	Status     string      `json:"status"`
	Winner     game.Player `json:"winner"`
}

// HintResponse lists the tactical candidates for the player to move
type HintResponse struct {
	Tier  string      `json:"tier"`
	Moves []game.Move `json:"moves"`
}

// Controller owns the single game the server plays against a human
type Controller struct {
	mu       sync.Mutex
	factory  AgentFactory
	defaults game.Options
	store    *store.Store

	board  *game.Board
	agent  game.Agent
	human  game.Player
	status game.Status
}

// NewController returns a controller with no game started. st may be nil
func NewController(defaults game.Options, factory AgentFactory, st *store.Store) *Controller {
	return &Controller{factory: factory, defaults: defaults, store: st}
}

// Start begins a new game. Zero fields of opts fall back to the defaults.
// When the human plays second the agent moves immediately
func (c *Controller) Start(ctx context.Context, opts game.Options, human game.Player) error {
	if opts.Rows == 0 {
		opts.Rows = c.defaults.Rows
	}
	if opts.Cols == 0 {
		opts.Cols = c.defaults.Cols
	}
	if opts.Goal == 0 {
		opts.Goal = c.defaults.Goal
	}
	if opts.BoardDepth == 0 {
		opts.BoardDepth = c.defaults.BoardDepth
	}
	if opts.MoveDepth == 0 {
		opts.MoveDepth = c.defaults.MoveDepth
	}
	if human != game.PlayerOne && human != game.PlayerTwo {
		return &game.ConfigurationError{Field: "human", Reason: "must be 1 or -1"}
	}
	board, err := game.NewBoard(opts)
	if err != nil {
		return err
	}
	agent, err := c.factory(opts)
	if err != nil {
		return errors.Wrap(err, "create agent")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.board, c.agent, c.human, c.status = board, agent, human, game.StatusContinue
	log.Info().Int("rows", opts.Rows).Int("cols", opts.Cols).Int("goal", opts.Goal).
		Str("agent", agent.Name()).Int("human", int(human)).Msg("game-started")
	if human == game.PlayerTwo {
		return c.agentMove(ctx)
	}
	return nil
}

// HumanMove plays (row, col) for the human and, if the game goes on, the agent reply
func (c *Controller) HumanMove(ctx context.Context, row, col int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return ErrNoGame
	}
	if c.board.CurrentPlayer() != c.human && !c.board.GameEnd() {
		return ErrNotYourTurn
	}
	if err := c.board.Validate(row, col); err != nil {
		return err
	}
	c.apply(ctx, game.Move{Row: row, Col: col})
	if c.status == game.StatusContinue {
		return c.agentMove(ctx)
	}
	return nil
}

func (c *Controller) agentMove(ctx context.Context) error {
	m, err := c.agent.SelectMove(c.board)
	if err != nil {
		return errors.Wrapf(err, "agent %s", c.agent.Name())
	}
	if err := c.board.Validate(m.Row, m.Col); err != nil {
		return errors.Wrapf(game.ErrAgentMove, "agent %s played %s", c.agent.Name(), m)
	}
	c.apply(ctx, m)
	return nil
}

// apply plays a validated move and saves the game once it ends
func (c *Controller) apply(ctx context.Context, m game.Move) {
	status, winner := c.board.Move(m.Row, m.Col)
	c.status = status
	if status == game.StatusContinue || c.store == nil {
		return
	}
	rec := store.Record{
		Rows:      c.board.Options().Rows,
		Cols:      c.board.Options().Cols,
		Goal:      c.board.Goal(),
		PlayerOne: c.nameOf(game.PlayerOne),
		PlayerTwo: c.nameOf(game.PlayerTwo),
		Winner:    winner,
		Moves:     c.board.Steps(),
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if id, err := c.store.SaveGame(saveCtx, rec); err != nil {
		log.Err(err).Msg("save-game-failed")
	} else {
		log.Info().Int64("id", id).Str("status", status.String()).Msg("game-saved")
	}
}

func (c *Controller) nameOf(p game.Player) string {
	if p == c.human {
		return "human"
	}
	return c.agent.Name()
}

// Status returns a snapshot of the game. Before Start it describes an empty default board
func (c *Controller) Status() StatusResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		g := game.NewGrid(c.defaults.Rows, c.defaults.Cols)
		return StatusResponse{
			Rows:   c.defaults.Rows,
			Cols:   c.defaults.Cols,
			Goal:   c.defaults.Goal,
			Board:  g.Rows2D(),
			Steps:  []game.Move{},
			Status: "idle",
		}
	}
	opts := c.board.Options()
	return StatusResponse{
		Rows:       opts.Rows,
		Cols:       opts.Cols,
		Goal:       opts.Goal,
		Board:      c.board.Grid().Rows2D(),
		Steps:      c.board.Steps(),
		NextPlayer: c.board.CurrentPlayer(),
		Human:      c.human,
		Agent:      c.agent.Name(),
		Status:     c.status.String(),
		Winner:     c.board.Winner(),
	}
}

// Hints returns the tactical candidates for the player to move
func (c *Controller) Hints() (HintResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return HintResponse{}, ErrNoGame
	}
	tier, moves := c.board.CertainMoves()
	return HintResponse{Tier: tier.String(), Moves: moves}, nil
}
