package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by Game when no record has the requested id
var ErrNotFound = errors.New("store: game not found")

// Record is one finished game
type Record struct {
	ID        int64       `json:"id"`
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	Goal      int         `json:"goal"`
	PlayerOne string      `json:"player_one"`
	PlayerTwo string      `json:"player_two"`
	Winner    game.Player `json:"winner"`
	Moves     []game.Move `json:"moves"`
	CreatedAt time.Time   `json:"created_at"`
}

// FromResult converts a runner result into a record
func FromResult(res game.BattleResult) Record {
	return Record{
		Rows:      res.Rows,
		Cols:      res.Cols,
		Goal:      res.Goal,
		PlayerOne: res.Agents[0],
		PlayerTwo: res.Agents[1],
		Winner:    res.Winner,
		Moves:     res.Moves,
	}
}

// Store keeps finished games in SQLite. Safe for concurrent use
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_rows INTEGER NOT NULL,
			board_cols INTEGER NOT NULL,
			goal INTEGER NOT NULL,
			player_one TEXT NOT NULL,
			player_two TEXT NOT NULL,
			winner INTEGER NOT NULL,
			moves TEXT NOT NULL,
			created_at INTEGER NOT NULL);`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create games table")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGame inserts r and returns its id. A zero CreatedAt is set to now
func (s *Store) SaveGame(ctx context.Context, r Record) (int64, error) {
	moves, err := json.Marshal(r.Moves)
	if err != nil {
		return 0, errors.Wrap(err, "encode moves")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO games(board_rows, board_cols, goal, player_one, player_two, winner, moves, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Rows, r.Cols, r.Goal, r.PlayerOne, r.PlayerTwo, int(r.Winner), string(moves), r.CreatedAt.UnixNano())
	if err != nil {
		return 0, errors.Wrap(err, "insert game")
	}
	return result.LastInsertId()
}

const selectGame = `SELECT id, board_rows, board_cols, goal, player_one, player_two, winner, moves, created_at FROM games`

// Game returns the record with the given id
func (s *Store) Game(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectGame+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Cause(err) == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	return r, err
}

// RecentGames returns up to limit records, newest first
func (s *Store) RecentGames(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectGame+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query games")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WinCounts returns the number of wins per agent name. Draws are counted under ""
func (s *Store) WinCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
			CASE winner WHEN 1 THEN player_one WHEN -1 THEN player_two ELSE '' END AS name,
			COUNT(*)
		FROM games GROUP BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "query win counts")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, errors.Wrap(err, "scan win count")
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var winner int
	var moves string
	var created int64
	err := sc.Scan(&r.ID, &r.Rows, &r.Cols, &r.Goal, &r.PlayerOne, &r.PlayerTwo, &winner, &moves, &created)
	if err != nil {
		return Record{}, errors.Wrap(err, "scan game")
	}
	if err := json.Unmarshal([]byte(moves), &r.Moves); err != nil {
		return Record{}, errors.Wrapf(err, "decode moves of game %d", r.ID)
	}
	r.Winner = game.Player(winner)
	r.CreatedAt = time.Unix(0, created)
	return r, nil
}
