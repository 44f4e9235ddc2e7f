package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/montplusa/gobang/pkg/game"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadGame(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	rec := Record{
		Rows: 15, Cols: 15, Goal: 5,
		PlayerOne: "rule", PlayerTwo: "random",
		Winner: game.PlayerOne,
		Moves:  []game.Move{{Row: 7, Col: 7}, {Row: 0, Col: 0}},
	}
	id, err := s.SaveGame(ctx, rec)
	if err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	got, err := s.Game(ctx, id)
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if got.ID != id || got.PlayerOne != "rule" || got.Winner != game.PlayerOne {
		t.Fatalf("record = %+v", got)
	}
	if !reflect.DeepEqual(got.Moves, rec.Moves) {
		t.Fatalf("moves = %v, want %v", got.Moves, rec.Moves)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not set")
	}

	if _, err := s.Game(ctx, id+100); err != ErrNotFound {
		t.Fatalf("missing game err = %v, want ErrNotFound", err)
	}
}

func TestRecentGamesAndWinCounts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	winners := []game.Player{game.PlayerOne, game.PlayerTwo, game.PlayerOne, game.Empty}
	for _, w := range winners {
		_, err := s.SaveGame(ctx, Record{Rows: 9, Cols: 9, Goal: 5, PlayerOne: "a", PlayerTwo: "b", Winner: w})
		if err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.RecentGames(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].ID <= recent[1].ID {
		t.Fatalf("recent = %+v", recent)
	}
	if recent[0].Winner != game.Empty {
		t.Fatalf("newest winner = %v, want empty", recent[0].Winner)
	}

	counts, err := s.WinCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]int{"a": 2, "b": 1, "": 1}; !reflect.DeepEqual(counts, want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
}

func TestFromResult(t *testing.T) {
	res := game.BattleResult{Rows: 5, Cols: 5, Goal: 4, Agents: [2]string{"x", "y"}, Winner: game.PlayerTwo, Moves: []game.Move{{Row: 1, Col: 1}}}
	r := FromResult(res)
	if r.PlayerOne != "x" || r.PlayerTwo != "y" || r.Winner != game.PlayerTwo || len(r.Moves) != 1 {
		t.Fatalf("record = %+v", r)
	}
}
