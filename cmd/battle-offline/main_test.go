package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/montplusa/gobang/pkg/game"
)

func TestFindMaxSequenceNumber(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"battle_00003.json", "battle_00012.json", "other_00099.json", "battle_7.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "battle_00050.json"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := findMaxSequenceNumber(dir, "battle")
	if err != nil {
		t.Fatal(err)
	}
	if got != 12 {
		t.Fatalf("findMaxSequenceNumber = %d, want 12", got)
	}

	got, err = findMaxSequenceNumber(filepath.Join(dir, "missing"), "battle")
	if err != nil || got != 0 {
		t.Fatalf("missing dir = %d, %v", got, err)
	}
}

func TestSeatWinner(t *testing.T) {
	tests := []struct {
		winner  game.Player
		swapped bool
		want    int
	}{
		{game.PlayerOne, false, 0},
		{game.PlayerTwo, false, 1},
		{game.PlayerOne, true, 1},
		{game.PlayerTwo, true, 0},
		{game.Empty, false, -1},
		{game.Empty, true, -1},
	}
	for _, tt := range tests {
		if got := seatWinner(tt.winner, tt.swapped); got != tt.want {
			t.Errorf("seatWinner(%v, %v) = %d, want %d", tt.winner, tt.swapped, got, tt.want)
		}
	}
}
