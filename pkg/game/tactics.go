package game

import "sort"

// Tier は確定手探索でどの段階の候補が見つかったかを表す
type Tier int

const (
	TierNone Tier = iota
	TierWin
	TierBlockWin
	TierLiveFour
	TierBlockLiveFour
)

func (t Tier) String() string {
	switch t {
	case TierWin:
		return "win"
	case TierBlockWin:
		return "block-win"
	case TierLiveFour:
		return "live-four"
	case TierBlockLiveFour:
		return "block-live-four"
	default:
		return "none"
	}
}

// NearWinMoves は長さ goal のウィンドウのうち player の石が goal-1 個以上あり、
// 残りのマスが空いているものを探し、その空きマスを返す (置けば即勝ち)
func NearWinMoves(g Grid, player Player, goal int) []Move {
	found := make(map[Move]struct{})
	ScanLines(g, goal, func(l Line) bool {
		count := 0
		hole := -1
		for i, c := range l.Cells {
			if c == player {
				count++
			} else if hole < 0 {
				hole = i
			}
		}
		if count >= goal-1 && hole >= 0 && l.Cells[hole] == Empty {
			found[l.Moves[hole]] = struct{}{}
		}
		return true
	})
	return sortedMoves(found)
}

// CheckLiveThree は長さ runLength+2 のウィンドウ (両端が外側のマス) を調べる。
// 両端のどちらかが opponent なら不成立。内側に player が runLength-1 個以上あれば
// 最初の player 以外の内側マスの添字を返す
func CheckLiveThree(window []Player, player, opponent Player, runLength int) (int, bool) {
	if len(window) != runLength+2 {
		return 0, false
	}
	if window[0] == opponent || window[len(window)-1] == opponent {
		return 0, false
	}
	count := 0
	hole := -1
	for i := 1; i < len(window)-1; i++ {
		if window[i] == player {
			count++
		} else if hole < 0 {
			hole = i
		}
	}
	if count < runLength-1 || hole < 0 {
		return 0, false
	}
	return hole, true
}

// LiveFourMoves は player が置くと両端を相手に塞がれていない goal-1 連
// (活四) ができる空きマスを返す
func LiveFourMoves(g Grid, player, opponent Player, goal int) []Move {
	found := make(map[Move]struct{})
	ScanLines(g, goal+1, func(l Line) bool {
		idx, ok := CheckLiveThree(l.Cells, player, opponent, goal-1)
		if ok && l.Cells[idx] == Empty {
			found[l.Moves[idx]] = struct{}{}
		}
		return true
	})
	return sortedMoves(found)
}

// FindCandidateMoves は優先順位つきで確定手を探す。
// 1) 自分の即勝ち 2) 相手の即勝ちの阻止 3) 自分の活四 4) 相手の活四の阻止。
// 最初に候補が見つかった段階の全候補を返し、なければ TierNone と空スライスを返す
func FindCandidateMoves(g Grid, player, opponent Player, goal int) (Tier, []Move) {
	if moves := NearWinMoves(g, player, goal); len(moves) > 0 {
		return TierWin, moves
	}
	if moves := NearWinMoves(g, opponent, goal); len(moves) > 0 {
		return TierBlockWin, moves
	}
	if moves := LiveFourMoves(g, player, opponent, goal); len(moves) > 0 {
		return TierLiveFour, moves
	}
	if moves := LiveFourMoves(g, opponent, player, goal); len(moves) > 0 {
		return TierBlockLiveFour, moves
	}
	return TierNone, []Move{}
}

func sortedMoves(set map[Move]struct{}) []Move {
	moves := make([]Move, 0, len(set))
	for m := range set {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].Row != moves[j].Row {
			return moves[i].Row < moves[j].Row
		}
		return moves[i].Col < moves[j].Col
	})
	return moves
}
