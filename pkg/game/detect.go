package game

// Outcome は勝敗判定の結果
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

// Evaluate は player が runLength 個連続で並んでいれば OutcomeWin、
// そうでなく盤面が埋まっていれば OutcomeDraw を返す。
// runLength は盤面の勝利条件より短くてもよい
func Evaluate(g Grid, player Player, runLength int) Outcome {
	won := false
	ScanLines(g, runLength, func(l Line) bool {
		for _, c := range l.Cells {
			if c != player {
				return true
			}
		}
		won = true
		return false
	})
	if won {
		return OutcomeWin
	}
	if g.Full() {
		return OutcomeDraw
	}
	return OutcomeNone
}
