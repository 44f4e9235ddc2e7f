package game

// Backfill は対局終了後に学習データのラベルと重みを確定する。
// 勝者の手はラベル 1、重みは x 手目 (1 始まり) で 0.5 + x/(2W) と終盤ほど重い。
// 敗者の手はラベル 0、重み 1/L。引き分けは全手ラベル 0.5、重み 1/N
func Backfill(frames []TrainingFrame, winner Player) {
	if len(frames) == 0 {
		return
	}
	if winner == Empty {
		w := 1 / float64(len(frames))
		for i := range frames {
			setLabel(&frames[i], 0.5, w)
		}
		return
	}

	var wins, losses int
	for _, f := range frames {
		if f.Player == winner {
			wins++
		} else {
			losses++
		}
	}
	x := 0
	for i := range frames {
		if frames[i].Player == winner {
			x++
			setLabel(&frames[i], 1, 0.5+float64(x)/(2*float64(wins)))
		} else {
			setLabel(&frames[i], 0, 1/float64(losses))
		}
	}
}

func setLabel(f *TrainingFrame, label, weight float64) {
	l := label
	f.Label = &l
	f.Weight = weight
}
