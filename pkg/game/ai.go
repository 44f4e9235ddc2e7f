package game

// Agent は対局用エージェントのインターフェース
type Agent interface {
	// 名前 (ログと対戦記録に使う)
	Name() string
	// 現在の手番の一手を選ぶ。渡された盤面を変更してはならない
	SelectMove(b *Board) (Move, error)
}
