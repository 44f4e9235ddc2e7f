package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAgentMove はエージェントが不正な手を返したときのエラー
var ErrAgentMove = errors.New("agent returned an invalid move")

// ConfigurationError は盤面の設定ミス。構築時に返され、回復できない
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("game: invalid configuration %s: %s", e.Field, e.Reason)
}

// InvalidMoveError は着手できない理由を表す。Board.Move は返さず、Validate が返す
type InvalidMoveError struct {
	Move   Move
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("game: invalid move %s: %s", e.Move, e.Reason)
}
