//go:build !(js && wasm)

package debug

import (
	"github.com/rs/zerolog/log"
)

// Log はネイティブ環境では zerolog の debug レベルに出力する
func Log(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}
