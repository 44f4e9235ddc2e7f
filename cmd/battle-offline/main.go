package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"sync"

	"github.com/montplusa/gobang/pkg/config"
	"github.com/montplusa/gobang/pkg/game"
	"github.com/montplusa/gobang/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// 指定されたディレクトリ内の同じプレフィックスを持つファイルの最大連番を取得する
func findMaxSequenceNumber(dir, prefix string) (int, error) {
	// ディレクトリが存在しない場合は0を返す
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	// プレフィックス_NNNNN.json の形式にマッチする正規表現
	pattern := regexp.MustCompile(fmt.Sprintf(`^%s_(\d{5})\.json$`, regexp.QuoteMeta(prefix)))
	maxSeq := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		matches := pattern.FindStringSubmatch(file.Name())
		if len(matches) != 2 {
			continue
		}
		if seq, err := strconv.Atoi(matches[1]); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

// 対戦タスク
type battleTask struct {
	gameIndex int
	seqNum    int
	swapped   bool // true なら B が先手
}

// 対戦結果。winner は 0 (A), 1 (B), -1 (引き分け)
type battleResult struct {
	gameIndex int
	winner    int
	err       error
}

type battleConfig struct {
	cfg          config.Config
	nameA, nameB string
	outputDir    string
	outputPrefix string
	noOutput     bool
	db           *store.Store
}

// ワーカー関数。エージェントはワーカーごとに作る
func worker(ctx context.Context, id int, bc battleConfig, tasks <-chan battleTask, results chan<- battleResult, wg *sync.WaitGroup) {
	defer wg.Done()

	agentA, errA := bc.cfg.Agent(bc.nameA, bc.cfg.Game)
	agentB, errB := bc.cfg.Agent(bc.nameB, bc.cfg.Game)
	board, errBoard := game.NewBoard(bc.cfg.Game)

	for task := range tasks {
		if err := firstErr(errA, errB, errBoard); err != nil {
			results <- battleResult{gameIndex: task.gameIndex, err: err}
			continue
		}
		first, second := agentA, agentB
		if task.swapped {
			first, second = agentB, agentA
		}

		result, err := game.NewRunner(board, first, second).Run(ctx)
		if err != nil {
			results <- battleResult{gameIndex: task.gameIndex, err: err}
			continue
		}

		if !bc.noOutput {
			// 結果をJSONに変換（インデントなし）
			jsonData, err := json.Marshal(result)
			if err != nil {
				log.Err(err).Msg("JSONの変換に失敗しました")
			} else {
				// ファイル名の生成（5桁のゼロ詰め連番）
				filename := filepath.Join(bc.outputDir, fmt.Sprintf("%s_%05d.json", bc.outputPrefix, task.seqNum))
				if err := os.WriteFile(filename, jsonData, 0644); err != nil {
					log.Err(err).Str("file", filename).Msg("ファイルの書き込みに失敗しました")
				}
			}
		}
		if bc.db != nil {
			if _, err := bc.db.SaveGame(ctx, store.FromResult(result)); err != nil {
				log.Err(err).Msg("対戦結果の保存に失敗しました")
			}
		}

		results <- battleResult{
			gameIndex: task.gameIndex,
			winner:    seatWinner(result.Winner, task.swapped),
		}
		log.Debug().Int("game", task.gameIndex).Int("worker", id).Str("status", result.Status).
			Int("moves", len(result.Moves)).Msg("対戦が完了しました")
	}
}

// seatWinner は盤上の勝者を A/B の添字に直す
func seatWinner(winner game.Player, swapped bool) int {
	var idx int
	switch winner {
	case game.PlayerOne:
		idx = 0
	case game.PlayerTwo:
		idx = 1
	default:
		return -1 // 引き分け
	}
	if swapped {
		idx = 1 - idx
	}
	return idx
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// コマンドライン引数の解析
	configPath := flag.String("config", "", "設定ファイル (YAML)")
	nameA := flag.String("a", "rule", "エージェント A (trivial, random, rule, mcts, neural, onnx)")
	nameB := flag.String("b", "random", "エージェント B")
	swap := flag.Bool("swap", true, "奇数番目の対戦で先手と後手を入れ替える")
	outputDir := flag.String("output", "", "出力ディレクトリ名 (設定ファイルより優先)")
	outputPrefix := flag.String("output-prefix", "", "出力ファイル名のプレフィックス (設定ファイルより優先)")
	noOutput := flag.Bool("no-output", false, "出力しない")
	dbPath := flag.String("db", "", "対戦結果を保存する SQLite ファイル")
	games := flag.Int("games", 0, "実行する試合数 (設定ファイルより優先)")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "ワーカー数")
	debug := flag.Bool("debug", false, "デバッグログを出す")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("設定ファイルの読み込みに失敗しました")
		}
	}
	if *outputDir != "" {
		cfg.Battle.Output = *outputDir
	}
	if *outputPrefix != "" {
		cfg.Battle.Prefix = *outputPrefix
	}
	if *games > 0 {
		cfg.Battle.Games = *games
	}
	workers := max(*numWorkers, 1)

	if !*noOutput {
		// 出力ディレクトリの作成
		if err := os.MkdirAll(cfg.Battle.Output, 0755); err != nil {
			log.Fatal().Err(err).Msg("出力ディレクトリの作成に失敗しました")
		}
	}

	var db *store.Store
	if *dbPath != "" {
		var err error
		if db, err = store.Open(*dbPath); err != nil {
			log.Fatal().Err(err).Msg("データベースを開けませんでした")
		}
		defer db.Close()
	}

	// 既存ファイルの最大連番を取得
	maxSeq, err := findMaxSequenceNumber(cfg.Battle.Output, cfg.Battle.Prefix)
	if err != nil {
		log.Warn().Err(err).Msg("既存ファイルの確認中にエラーが発生しました")
	}
	startSeq := maxSeq + 1
	log.Info().Msgf("連番 %05d から開始します", startSeq)
	log.Info().Msgf("%s 対 %s を %d 回実行します（ワーカー数: %d）", *nameA, *nameB, cfg.Battle.Games, workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bc := battleConfig{
		cfg:          cfg,
		nameA:        *nameA,
		nameB:        *nameB,
		outputDir:    cfg.Battle.Output,
		outputPrefix: cfg.Battle.Prefix,
		noOutput:     *noOutput,
		db:           db,
	}

	// チャネルの作成
	tasks := make(chan battleTask, cfg.Battle.Games)
	results := make(chan battleResult, cfg.Battle.Games)

	// ワーカープールの作成
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(ctx, i, bc, tasks, results, &wg)
	}

	// タスクの送信
	for i := 0; i < cfg.Battle.Games; i++ {
		tasks <- battleTask{
			gameIndex: i,
			seqNum:    startSeq + i,
			swapped:   *swap && i%2 == 1,
		}
	}
	close(tasks)

	// 結果の収集
	wins := []int{0, 0}
	draws, failed := 0, 0
	for i := 0; i < cfg.Battle.Games; i++ {
		result := <-results
		switch {
		case result.err != nil:
			failed++
			log.Err(result.err).Int("game", result.gameIndex).Msg("対戦に失敗しました")
		case result.winner == -1:
			draws++
		default:
			wins[result.winner]++
		}
	}

	// すべてのワーカーの終了を待つ
	wg.Wait()

	log.Info().Msg("すべての対戦が完了しました")
	log.Info().Msgf("勝利数: %s: %d, %s: %d, 引き分け: %d, 失敗: %d", *nameA, wins[0], *nameB, wins[1], draws, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
