package onnx

import (
	"os"
	"sync"

	"github.com/montplusa/gobang/pkg/game"
	"github.com/owulveryck/onnx-go"
	"github.com/owulveryck/onnx-go/backend/x/gorgonnx"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Predictor はエクスポートされた ONNX 方策モデルで推論する。
// 入力は (1, チャネル, rows, cols) の float32 で、チャネルは盤面履歴・自分の着手・相手の着手の順
type Predictor struct {
	mu      sync.Mutex
	model   *onnx.Model
	backend *gorgonnx.Graph
}

// Load はファイルからモデルを読み込む
func Load(path string) (*Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "モデルファイルの読み込みに失敗: %s", path)
	}
	return New(data)
}

// New はシリアライズ済みモデルから Predictor を作る
func New(data []byte) (*Predictor, error) {
	backend := gorgonnx.NewGraph()
	model := onnx.NewModel(backend)
	if err := model.UnmarshalBinary(data); err != nil {
		return nil, errors.Wrap(err, "モデルのデシリアライズに失敗")
	}
	return &Predictor{model: model, backend: backend}, nil
}

// Predict は各マスのスコアを row-major で返す
func (p *Predictor) Predict(f game.Features) ([]float64, error) {
	input := inputTensor(f)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.model.SetInput(0, input); err != nil {
		return nil, errors.Wrap(err, "入力の設定に失敗")
	}
	if err := p.backend.Run(); err != nil {
		return nil, errors.Wrap(err, "推論の実行に失敗")
	}
	outputs, err := p.model.GetOutputTensors()
	if err != nil {
		return nil, errors.Wrap(err, "出力の取得に失敗")
	}
	if len(outputs) == 0 {
		return nil, errors.New("出力が空です")
	}
	return scores(outputs[0], f.Rows*f.Cols)
}

// inputTensor は特徴量を NCHW 形式のテンソルにする
func inputTensor(f game.Features) tensor.Tensor {
	flat := f.Flatten()
	data := make([]float32, len(flat))
	for i, v := range flat {
		data[i] = float32(v)
	}
	return tensor.New(
		tensor.WithShape(1, f.Planes(), f.Rows, f.Cols),
		tensor.WithBacking(data),
	)
}

// scores は出力テンソルを cells 個のスコアに変換する
func scores(t tensor.Tensor, cells int) ([]float64, error) {
	if t.Shape().TotalSize() != cells {
		return nil, errors.Errorf("出力の形状 %v がマス数 %d と一致しません", t.Shape(), cells)
	}
	switch data := t.Data().(type) {
	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil
	default:
		return nil, errors.Errorf("未対応の型: %T", data)
	}
}
