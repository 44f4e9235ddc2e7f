package game

// Ring は容量固定のリングバッファ。満杯で Push すると最も古い要素を捨てる
type Ring[T any] struct {
	buf   []T
	start int
	size  int
}

func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) Cap() int { return len(r.buf) }
func (r *Ring[T]) Len() int { return r.size }

// Push は末尾に v を追加し、溢れた最古の要素を返す
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if len(r.buf) == 0 {
		return v, true
	}
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return evicted, false
	}
	evicted = r.buf[r.start]
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
	return evicted, true
}

// At は古い順で i 番目の要素を返す
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("game: ring index out of range")
	}
	return r.buf[(r.start+i)%len(r.buf)]
}

func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.start, r.size = 0, 0
}

// Clone は要素を浅くコピーした新しいリングを返す
func (r *Ring[T]) Clone() *Ring[T] {
	buf := make([]T, len(r.buf))
	copy(buf, r.buf)
	return &Ring[T]{buf: buf, start: r.start, size: r.size}
}

// history は盤面形状のフレームを depth 枚保持する。
// 全体の符号反転は sign を反転するだけで済ませ、フレームは push 時の sign を掛けて保存する
type history struct {
	frames *Ring[[]float64]
	sign   float64
	cells  int
}

func newHistory(depth, cells int) *history {
	h := &history{frames: NewRing[[]float64](depth), cells: cells}
	h.reset()
	return h
}

func (h *history) reset() {
	h.frames.Reset()
	h.sign = 1
	for i := 0; i < h.frames.Cap(); i++ {
		h.frames.Push(make([]float64, h.cells))
	}
}

func (h *history) negate() {
	h.sign = -h.sign
}

func (h *history) push(frame []float64) {
	stored := make([]float64, h.cells)
	for i, v := range frame {
		stored[i] = v * h.sign
	}
	h.frames.Push(stored)
}

// frame は古い順で i 番目のフレームを実際の値で返す (コピー)
func (h *history) frame(i int) []float64 {
	src := h.frames.At(i)
	out := make([]float64, len(src))
	for j, v := range src {
		out[j] = v * h.sign
	}
	return out
}

func (h *history) clone() *history {
	frames := h.frames.Clone()
	for i := range frames.buf {
		if frames.buf[i] != nil {
			f := make([]float64, len(frames.buf[i]))
			copy(f, frames.buf[i])
			frames.buf[i] = f
		}
	}
	return &history{frames: frames, sign: h.sign, cells: h.cells}
}

// Features は予測器に渡す入力。各スライスは古い順に並ぶ rows*cols のフレーム
type Features struct {
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Board  [][]float64 `json:"board"`
	Mine   [][]float64 `json:"mine"`
	Theirs [][]float64 `json:"theirs"`
}

// Planes は Board, Mine, Theirs の順に連結したチャネル数を返す
func (f Features) Planes() int {
	return len(f.Board) + len(f.Mine) + len(f.Theirs)
}

// Flatten は全フレームを Board, Mine, Theirs の順に連結する
func (f Features) Flatten() []float64 {
	cells := f.Rows * f.Cols
	out := make([]float64, 0, f.Planes()*cells)
	for _, group := range [][][]float64{f.Board, f.Mine, f.Theirs} {
		for _, frame := range group {
			out = append(out, frame...)
		}
	}
	return out
}

// Window は直近の盤面履歴と、自分・相手の直近の着手マスクを保持する
type Window struct {
	rows     int
	cols     int
	board    *history
	mine     *history
	theirs   *history
	lastMove *Move
}

// NewWindow は深さ boardDepth の盤面履歴と深さ moveDepth の着手履歴を作る
func NewWindow(rows, cols, boardDepth, moveDepth int) *Window {
	cells := rows * cols
	return &Window{
		rows:   rows,
		cols:   cols,
		board:  newHistory(boardDepth, cells),
		mine:   newHistory(moveDepth, cells),
		theirs: newHistory(moveDepth, cells),
	}
}

// Reset は全履歴をゼロに戻す
func (w *Window) Reset() {
	w.board.reset()
	w.mine.reset()
	w.theirs.reset()
	w.lastMove = nil
}

// Update は mover が move を打つ直前の盤面 g で履歴を一手進める。
// 盤面履歴は全体を反転して mover 視点の盤面を追加し、着手履歴は
// 自分/相手を入れ替えて反転したうえで相手側に直前の着手 (-1) を追加する
func (w *Window) Update(g Grid, mover Player, move Move) {
	w.advance(g, mover)
	m := move
	w.lastMove = &m
}

func (w *Window) advance(g Grid, mover Player) {
	w.board.negate()
	w.board.push(g.Perspective(mover))

	w.mine, w.theirs = w.theirs, w.mine
	w.mine.negate()
	w.theirs.negate()
	mask := make([]float64, w.rows*w.cols)
	if w.lastMove != nil {
		mask[w.lastMove.Row*w.cols+w.lastMove.Col] = -1
	}
	w.theirs.push(mask)
}

// Snapshot は現在保持している履歴のコピーを返す
func (w *Window) Snapshot() Features {
	f := Features{Rows: w.rows, Cols: w.cols}
	f.Board = frames(w.board)
	f.Mine = frames(w.mine)
	f.Theirs = frames(w.theirs)
	return f
}

// Clone は Window のディープコピーを返す
func (w *Window) Clone() *Window {
	c := &Window{
		rows:   w.rows,
		cols:   w.cols,
		board:  w.board.clone(),
		mine:   w.mine.clone(),
		theirs: w.theirs.clone(),
	}
	if w.lastMove != nil {
		m := *w.lastMove
		c.lastMove = &m
	}
	return c
}

func frames(h *history) [][]float64 {
	out := make([][]float64, h.frames.Len())
	for i := range out {
		out[i] = h.frame(i)
	}
	return out
}
