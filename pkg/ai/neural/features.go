package neural

import (
	"github.com/montplusa/gobang/pkg/game"
)

// lineChannels is two channels (own, opponent) per scan direction
const lineChannels = 2 * len(game.Directions)

// lineKernels are fixed 3×3 kernels summing the three cells through the centre
// along each direction; the opponent channel uses the negated kernel
var lineKernels = buildLineKernels()

func buildLineKernels() [][][][]float64 {
	kernels := make([][][][]float64, 0, lineChannels)
	for _, d := range game.Directions {
		for _, sign := range [2]float64{1, -1} {
			k := [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
			for step := -1; step <= 1; step++ {
				k[1+step*d.DRow][1+step*d.DCol] = sign
			}
			kernels = append(kernels, [][][]float64{k})
		}
	}
	return kernels
}

// InputSize is the length of the vector Inputs builds
func InputSize(rows, cols, boardDepth, moveDepth int) int {
	return (boardDepth+2*moveDepth)*rows*cols + lineChannels*rows*cols
}

// Inputs flattens the feature window and appends the directional line
// responses of the most recent board frame
func Inputs(f game.Features) []float64 {
	cells := f.Rows * f.Cols
	out := make([]float64, 0, f.Planes()*cells+lineChannels*cells)
	out = append(out, f.Flatten()...)

	latest := f.Board[len(f.Board)-1]
	plane := make([][]float64, f.Rows)
	for y := range plane {
		plane[y] = latest[y*f.Cols : (y+1)*f.Cols]
	}
	bias := make([]float64, lineChannels)
	for _, ch := range convBlock([][][]float64{plane}, lineKernels, bias, f.Rows, f.Cols) {
		for _, row := range ch {
			out = append(out, row...)
		}
	}
	return out
}

// convBlock: 3×3 conv + ReLU, zero padded
func convBlock(input [][][]float64, weights [][][][]float64, bias []float64, rows, cols int) [][][]float64 {
	outCh := len(weights)
	out := make([][][]float64, outCh)
	for oc := 0; oc < outCh; oc++ {
		out[oc] = make([][]float64, rows)
		for y := 0; y < rows; y++ {
			row := make([]float64, cols)
			for x := 0; x < cols; x++ {
				sum := bias[oc]
				for ic := 0; ic < len(weights[oc]); ic++ {
					for ky := -1; ky <= 1; ky++ {
						yy := y + ky
						if yy < 0 || yy >= rows {
							continue
						}
						for kx := -1; kx <= 1; kx++ {
							xx := x + kx
							if xx < 0 || xx >= cols {
								continue
							}
							sum += weights[oc][ic][ky+1][kx+1] * input[ic][yy][xx]
						}
					}
				}
				if sum < 0 {
					sum = 0
				}
				row[x] = sum
			}
			out[oc][y] = row
		}
	}
	return out
}
