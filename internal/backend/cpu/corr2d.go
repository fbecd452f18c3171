package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Corr2D computes the 2D cross-correlation of x with kernel k.
//
// x: [H, W], k: [kh, kw] with kh <= H, kw <= W.
// Result: [H-kh+1, W-kw+1] with
//
//	y[i][j] = Σ_{p,q} x[i+p][j+q] * k[p][q]
//
// This is deliberately the direct sliding-window loop, not im2col: it is the
// definition the convolution chapters build on. Conv2D holds the batched
// im2col path.
func (c *CPUBackend) Corr2D(x, k *tensor.RawTensor) *tensor.RawTensor {
	xs, ks := x.Shape(), k.Shape()
	if len(xs) != 2 || len(ks) != 2 {
		panic(fmt.Sprintf("corr2d: operands must be 2D, got input %v kernel %v", xs, ks))
	}
	if ks[0] > xs[0] || ks[1] > xs[1] {
		panic(fmt.Sprintf("corr2d: kernel %v does not fit inside input %v", ks, xs))
	}
	if x.DType() != k.DType() {
		panic(fmt.Sprintf("corr2d: dtype mismatch %s vs %s", x.DType(), k.DType()))
	}

	h, w := xs[0], xs[1]
	kh, kw := ks[0], ks[1]
	out := tensor.MustNewRaw(tensor.Shape{h - kh + 1, w - kw + 1}, x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		corr2dKernel[float32](out, x, k, h, w, kh, kw)
	case tensor.Float64:
		corr2dKernel[float64](out, x, k, h, w, kh, kw)
	default:
		panic(fmt.Sprintf("corr2d: unsupported dtype %s", x.DType()))
	}

	return out
}

func corr2dKernel[T tensor.Float](out, x, k *tensor.RawTensor, h, w, kh, kw int) {
	xData, kData, outData := floats[T](x), floats[T](k), floats[T](out)
	outH, outW := h-kh+1, w-kw+1

	for i := 0; i < outH; i++ {
		for j := 0; j < outW; j++ {
			var sum T
			for p := 0; p < kh; p++ {
				for q := 0; q < kw; q++ {
					sum += xData[(i+p)*w+(j+q)] * kData[p*kw+q]
				}
			}
			outData[i*outW+j] = sum
		}
	}
}

// Corr2DInputBackward computes dL/dx for y = Corr2D(x, k).
//
// Each x[a][b] contributes to every y[i][j] with i = a-p, j = b-q, so the
// input gradient is the "full" cross-correlation of the output gradient with
// the 180°-rotated kernel:
//
//	dx[a][b] = Σ_{p,q} grad[a-p][b-q] * k[p][q]
//
// with out-of-range grad positions treated as zero.
func (c *CPUBackend) Corr2DInputBackward(x, k, grad *tensor.RawTensor) *tensor.RawTensor {
	xs, ks := x.Shape(), k.Shape()
	dx := tensor.MustNewRaw(xs.Clone(), x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		corr2dInputBackwardKernel[float32](dx, k, grad, xs[0], xs[1], ks[0], ks[1])
	case tensor.Float64:
		corr2dInputBackwardKernel[float64](dx, k, grad, xs[0], xs[1], ks[0], ks[1])
	default:
		panic(fmt.Sprintf("corr2d backward: unsupported dtype %s", x.DType()))
	}

	return dx
}

func corr2dInputBackwardKernel[T tensor.Float](dx, k, grad *tensor.RawTensor, h, w, kh, kw int) {
	kData, gradData, dxData := floats[T](k), floats[T](grad), floats[T](dx)
	gradH, gradW := h-kh+1, w-kw+1

	for a := 0; a < h; a++ {
		for b := 0; b < w; b++ {
			var sum T
			for p := 0; p < kh; p++ {
				for q := 0; q < kw; q++ {
					i, j := a-p, b-q
					if i < 0 || i >= gradH || j < 0 || j >= gradW {
						continue
					}
					sum += gradData[i*gradW+j] * kData[p*kw+q]
				}
			}
			dxData[a*w+b] = sum
		}
	}
}

// Corr2DKernelBackward computes dL/dk for y = Corr2D(x, k), which is itself a
// cross-correlation of the input with the output gradient:
//
//	dk[p][q] = Σ_{i,j} x[i+p][j+q] * grad[i][j]
func (c *CPUBackend) Corr2DKernelBackward(x, k, grad *tensor.RawTensor) *tensor.RawTensor {
	return c.Corr2D(x, grad)
}
