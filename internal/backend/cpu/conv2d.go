package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Conv2D performs batched multi-channel 2D cross-correlation using im2col.
//
// Input shape: [N, C_in, H, W], kernel shape: [C_out, C_in, KH, KW].
// Output shape: [N, C_out, H_out, W_out] with
//
//	H_out = (H + 2*padding - KH)/stride + 1
//	W_out = (W + 2*padding - KW)/stride + 1
//
// Input patches are unrolled into a column matrix so the convolution reduces
// to one matrix multiplication per kernel row (Chellapilla et al., 2006).
// The single-channel reference semantics live in Corr2D.
func (c *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	n, cin, h, w, cout, kh, kw, hOut, wOut := conv2dDims(input, kernel, stride, padding)

	out := tensor.MustNewRaw(tensor.Shape{n, cout, hOut, wOut}, input.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		conv2dKernel[float32](out, input, kernel, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding)
	case tensor.Float64:
		conv2dKernel[float64](out, input, kernel, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return out
}

// conv2dDims validates the operand shapes and returns all derived sizes.
func conv2dDims(input, kernel *tensor.RawTensor, stride, padding int) (n, cin, h, w, cout, kh, kw, hOut, wOut int) {
	is, ks := input.Shape(), kernel.Shape()
	if len(is) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %v", is))
	}
	if len(ks) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,KH,KW], got %v", ks))
	}
	if is[1] != ks[1] {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", is[1], ks[1]))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	n, cin, h, w = is[0], is[1], is[2], is[3]
	cout, kh, kw = ks[0], ks[2], ks[3]
	hOut = (h+2*padding-kh)/stride + 1
	wOut = (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: output would be empty: h_out=%d, w_out=%d", hOut, wOut))
	}
	return
}

func conv2dKernel[T tensor.Float](out, input, kernel *tensor.RawTensor, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding int) {
	inData, kData, outData := floats[T](input), floats[T](kernel), floats[T](out)

	// col: [n*hOut*wOut, cin*kh*kw]
	colWidth := cin * kh * kw
	col := make([]T, n*hOut*wOut*colWidth)
	im2col(col, inData, n, cin, h, w, kh, kw, hOut, wOut, stride, padding)

	// out[b, co, oh, ow] = Σ_ck kernel[co, ck] * col[(b, oh, ow), ck]
	spatial := hOut * wOut
	for b := 0; b < n; b++ {
		for co := 0; co < cout; co++ {
			kRow := kData[co*colWidth : (co+1)*colWidth]
			for s := 0; s < spatial; s++ {
				colRow := col[(b*spatial+s)*colWidth : (b*spatial+s+1)*colWidth]
				var sum T
				for ck := range kRow {
					sum += kRow[ck] * colRow[ck]
				}
				outData[(b*cout+co)*spatial+s] = sum
			}
		}
	}
}

// im2col unrolls padded input patches into rows of the column matrix.
func im2col[T tensor.Float](col, in []T, n, cin, h, w, kh, kw, hOut, wOut, stride, padding int) {
	colWidth := cin * kh * kw
	spatial := hOut * wOut

	for b := 0; b < n; b++ {
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				row := col[(b*spatial+oh*wOut+ow)*colWidth:]
				ck := 0
				for ci := 0; ci < cin; ci++ {
					for p := 0; p < kh; p++ {
						for q := 0; q < kw; q++ {
							ih := oh*stride + p - padding
							iw := ow*stride + q - padding
							if ih >= 0 && ih < h && iw >= 0 && iw < w {
								row[ck] = in[((b*cin+ci)*h+ih)*w+iw]
							} else {
								row[ck] = 0
							}
							ck++
						}
					}
				}
			}
		}
	}
}

// col2im scatter-adds column-matrix rows back into input positions; it is the
// adjoint of im2col and carries the input gradient.
func col2im[T tensor.Float](in []T, col []T, n, cin, h, w, kh, kw, hOut, wOut, stride, padding int) {
	colWidth := cin * kh * kw
	spatial := hOut * wOut

	for b := 0; b < n; b++ {
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				row := col[(b*spatial+oh*wOut+ow)*colWidth:]
				ck := 0
				for ci := 0; ci < cin; ci++ {
					for p := 0; p < kh; p++ {
						for q := 0; q < kw; q++ {
							ih := oh*stride + p - padding
							iw := ow*stride + q - padding
							if ih >= 0 && ih < h && iw >= 0 && iw < w {
								in[((b*cin+ci)*h+ih)*w+iw] += row[ck]
							}
							ck++
						}
					}
				}
			}
		}
	}
}

// Conv2DInputBackward computes dL/dinput for Conv2D.
func (c *CPUBackend) Conv2DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	n, cin, h, w, cout, kh, kw, hOut, wOut := conv2dDims(input, kernel, stride, padding)

	dx := tensor.MustNewRaw(input.Shape().Clone(), input.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		conv2dInputBackwardKernel[float32](dx, kernel, grad, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding)
	case tensor.Float64:
		conv2dInputBackwardKernel[float64](dx, kernel, grad, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding)
	default:
		panic(fmt.Sprintf("conv2d backward: unsupported dtype %s", input.DType()))
	}

	return dx
}

func conv2dInputBackwardKernel[T tensor.Float](dx, kernel, grad *tensor.RawTensor, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding int) {
	kData, gradData, dxData := floats[T](kernel), floats[T](grad), floats[T](dx)

	// dcol[(b, oh, ow), ck] = Σ_co grad[b, co, oh, ow] * kernel[co, ck]
	colWidth := cin * kh * kw
	spatial := hOut * wOut
	dcol := make([]T, n*spatial*colWidth)

	for b := 0; b < n; b++ {
		for co := 0; co < cout; co++ {
			kRow := kData[co*colWidth : (co+1)*colWidth]
			for s := 0; s < spatial; s++ {
				g := gradData[(b*cout+co)*spatial+s]
				if g == 0 {
					continue
				}
				row := dcol[(b*spatial+s)*colWidth:]
				for ck := range kRow {
					row[ck] += g * kRow[ck]
				}
			}
		}
	}

	col2im(dxData, dcol, n, cin, h, w, kh, kw, hOut, wOut, stride, padding)
}

// Conv2DKernelBackward computes dL/dkernel for Conv2D.
func (c *CPUBackend) Conv2DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	n, cin, h, w, cout, kh, kw, hOut, wOut := conv2dDims(input, kernel, stride, padding)

	dk := tensor.MustNewRaw(kernel.Shape().Clone(), kernel.DType(), c.device)

	switch input.DType() {
	case tensor.Float32:
		conv2dKernelBackwardKernel[float32](dk, input, grad, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding)
	case tensor.Float64:
		conv2dKernelBackwardKernel[float64](dk, input, grad, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding)
	default:
		panic(fmt.Sprintf("conv2d backward: unsupported dtype %s", input.DType()))
	}

	return dk
}

func conv2dKernelBackwardKernel[T tensor.Float](dk, input, grad *tensor.RawTensor, n, cin, h, w, cout, kh, kw, hOut, wOut, stride, padding int) {
	inData, gradData, dkData := floats[T](input), floats[T](grad), floats[T](dk)

	colWidth := cin * kh * kw
	spatial := hOut * wOut
	col := make([]T, n*spatial*colWidth)
	im2col(col, inData, n, cin, h, w, kh, kw, hOut, wOut, stride, padding)

	// dk[co, ck] = Σ_{b,s} grad[b, co, s] * col[(b, s), ck]
	for b := 0; b < n; b++ {
		for co := 0; co < cout; co++ {
			dkRow := dkData[co*colWidth : (co+1)*colWidth]
			for s := 0; s < spatial; s++ {
				g := gradData[(b*cout+co)*spatial+s]
				if g == 0 {
					continue
				}
				colRow := col[(b*spatial+s)*colWidth:]
				for ck := range dkRow {
					dkRow[ck] += g * colRow[ck]
				}
			}
		}
	}
}
