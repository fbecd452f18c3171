package cpu

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// MatMul multiplies two matrices: [M, K] @ [K, N] -> [M, N].
func (c *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		panic(fmt.Sprintf("matmul: operands must be 2D, got %v and %v", as, bs))
	}
	if as[1] != bs[0] {
		panic(fmt.Sprintf("matmul: inner dimensions differ: %v @ %v", as, bs))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	m, k, n := as[0], as[1], bs[1]
	out := tensor.MustNewRaw(tensor.Shape{m, n}, a.DType(), c.device)

	switch a.DType() {
	case tensor.Float32:
		matmulKernel[float32](out, a, b, m, k, n)
	case tensor.Float64:
		matmulKernel[float64](out, a, b, m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return out
}

// matmulKernel uses the i-k-j loop order so the inner loop walks both b and
// out contiguously.
func matmulKernel[T tensor.Float](out, a, b *tensor.RawTensor, m, k, n int) {
	aData, bData, outData := floats[T](a), floats[T](b), floats[T](out)

	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			av := aData[i*k+p]
			if av == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				outData[i*n+j] += av * bData[p*n+j]
			}
		}
	}
}
