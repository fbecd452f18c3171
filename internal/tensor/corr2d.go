package tensor

import (
	"github.com/primer-ml/primer/pkg/errors"
)

// Corr2D computes the 2D cross-correlation of a grid x with a kernel k.
//
// For x of shape (H, W) and k of shape (kh, kw), the result y has shape
// (H-kh+1, W-kw+1) with
//
//	y[i][j] = Σ_{p=0..kh-1} Σ_{q=0..kw-1} x[i+p][j+q] * k[p][q]
//
// The kernel slides with unit stride and no padding. The result is freshly
// allocated and never aliases the inputs.
//
// Corr2D returns a ShapeError when either operand is not rank 2 or when the
// kernel does not fit inside the input at least once (kh > H or kw > W).
// A kernel that is too large is rejected rather than producing an empty grid.
func Corr2D[T Float, B Backend](x, k *Tensor[T, B]) (*Tensor[T, B], error) {
	xs, ks := x.Shape(), k.Shape()

	if len(xs) != 2 || len(ks) != 2 {
		return nil, errors.NewShapeError("corr2d", xs, ks,
			"input and kernel must both be 2D grids")
	}
	if ks[0] > xs[0] || ks[1] > xs[1] {
		return nil, errors.NewShapeError("corr2d", xs, ks,
			"kernel does not fit inside input")
	}

	return New[T, B](x.Backend().Corr2D(x.Raw(), k.Raw()), x.Backend()), nil
}
