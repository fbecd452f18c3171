// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gp implements Gaussian process regression with an RBF kernel.
//
// A Gaussian process is the book's non-parametric counterpoint to the neural
// layers: instead of learning weights it conditions a prior over functions
// on the training data. Fitting factorizes the kernel matrix once with a
// Cholesky decomposition; prediction is then two triangular solves per
// query.
package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/pkg/errors"
)

// RBF is the squared-exponential kernel
// k(a, b) = variance * exp(-|a-b|^2 / (2 lengthScale^2)).
type RBF struct {
	LengthScale float64
	Variance    float64
}

// Eval computes the kernel between two points.
func (k RBF) Eval(a, b []float64) float64 {
	var sq float64
	for i := range a {
		d := a[i] - b[i]
		sq += d * d
	}
	return k.Variance * math.Exp(-sq/(2*k.LengthScale*k.LengthScale))
}

// Regressor is a Gaussian process regressor. The zero value is not usable;
// create one with New.
type Regressor struct {
	kernel RBF
	noise  float64

	x      *mat.Dense    // training inputs [n, d]
	chol   mat.Cholesky  // factorization of K + noise*I
	alpha  *mat.VecDense // (K + noise*I)^-1 y
	fitted bool
}

// New creates a regressor with the given kernel and observation noise
// variance. Zero kernel fields default to length scale 1 and variance 1.
func New(kernel RBF, noise float64) *Regressor {
	if kernel.LengthScale == 0 {
		kernel.LengthScale = 1
	}
	if kernel.Variance == 0 {
		kernel.Variance = 1
	}
	return &Regressor{kernel: kernel, noise: noise}
}

// Fit conditions the process on training inputs x [n, d] and targets y [n].
func (g *Regressor) Fit(x *mat.Dense, y []float64) error {
	n, _ := x.Dims()
	if len(y) != n {
		return errors.NewDimensionError("gp.Fit", n, len(y), 0)
	}

	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := g.kernel.Eval(x.RawRowView(i), x.RawRowView(j))
			if i == j {
				v += g.noise
			}
			k.SetSym(i, j, v)
		}
	}

	if ok := g.chol.Factorize(k); !ok {
		return errors.Newf("gp: kernel matrix is not positive definite; increase the noise term")
	}

	g.alpha = mat.NewVecDense(n, nil)
	if err := g.chol.SolveVecTo(g.alpha, mat.NewVecDense(n, y)); err != nil {
		return errors.Wrap(err, "gp: solving for alpha")
	}

	g.x = mat.DenseCopyOf(x)
	g.fitted = true
	return nil
}

// Predict returns the posterior mean and standard deviation at each query
// row of x. It returns a NotFittedError before Fit has been called.
func (g *Regressor) Predict(x *mat.Dense) (mean, std []float64, err error) {
	if !g.fitted {
		return nil, nil, errors.NewNotFittedError("Regressor", "Predict")
	}

	n, d := g.x.Dims()
	m, qd := x.Dims()
	if qd != d {
		return nil, nil, errors.NewDimensionError("gp.Predict", d, qd, 1)
	}

	mean = make([]float64, m)
	std = make([]float64, m)

	kstar := mat.NewVecDense(n, nil)
	v := mat.NewVecDense(n, nil)
	for q := 0; q < m; q++ {
		query := x.RawRowView(q)
		for i := 0; i < n; i++ {
			kstar.SetVec(i, g.kernel.Eval(g.x.RawRowView(i), query))
		}

		mean[q] = mat.Dot(kstar, g.alpha)

		if err := g.chol.SolveVecTo(v, kstar); err != nil {
			return nil, nil, errors.Wrap(err, "gp: solving for predictive variance")
		}
		variance := g.kernel.Eval(query, query) - mat.Dot(kstar, v)
		if variance < 0 {
			variance = 0 // numerical round-off
		}
		std[q] = math.Sqrt(variance)
	}
	return mean, std, nil
}

// Fitted reports whether Fit has completed.
func (g *Regressor) Fitted() bool { return g.fitted }
