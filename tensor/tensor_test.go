package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primer-ml/primer/backend/cpu"
	"github.com/primer-ml/primer/tensor"
)

func TestPublicAPIRoundTrip(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
	z := x.Add(y)

	require.Equal(t, tensor.Shape{2, 3}, z.Shape())
	for _, v := range z.Data() {
		assert.Equal(t, float32(1), v)
	}
}

func TestCorr2DDocExample(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{0, 1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{3, 3}, backend)
	require.NoError(t, err)
	k, err := tensor.FromSlice([]float32{0, 1, 2, 3}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	y, err := tensor.Corr2D(x, k)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 2}, y.Shape())
	assert.Equal(t, []float32{19, 25, 37, 43}, y.Data())
}

func TestBroadcastShapes(t *testing.T) {
	shape, broadcast, err := tensor.BroadcastShapes(tensor.Shape{4, 1}, tensor.Shape{3})
	require.NoError(t, err)
	assert.True(t, broadcast)
	assert.Equal(t, tensor.Shape{4, 3}, shape)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{2}, tensor.Shape{3})
	require.Error(t, err)
}
