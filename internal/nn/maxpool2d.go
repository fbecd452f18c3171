package nn

import "github.com/primer-ml/primer/internal/tensor"

// MaxPool2D downsamples spatial dimensions by taking the maximum of each
// pooling window. It has no trainable parameters.
//
// Input shape: [N, C, H, W].
type MaxPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
}

// NewMaxPool2D creates a max pooling layer. A stride of 0 defaults to the
// kernel size, giving non-overlapping windows.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int) *MaxPool2D[B] {
	if stride == 0 {
		stride = kernelSize
	}
	return &MaxPool2D[B]{kernelSize: kernelSize, stride: stride}
}

func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	raw := input.Backend().MaxPool2D(input.Raw(), m.kernelSize, m.stride)
	return tensor.New[float32, B](raw, input.Backend())
}

func (m *MaxPool2D[B]) Parameters() []*Parameter[B] { return nil }
