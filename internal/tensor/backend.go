package tensor

// Backend is the interface compute backends implement. The CPU backend holds
// the reference semantics; an autodiff backend decorates any Backend and
// records operations for reverse-mode differentiation.
//
// Backends panic on malformed inputs (wrong rank, dtype mismatch): those are
// programmer errors, caught by the validating wrappers in the public API.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies two rank-2 tensors: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Corr2D slides kernel k over x with unit stride and no padding:
	// [H, W] corr [kh, kw] -> [H-kh+1, W-kw+1]. The shape precondition
	// kh <= H, kw <= W must hold.
	Corr2D(x, k *RawTensor) *RawTensor
	// Corr2DInputBackward computes dL/dx given dL/dy: the full
	// cross-correlation of the padded output gradient with the rotated kernel.
	Corr2DInputBackward(x, k, grad *RawTensor) *RawTensor
	// Corr2DKernelBackward computes dL/dk given dL/dy, which is Corr2D(x, grad).
	Corr2DKernelBackward(x, k, grad *RawTensor) *RawTensor

	// Conv2D is the batched multi-channel cross-correlation used by the
	// convolutional layers: [N, C_in, H, W] with kernel
	// [C_out, C_in, kh, kw] -> [N, C_out, H_out, W_out].
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor
	Conv2DInputBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor
	Conv2DKernelBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor

	// MaxPool2D reduces spatial windows to their maximum:
	// [N, C, H, W] -> [N, C, H_out, W_out].
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor
	MaxPool2DBackward(input, grad *RawTensor, maxIndices []int, kernelSize, stride int) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Embedding looks up rows of weight by int64 indices:
	// weight [V, D], indices [...] -> [..., D].
	Embedding(weight, indices *RawTensor) *RawTensor

	// Scalar operations (element-wise with a scalar).
	AddScalar(x *RawTensor, scalar float64) *RawTensor
	SubScalar(x *RawTensor, scalar float64) *RawTensor
	MulScalar(x *RawTensor, scalar float64) *RawTensor
	DivScalar(x *RawTensor, scalar float64) *RawTensor

	// Math and activation functions (element-wise).
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	ReLU(x *RawTensor) *RawTensor
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reduction operations. Sum and Mean reduce to a single-element tensor.
	Sum(x *RawTensor) *RawTensor
	Mean(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// CrossEntropy computes mean softmax cross-entropy of logits [N, C]
	// against int64 class labels [N], reducing to a single-element tensor.
	CrossEntropy(logits, targets *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
