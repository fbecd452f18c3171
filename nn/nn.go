// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn re-exports Primer's neural network building blocks: the Module
// interface, layers, activations, losses and initializers.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewSequential[*autodiff.Backend[*cpu.Backend]](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*autodiff.Backend[*cpu.Backend]](),
//	    nn.NewLinear(128, 10, backend),
//	)
package nn

import (
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/tensor"
)

// Module is the interface every network component implements.
type Module[B tensor.Backend] = nn.Module[B]

// StateModule is a Module whose parameters round-trip through a state dict.
type StateModule[B tensor.Backend] = nn.StateModule[B]

// Parameter is a trainable tensor with its gradient.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter wraps a tensor as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers.

// Linear is a fully connected layer: y = x @ W^T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a fully connected layer with bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearNoBias creates a fully connected layer without bias.
func NewLinearNoBias[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinearNoBias(inFeatures, outFeatures, backend)
}

// Corr2D is the minimal learnable convolution: a single 2D kernel plus a
// scalar bias over a single 2D grid.
type Corr2D[B tensor.Backend] = nn.Corr2D[B]

// NewCorr2D creates a single-kernel cross-correlation layer.
func NewCorr2D[B tensor.Backend](kernelH, kernelW int, backend B) *Corr2D[B] {
	return nn.NewCorr2D(kernelH, kernelW, backend)
}

// Conv2D is a batched multi-channel convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a convolutional layer with square kernels.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, stride, padding, backend)
}

// MaxPool2D reduces spatial windows to their maximum.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a max pooling layer; stride 0 defaults to kernelSize.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int) *MaxPool2D[B] {
	return nn.NewMaxPool2D[B](kernelSize, stride)
}

// Flatten collapses all dimensions after the batch dimension.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Embedding maps integer token ids to dense vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding table.
func NewEmbedding[B tensor.Backend](numEmbeddings, embedDim int, backend B) *Embedding[B] {
	return nn.NewEmbedding(numEmbeddings, embedDim, backend)
}

// LayerNorm normalizes each row over its last dimension.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a layer normalization over a last dimension of size dim.
func NewLayerNorm[B tensor.Backend](dim int, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(dim, backend)
}

// Centered subtracts the input's mean from every element.
type Centered[B tensor.Backend] = nn.Centered[B]

// NewCentered creates a centering layer.
func NewCentered[B tensor.Backend]() *Centered[B] {
	return nn.NewCentered[B]()
}

// Recurrent networks.

// RNNCell is one tanh recurrence step.
type RNNCell[B tensor.Backend] = nn.RNNCell[B]

// NewRNNCell creates a tanh recurrent cell.
func NewRNNCell[B tensor.Backend](inputSize, hiddenSize int, backend B) *RNNCell[B] {
	return nn.NewRNNCell(inputSize, hiddenSize, backend)
}

// RNN unrolls an RNNCell over a sequence.
type RNN[B tensor.Backend] = nn.RNN[B]

// NewRNN creates a single-layer recurrent network.
func NewRNN[B tensor.Backend](inputSize, hiddenSize int, backend B) *RNN[B] {
	return nn.NewRNN(inputSize, hiddenSize, backend)
}

// BiRNN is a bidirectional recurrent network.
type BiRNN[B tensor.Backend] = nn.BiRNN[B]

// NewBiRNN creates a bidirectional recurrent network.
func NewBiRNN[B tensor.Backend](inputSize, hiddenSize int, backend B) *BiRNN[B] {
	return nn.NewBiRNN(inputSize, hiddenSize, backend)
}

// Attention.

// SelfAttention is single-head self-attention over a token sequence.
type SelfAttention[B tensor.Backend] = nn.SelfAttention[B]

// NewSelfAttention creates a single-head self-attention layer.
func NewSelfAttention[B tensor.Backend](dim int, backend B) *SelfAttention[B] {
	return nn.NewSelfAttention(dim, backend)
}

// ScaledDotProductAttention computes softmax(QK^T/sqrt(d))V.
func ScaledDotProductAttention[B tensor.Backend](q, k, v *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return nn.ScaledDotProductAttention(q, k, v)
}

// PatchEmbedding projects image patches to embedding vectors.
type PatchEmbedding[B tensor.Backend] = nn.PatchEmbedding[B]

// NewPatchEmbedding creates a patch embedding layer.
func NewPatchEmbedding[B tensor.Backend](inChannels, embedDim, patchSize int, backend B) *PatchEmbedding[B] {
	return nn.NewPatchEmbedding(inChannels, embedDim, patchSize, backend)
}

// TransformerBlock is a pre-norm transformer encoder block.
type TransformerBlock[B tensor.Backend] = nn.TransformerBlock[B]

// NewTransformerBlock creates an encoder block.
func NewTransformerBlock[B tensor.Backend](dim, mlpDim int, backend B) *TransformerBlock[B] {
	return nn.NewTransformerBlock(dim, mlpDim, backend)
}

// Activations.

// ReLU applies max(0, x).
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] { return nn.NewReLU[B]() }

// Sigmoid applies 1/(1+e^-x).
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] { return nn.NewSigmoid[B]() }

// Tanh applies the hyperbolic tangent.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] { return nn.NewTanh[B]() }

// Containers and losses.

// Sequential chains modules output-to-input.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// MSELoss is the mean squared error criterion.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates an MSE criterion.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] { return nn.NewMSELoss[B]() }

// CrossEntropyLoss is the mean softmax cross-entropy criterion.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewCrossEntropyLoss creates a cross-entropy criterion.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss[B]()
}

// Initializers.

// Xavier initializes weights from the Glorot uniform distribution.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Kaiming initializes weights from N(0, 2/fanIn).
func Kaiming[B tensor.Backend](fanIn int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Kaiming(fanIn, shape, backend)
}
