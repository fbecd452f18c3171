// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/primer-ml/primer/internal/tensor"
	"github.com/primer-ml/primer/pkg/errors"
)

// TextDataset tokenizes a corpus with a tiktoken BPE encoding and serves
// fixed-length (input, target) windows for next-token prediction: the target
// sequence is the input shifted one token to the right.
type TextDataset struct {
	encoding *tiktoken.Tiktoken
	tokens   []int64
	seqLen   int
}

// NewTextDataset tokenizes text with the named encoding, e.g. "cl100k_base".
func NewTextDataset(text, encodingName string, seqLen int) (*TextDataset, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, errors.Wrap(err, "data: loading tiktoken encoding")
	}
	if seqLen <= 0 {
		return nil, errors.Newf("data: sequence length must be positive, got %d", seqLen)
	}

	ids := encoding.Encode(text, nil, nil)
	tokens := make([]int64, len(ids))
	for i, id := range ids {
		tokens[i] = int64(id)
	}

	if len(tokens) < seqLen+1 {
		return nil, errors.Newf("data: corpus has %d tokens, need at least %d for one window", len(tokens), seqLen+1)
	}

	return &TextDataset{encoding: encoding, tokens: tokens, seqLen: seqLen}, nil
}

// NumTokens reports the tokenized corpus length.
func (d *TextDataset) NumTokens() int { return len(d.tokens) }

// NumWindows reports how many (input, target) windows the corpus yields.
func (d *TextDataset) NumWindows() int { return len(d.tokens) - d.seqLen }

// Window returns the i-th (input, target) pair of d as int64 tensors of
// shape [seqLen]. The target is the input shifted by one position.
func Window[B tensor.Backend](d *TextDataset, i int, backend B) (*tensor.Tensor[int64, B], *tensor.Tensor[int64, B], error) {
	if i < 0 || i >= d.NumWindows() {
		return nil, nil, errors.Newf("data: window %d out of range [0,%d)", i, d.NumWindows())
	}

	input, err := tensor.FromSlice(d.tokens[i:i+d.seqLen], tensor.Shape{d.seqLen}, backend)
	if err != nil {
		return nil, nil, err
	}
	target, err := tensor.FromSlice(d.tokens[i+1:i+1+d.seqLen], tensor.Shape{d.seqLen}, backend)
	if err != nil {
		return nil, nil, err
	}
	return input, target, nil
}

// Decode converts token ids back to text.
func (d *TextDataset) Decode(tokens []int64) string {
	ids := make([]int, len(tokens))
	for i, t := range tokens {
		ids[i] = int(t)
	}
	return d.encoding.Decode(ids)
}
