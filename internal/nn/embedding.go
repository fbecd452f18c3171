package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Embedding maps integer token ids to dense vectors by table lookup.
//
// The weight has shape [numEmbeddings, embedDim]; looking up indices of
// shape [...] yields [..., embedDim]. Because the indices are integers the
// layer does not satisfy Module; use Lookup directly.
type Embedding[B tensor.Backend] struct {
	numEmbeddings int
	embedDim      int
	weight        *Parameter[B]
	backend       B
}

// NewEmbedding creates an embedding table initialized from N(0, 1).
func NewEmbedding[B tensor.Backend](numEmbeddings, embedDim int, backend B) *Embedding[B] {
	return &Embedding[B]{
		numEmbeddings: numEmbeddings,
		embedDim:      embedDim,
		weight:        NewParameter("weight", Randn(tensor.Shape{numEmbeddings, embedDim}, backend)),
		backend:       backend,
	}
}

// Lookup returns the embedding vectors for the given token ids.
func (e *Embedding[B]) Lookup(indices *tensor.Tensor[int64, B]) *tensor.Tensor[float32, B] {
	raw := e.backend.Embedding(e.weight.Tensor().Raw(), indices.Raw())
	return tensor.New[float32, B](raw, e.backend)
}

func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.weight}
}

// Weight returns the embedding table parameter.
func (e *Embedding[B]) Weight() *Parameter[B] { return e.weight }

// StateDict exports the embedding table.
func (e *Embedding[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{"weight": e.weight.Tensor().Raw()}
}

// LoadStateDict restores the embedding table.
func (e *Embedding[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	raw, ok := state["weight"]
	if !ok {
		return fmt.Errorf("missing %q in state dict", "weight")
	}
	if !raw.Shape().Equal(tensor.Shape{e.numEmbeddings, e.embedDim}) {
		return fmt.Errorf("weight shape mismatch: expected %v, got %v",
			tensor.Shape{e.numEmbeddings, e.embedDim}, raw.Shape())
	}
	copy(e.weight.Tensor().Data(), raw.AsFloat32())
	return nil
}
