package nn

import (
	"fmt"

	"github.com/primer-ml/primer/internal/tensor"
)

// Sequential chains modules so each one's output feeds the next one's input.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a sequential container from modules in order.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := input
	for _, m := range s.modules {
		out = m.Forward(out)
	}
	return out
}

func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// Modules returns the contained modules in forward order.
func (s *Sequential[B]) Modules() []Module[B] { return s.modules }

// StateDict exports the state of all contained StateModules, prefixing each
// key with the module's position, e.g. "0.weight".
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	for i, m := range s.modules {
		sm, ok := m.(StateModule[B])
		if !ok {
			continue
		}
		for k, v := range sm.StateDict() {
			state[fmt.Sprintf("%d.%s", i, k)] = v
		}
	}
	return state
}

// LoadStateDict restores the state of all contained StateModules.
func (s *Sequential[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for i, m := range s.modules {
		sm, ok := m.(StateModule[B])
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("%d.", i)
		sub := make(map[string]*tensor.RawTensor)
		for k, v := range state {
			if len(k) > len(prefix) && k[:len(prefix)] == prefix {
				sub[k[len(prefix):]] = v
			}
		}
		if err := sm.LoadStateDict(sub); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
	}
	return nil
}
