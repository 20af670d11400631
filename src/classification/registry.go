package classification

import "github.com/username/tezgains/src/models"

// Handler classifies a contract call for one registered contract. It may
// mutate the in-progress result and state; returning true means the call
// was fully handled and generic fallback rules must not run for this
// operation.
type Handler func(res *models.Result, state *State, op *models.Operation, address string) bool

// Registry maps contract addresses to classification handlers. It is the
// extensibility seam for marketplace- and minting-contract payload
// shapes; unknown contracts fall through to the generic rules.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register installs a handler for a contract address, replacing any
// previous one.
func (r *Registry) Register(contract string, h Handler) {
	r.handlers[contract] = h
}

// Classify dispatches to the handler registered for the target contract.
// Returns false when no handler exists or the handler declined to fully
// handle the call.
func (r *Registry) Classify(contract string, res *models.Result, state *State, op *models.Operation, address string) bool {
	if h, ok := r.handlers[contract]; ok {
		return h(res, state, op, address)
	}
	return false
}
