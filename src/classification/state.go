package classification

import "github.com/username/tezgains/src/models"

// State carries the flags accumulated while walking one logical
// sub-group. A fresh value is built per sub-group; flags only ever latch
// from false to true.
type State struct {
	ContractCalls    []string
	OtherInitiated   bool
	FirstOpHasAmount bool
	Mint             bool
	Transfer         bool
	Bid              bool
	Burn             bool
}

// NewState derives the initial state from the sub-group's first
// operation.
func NewState(ops []*models.Operation, address string) *State {
	first := ops[0]
	return &State{
		OtherInitiated:   first.SenderAddress() != address,
		FirstOpHasAmount: first.Amount > 0,
	}
}

func (s *State) SetMint(v bool)     { s.Mint = s.Mint || v }
func (s *State) SetTransfer(v bool) { s.Transfer = s.Transfer || v }
func (s *State) SetBid(v bool)      { s.Bid = s.Bid || v }
func (s *State) SetBurn(v bool)     { s.Burn = s.Burn || v }
