package classification

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/logger"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

// BurnAddress is the canonical Tezos burn sink.
const BurnAddress = "tz1burnburnburnburnburnburnburjAYjjX"

// MintEntrypoints and MintContracts track the entrypoint/contract
// combinations that mint the user's *own* tokens. Minting while buying
// somebody else's token goes through the contract registry instead.
var MintEntrypoints = []string{"mint", "mint_OBJKT", "mint_artist", "mint_issuer"}

var MintContracts = []string{
	"KT1Hkg5qeNhfwpKW4fXvq7HGZB9z2EnmCCA9", // hen/teia minter
	"KT1Aq4wWmVanpQhq4TTfjZXB5AjFpx15iQMM", // objkt.com minter
	"KT1AEVuykWeuuFX7QkEAMNtffzwhe1Z98hJS", // fx(hash) issuer v1
	"KT1XCoGnfupWk7Sp8536EfrxcP73LmT68Nyr", // fx(hash) issuer v2
	"KT1LjmAdYQCLBjwv4S2oFkEzyHVkomAf5MrW", // versum items
	"KT1TKFWDiMk35c5n94TMmLaYksdXkHuaL112", // tz1and
	"KT18pVpRXKPY2c4U2yFEGSH3ZnhB2kL8kwXS", // rarible shared collection
	"KT1EpGgjQs73QfFJs9z7m1Mxm5MTnpC2tqse", // kalamint
	"KT1AFq5XorPduoYyWxs5gEyrFK6fVjJVbtCj", // akaSwap
}

// Classifier turns raw operation groups into typed results, consulting
// the contract registry before the generic fallback rules.
type Classifier struct {
	registry *Registry
}

func NewClassifier(registry *Registry) *Classifier {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Classifier{registry: registry}
}

// ClassifyGroups classifies a list of operation groups from the
// perspective of an address.
func (c *Classifier) ClassifyGroups(address string, groups []models.OperationGroup, tokens []models.Token) ([]*models.Result, error) {
	var results []*models.Result
	for _, group := range groups {
		rs, err := c.ClassifyGroup(address, group, tokens)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}

// ClassifyGroup classifies a single operation group, splitting it into
// logical sub-groups first. Sub-groups that never touch the address are
// skipped; sub-groups that cannot be confidently typed are logged and
// dropped.
func (c *Classifier) ClassifyGroup(address string, group models.OperationGroup, tokens []models.Token) ([]*models.Result, error) {
	decimals := tokenDecimals(tokens)
	var results []*models.Result
	for _, ops := range splitOperationGroup(group) {
		if !affectsAddress(address, ops) {
			continue
		}
		res, err := c.classifySubGroup(address, ops)
		if err != nil {
			return nil, fmt.Errorf("classifying group %s: %w", ops[0].Hash, err)
		}
		if res == nil {
			continue
		}
		normalizeResult(res, decimals)
		results = append(results, res)
	}
	return results, nil
}

// splitOperationGroup cuts a batched group at every operation that
// begins a new top-level call.
func splitOperationGroup(group models.OperationGroup) []([]*models.Operation) {
	var result []([]*models.Operation)
	var current []*models.Operation
	for _, op := range group {
		if op.HasInternals && len(current) > 0 {
			result = append(result, current)
			current = nil
		}
		current = append(current, op)
	}
	result = append(result, current)
	return result
}

// affectsAddress reports whether any operation in the sub-group touches
// the address, either directly or inside a transfer payload.
func affectsAddress(address string, ops []*models.Operation) bool {
	for _, op := range ops {
		if op.SenderAddress() == address || op.TargetAddress() == address {
			return true
		}
		if op.Parameter == nil {
			continue
		}
		if op.Parameter.Entrypoint == "transfer" {
			transfers, err := decodeTransferPayload(op.Parameter.Value)
			if err == nil {
				for _, t := range transfers {
					if t.From == address {
						return true
					}
					for _, tx := range t.Txs {
						if tx.To == address {
							return true
						}
					}
				}
			}
		}
		var ref struct {
			Address string `json:"address"`
		}
		if json.Unmarshal(op.Parameter.Value, &ref) == nil && ref.Address == address {
			return true
		}
	}
	return false
}

func (c *Classifier) classifySubGroup(address string, ops []*models.Operation) (*models.Result, error) {
	res := NewResult(ops, address)
	state := NewState(ops, address)

	for _, op := range ops {
		// fees are tracked for every operation kind
		AddFees(res, op, address)

		if op.Type != "transaction" {
			switch op.Type {
			case "delegation":
				res.Type = models.TypeDelegation
			case "origination":
				res.Type = models.TypeOrigination
			default:
				res.Type = models.TypeRemove
			}
			continue
		}

		if op.Amount > 0 {
			set := NewAmountSet()
			sender := op.SenderAddress()
			if sender == address {
				set.AddOutgoing(decimal.NewFromInt(op.Amount), "", models.XTZ, address, op.TargetAddress())
			} else if op.TargetAddress() == address {
				// marketplace contracts route payments through internal
				// calls; the economic payer is then the call's initiator
				from := sender
				if state.FirstOpHasAmount && !state.Bid {
					if initiator := op.InitiatorAddress(); initiator != "" {
						from = initiator
					}
				}
				set.AddIncoming(decimal.NewFromInt(op.Amount), "", models.XTZ, from, address)
			}
			AddAmounts(res, set, false)
		}

		if op.Parameter != nil {
			entrypoint := op.Parameter.Entrypoint
			state.ContractCalls = append(state.ContractCalls, entrypoint)
			token := op.TargetAddress()

			if entrypoint == "transfer" {
				set, err := TransfersFromPayload(token, op.Parameter.Value, address, op.SenderAddress())
				if err != nil {
					return nil, err
				}
				AddAmounts(res, set, false)
				for _, f := range set.Outgoing {
					if f.To == BurnAddress {
						state.SetBurn(true)
					}
				}
			} else if c.registry.Classify(token, res, state, op, address) {
				// fully handled by a contract-specific handler
			} else if err := c.classifyLedgerDiffs(res, state, op, address); err != nil {
				return nil, err
			}

			state.SetMint(slices.Contains(MintEntrypoints, entrypoint) && slices.Contains(MintContracts, token))
			state.SetTransfer(entrypoint == "transfer")
			state.SetBid(entrypoint == "bid")
			state.SetBurn(entrypoint == "burn")
		}
	}

	// more than one genuine flow in a direction means the pseudo flows
	// were noise; reset and retype from scratch
	if len(res.In) > 1 || len(res.Out) > 1 {
		res.Type = models.TypeUnknown
		StripPseudoFlows(res)
	}

	if res.Type == models.TypeUnknown {
		if len(res.In) > 0 && len(res.Out) == 0 {
			res.Type = models.TypeReceive
			if state.Bid {
				res.Type = models.TypeAuctionOutbid
			} else if state.Mint && !state.OtherInitiated {
				res.Type = models.TypeMint
			} else if state.Transfer {
				if state.OtherInitiated {
					res.Type = models.TypeAirdrop
				} else {
					res.Type = models.TypeReceiveToken
				}
			}
		} else if len(res.Out) > 0 && len(res.In) == 0 {
			res.Type = models.TypeSend
			if state.Transfer {
				if state.Burn {
					res.Type = models.TypeBurn
				} else {
					toKT := false
					for _, f := range res.Out {
						if utils.IsKT(f.To) {
							toKT = true
							break
						}
					}
					if toKT {
						res.Type = models.TypeSendTokenKT
					} else {
						res.Type = models.TypeSendTokenTz
					}
				}
			}
		}

		if len(res.Out) > 0 && len(res.In) > 0 {
			if state.OtherInitiated {
				// somebody collects your token
				res.Type = models.TypeSale
			} else {
				res.Type = models.TypeTrade
			}
		}
	}

	if res.Type == models.TypeUnknown {
		if len(res.In) == 0 || len(res.Out) == 0 {
			if len(state.ContractCalls) > 0 {
				res.Type = models.TypeContractCall
			}
		}
	}

	if res.Type == models.TypeUnknown {
		if logger.L != nil {
			logger.L.Warn("Unknown classification, dropping sub-group", "hash", ops[0].Hash)
		}
		return nil, nil
	}
	if res.Type == models.TypeRemove {
		return nil, nil
	}
	return res, nil
}

// ledgerKey covers the big-map key shapes seen across FA contracts:
// plain scalars, owner records and issuer records.
type ledgerKey struct {
	Nat     json.RawMessage `json:"nat"`
	TokenId json.RawMessage `json:"token_id"`
	Address string          `json:"address"`
	Owner   string          `json:"owner"`
}

type ledgerValue struct {
	Author string `json:"author"`
}

// classifyLedgerDiffs interprets big-map ledger additions as token
// receipts when they name the address as the new owner.
func (c *Classifier) classifyLedgerDiffs(res *models.Result, state *State, op *models.Operation, address string) error {
	var ledgerChanges []models.Diff
	for _, d := range op.Diffs {
		if d.Path == "ledger" {
			ledgerChanges = append(ledgerChanges, d)
		}
	}
	if len(ledgerChanges) == 0 {
		return nil
	}
	state.SetTransfer(true)

	token := op.TargetAddress()
	for _, change := range ledgerChanges {
		if change.Action != "add_key" || change.Content == nil {
			continue
		}
		key := change.Content.Key
		value := change.Content.Value

		amount := decimal.NewFromInt(1)
		var valueStr string
		if json.Unmarshal(value, &valueStr) == nil {
			if v, err := decimal.NewFromString(valueStr); err == nil {
				amount = v
			}
		}

		var k ledgerKey
		_ = json.Unmarshal(key, &k)
		tokenId := models.RawString(k.Nat)
		if tokenId == "" {
			tokenId = models.RawString(k.TokenId)
		}
		if tokenId == "" {
			tokenId = models.RawString(key)
		}

		var v ledgerValue
		_ = json.Unmarshal(value, &v)
		to := k.Address
		if to == "" {
			to = k.Owner
		}
		if to == "" {
			to = v.Author
		}

		if to == address {
			set := SingleTransfer(token, tokenId, amount, address, op.SenderAddress(), token, to)
			AddAmounts(res, set, false)
		}
	}
	return nil
}

// tokenDecimals builds the per-asset precision table; the native asset
// is fixed at 6.
func tokenDecimals(tokens []models.Token) map[string]int32 {
	decimals := map[string]int32{models.XTZ: models.XTZDecimals}
	for _, t := range tokens {
		decimals[t.Address] = t.Decimals
	}
	return decimals
}

// normalizeResult converts raw integer amounts into decimal units.
func normalizeResult(res *models.Result, decimals map[string]int32) {
	normalize := func(flows []models.Flow) {
		for i := range flows {
			if d, ok := decimals[flows[i].Token]; ok && d != 0 {
				flows[i].Amount = flows[i].Amount.Shift(-d)
			}
		}
	}
	normalize(res.In)
	normalize(res.Out)
	res.Fees = res.Fees.Shift(-models.XTZDecimals)
}
