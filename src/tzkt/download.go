package tzkt

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/username/tezgains/src/logger"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/utils"
)

// opRef is the trimmed projection used when listing operation hashes.
type opRef struct {
	Hash  string `json:"hash"`
	ID    int64  `json:"id"`
	Level int64  `json:"level"`
}

// tokenTransfer is the trimmed projection from the tokens/transfers
// endpoint; Token carries the indexer's nested contract metadata shape.
type tokenTransfer struct {
	Timestamp     string `json:"timestamp"`
	TransactionID int64  `json:"transactionId"`
	Level         int64  `json:"level"`
	Token         struct {
		Contract struct {
			Address string `json:"address"`
		} `json:"contract"`
		Standard string `json:"standard"`
		Metadata *struct {
			Symbol   string         `json:"symbol"`
			Decimals models.FlexInt `json:"decimals"`
		} `json:"metadata"`
	} `json:"token"`
}

func listParams(startDate, endDate string, offset, limit int) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("select", "hash,id,level")
	params.Set("status", "applied")
	params.Set("timestamp.ge", startDate)
	params.Set("timestamp.lt", endDate)
	params.Set("sort.asc", "level")
	return params
}

func (c *Client) fetchTransactionHashes(ctx context.Context, account string, transactionIds []int64, startDate, endDate string, offset, limit int) ([]opRef, error) {
	params := listParams(startDate, endDate, offset, limit)
	switch {
	case account != "":
		params.Set("anyof.sender.target", account)
	case len(transactionIds) > 0:
		ids := make([]string, len(transactionIds))
		for i, id := range transactionIds {
			ids[i] = strconv.FormatInt(id, 10)
		}
		params.Set("id.in", strings.Join(ids, ","))
	default:
		return nil, fmt.Errorf("fetchTransactionHashes: neither account nor transaction ids given")
	}

	var refs []opRef
	if err := c.get(ctx, "operations/transactions", params, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) fetchSenderHashes(ctx context.Context, endpoint, account, startDate, endDate string, offset int) ([]opRef, error) {
	params := listParams(startDate, endDate, offset, pageLimit)
	params.Set("sender", account)

	var refs []opRef
	if err := c.get(ctx, endpoint, params, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) fetchAllTokenTransfers(ctx context.Context, account, startDate, endDate string) ([]tokenTransfer, error) {
	// the tokens API misbehaves on future end dates, returning nothing
	if utils.ParseTimestamp(endDate).After(time.Now()) {
		endDate = time.Now().UTC().Format(utils.DateOnlyFormat)
	}
	return fetchAll(func(offset int) ([]tokenTransfer, error) {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageLimit))
		params.Set("offset", strconv.Itoa(offset))
		params.Set("select", "timestamp,transactionId,token,level")
		params.Set("anyof.from.to", account)
		params.Set("timestamp.ge", startDate)
		params.Set("timestamp.lt", endDate)
		params.Set("sort.asc", "level")

		var transfers []tokenTransfer
		if err := c.get(ctx, "tokens/transfers", params, &transfers); err != nil {
			return nil, err
		}
		return transfers, nil
	})
}

// FetchAllHashesAndTokens downloads every operation group hash touching
// the account in [startDate, endDate), plus the metadata of every FA
// token it moved. Token transfers can belong to transactions the account
// neither sent nor received directly, so their transaction ids are
// resolved to hashes separately.
func (c *Client) FetchAllHashesAndTokens(ctx context.Context, account, startDate, endDate string) ([]string, []models.Token, error) {
	transactionHashes, err := fetchAll(func(offset int) ([]opRef, error) {
		return c.fetchTransactionHashes(ctx, account, nil, startDate, endDate, offset, pageLimit)
	})
	if err != nil {
		return nil, nil, err
	}
	delegationHashes, err := fetchAll(func(offset int) ([]opRef, error) {
		return c.fetchSenderHashes(ctx, "operations/delegations", account, startDate, endDate, offset)
	})
	if err != nil {
		return nil, nil, err
	}
	originationHashes, err := fetchAll(func(offset int) ([]opRef, error) {
		return c.fetchSenderHashes(ctx, "operations/originations", account, startDate, endDate, offset)
	})
	if err != nil {
		return nil, nil, err
	}
	tokenTransfers, err := c.fetchAllTokenTransfers(ctx, account, startDate, endDate)
	if err != nil {
		return nil, nil, err
	}

	tokens := make([]models.Token, 0, len(tokenTransfers))
	for _, tt := range tokenTransfers {
		token := models.Token{
			Address:  tt.Token.Contract.Address,
			Standard: tt.Token.Standard,
			Symbol:   "MISSING",
		}
		if tt.Token.Metadata != nil {
			token.Symbol = tt.Token.Metadata.Symbol
			token.Decimals = int32(tt.Token.Metadata.Decimals)
		} else if logger.L != nil {
			logger.L.Warn("token has no metadata", "contract", token.Address)
		}
		tokens = append(tokens, token)
	}
	tokens = utils.DedupeBy(tokens, func(t models.Token) string { return t.Address })

	hashesByID := make(map[int64]bool, len(transactionHashes))
	for _, h := range transactionHashes {
		hashesByID[h.ID] = true
	}
	var missingIds []int64
	for _, tt := range tokenTransfers {
		if !hashesByID[tt.TransactionID] {
			missingIds = append(missingIds, tt.TransactionID)
		}
	}
	const chunkSize = 200
	var missingHashes []opRef
	for _, ids := range utils.ChunksOf(missingIds, chunkSize) {
		refs, err := c.fetchTransactionHashes(ctx, "", ids, startDate, endDate, 0, chunkSize)
		if err != nil {
			return nil, nil, err
		}
		missingHashes = append(missingHashes, refs...)
	}

	combined := transactionHashes
	combined = append(combined, delegationHashes...)
	combined = append(combined, originationHashes...)
	combined = append(combined, missingHashes...)
	deduped := utils.DedupeBy(combined, func(r opRef) string { return r.Hash })
	sort.SliceStable(deduped, func(i, j int) bool { return deduped[i].Level < deduped[j].Level })

	hashes := make([]string, len(deduped))
	for i, r := range deduped {
		hashes[i] = r.Hash
	}
	return hashes, tokens, nil
}

// FetchOperationGroups downloads the full operation group for every
// hash, with fiat quotes in the given currency. Groups are fetched two
// at a time; previously fetched hashes come from the memo.
func (c *Client) FetchOperationGroups(ctx context.Context, hashes []string, currency string) ([]models.OperationGroup, error) {
	groups := make([]models.OperationGroup, len(hashes))
	errs := make([]error, len(hashes))

	base := 0
	for _, chunk := range utils.ChunksOf(hashes, 2) {
		var wg sync.WaitGroup
		for k, hash := range chunk {
			if cached, ok := c.opCache.Get(hash); ok {
				groups[base+k] = cached.(models.OperationGroup)
				continue
			}
			wg.Add(1)
			go func(i int, hash string) {
				defer wg.Done()
				params := url.Values{}
				params.Set("quote", currency)
				var group models.OperationGroup
				if err := c.get(ctx, "operations/"+hash, params, &group); err != nil {
					errs[i] = err
					return
				}
				c.opCache.SetDefault(hash, group)
				groups[i] = group
			}(base+k, hash)
		}
		wg.Wait()
		base += len(chunk)
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}
