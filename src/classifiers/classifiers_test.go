package classifiers

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tezgains/src/classification"
	"github.com/username/tezgains/src/models"
)

const (
	testAddr  = "tz1TestAddressAAAAAAAAAAAAAAAAAAAAAA"
	otherAddr = "tz1OtherAddressBBBBBBBBBBBBBBBBBBBBB"

	nftContract = "KT1NftContractFFFFFFFFFFFFFFFFFFFFFF"
)

func acct(address string) *models.Account {
	if address == "" {
		return nil
	}
	return &models.Account{Address: address}
}

func txOp(sender, target string, amount int64) *models.Operation {
	return &models.Operation{
		Type:      "transaction",
		Hash:      "oohash",
		Level:     200,
		Timestamp: "2023-07-01T12:00:00Z",
		Sender:    acct(sender),
		Target:    acct(target),
		Amount:    amount,
	}
}

func withParam(op *models.Operation, entrypoint, value string) *models.Operation {
	op.Parameter = &models.Parameter{
		Entrypoint: entrypoint,
		Value:      json.RawMessage(value),
	}
	return op
}

func classify(t *testing.T, group models.OperationGroup) []*models.Result {
	t.Helper()
	c := classification.NewClassifier(DefaultRegistry())
	results, err := c.ClassifyGroup(testAddr, group, nil)
	require.NoError(t, err)
	return results
}

func TestAuctionBid(t *testing.T) {
	op := withParam(txOp(testAddr, objktEnglishAuctionV1, 5_000_000), "bid", `"12"`)

	results := classify(t, models.OperationGroup{op})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, models.TypeAuctionBid, res.Type)
	require.Len(t, res.Out, 1)
	assert.True(t, res.Out[0].Amount.Equal(decimal.NewFromInt(5)))
	// the auction id rides along as a pseudo flow for the collator
	require.Len(t, res.In, 1)
	assert.Equal(t, objktEnglishAuctionV1, res.In[0].Token)
	assert.Equal(t, "12", res.In[0].TokenId)
	assert.True(t, res.In[0].Pseudo)
}

func TestAuctionSettle(t *testing.T) {
	op1 := withParam(txOp(otherAddr, objktEnglishAuctionV1, 0), "conclude_auction", `"12"`)
	op1.HasInternals = true
	payload := `[{"from_":"` + otherAddr + `","txs":[{"to_":"` + testAddr + `","token_id":"42","amount":"1"}]}]`
	op2 := withParam(txOp(objktEnglishAuctionV1, nftContract, 0), "transfer", payload)

	results := classify(t, models.OperationGroup{op1, op2})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, models.TypeAuctionSettle, res.Type)
	require.Len(t, res.In, 1)
	assert.Equal(t, nftContract, res.In[0].Token)
	require.Len(t, res.Out, 1)
	assert.Equal(t, objktEnglishAuctionV1, res.Out[0].Token)
	assert.Equal(t, "12", res.Out[0].TokenId)
}

func TestMarketplaceOffer(t *testing.T) {
	op := withParam(txOp(testAddr, objktMarketplaceV1, 3_000_000), "bid", `{"price":"3000000"}`)
	op.Diffs = []models.Diff{
		{
			Path:   "bids",
			Action: "add_key",
			Content: &models.DiffContent{
				Key:   json.RawMessage(`"987"`),
				Value: json.RawMessage(`{}`),
			},
		},
	}

	results := classify(t, models.OperationGroup{op})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, models.TypeOffer, res.Type)
	require.Len(t, res.In, 1)
	assert.Equal(t, objktMarketplaceV1, res.In[0].Token)
	assert.Equal(t, "987", res.In[0].TokenId)
	require.Len(t, res.Out, 1)
	assert.True(t, res.Out[0].Amount.Equal(decimal.NewFromInt(3)))
}

func TestMarketplaceOfferFulfill(t *testing.T) {
	op1 := withParam(txOp(otherAddr, objktMarketplaceV1, 0), "fulfill_bid", `"987"`)
	op1.HasInternals = true
	payload := `[{"from_":"` + otherAddr + `","txs":[{"to_":"` + testAddr + `","token_id":"42","amount":"1"}]}]`
	op2 := withParam(txOp(objktMarketplaceV1, nftContract, 0), "transfer", payload)

	results := classify(t, models.OperationGroup{op1, op2})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, models.TypeOfferFulfill, res.Type)
	require.Len(t, res.Out, 1)
	assert.Equal(t, "987", res.Out[0].TokenId)
	require.Len(t, res.In, 1)
	assert.Equal(t, nftContract, res.In[0].Token)
}

func TestSkelesMintQueueBuy(t *testing.T) {
	op := withParam(txOp(testAddr, skelesMintQueue, 10_000_000), "buy", `"2"`)

	results := classify(t, models.OperationGroup{op})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, models.TypeSend, res.Type)
	require.Len(t, res.Out, 1)
	assert.True(t, res.Out[0].Amount.Equal(decimal.NewFromInt(10)))
	require.Len(t, res.In, 1)
	assert.Equal(t, "FUTURE-"+skelesFA2, res.In[0].Token)
	assert.True(t, res.In[0].Amount.Equal(decimal.NewFromInt(2)))
}

func TestSkelesFA2MintForAddress(t *testing.T) {
	value := `{"address":"` + testAddr + `","amount":"1","token_id":"77"}`
	op := withParam(txOp(otherAddr, skelesFA2, 0), "mint", value)

	results := classify(t, models.OperationGroup{op})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, models.TypeAirdrop, res.Type)
	require.Len(t, res.In, 1)
	assert.Equal(t, skelesFA2, res.In[0].Token)
	assert.Equal(t, "77", res.In[0].TokenId)
}

func TestSkelesFA2MintForSomeoneElse(t *testing.T) {
	value := `{"address":"` + testAddr + `","amount":"1","token_id":"77"}`
	op1 := withParam(txOp(otherAddr, skelesFA2, 0), "mint", value)
	op1.HasInternals = true
	otherValue := `{"address":"` + otherAddr + `","amount":"1","token_id":"78"}`
	op2 := withParam(txOp(otherAddr, skelesFA2, 0), "mint", otherValue)

	results := classify(t, models.OperationGroup{op1, op2})
	require.Len(t, results, 1)

	// only the token minted to the address counts
	res := results[0]
	require.Len(t, res.In, 1)
	assert.Equal(t, "77", res.In[0].TokenId)
}

func TestFxhashGentkMintPurchase(t *testing.T) {
	op1 := withParam(txOp(testAddr, "KT1AEVuykWeuuFX7QkEAMNtffzwhe1Z98hJS", 1_500_000), "mint", `{"issuer_id":"5"}`)
	op1.HasInternals = true
	value := `{"address":"` + testAddr + `","token_id":"100"}`
	op2 := withParam(txOp("KT1AEVuykWeuuFX7QkEAMNtffzwhe1Z98hJS", fxhashGentkV1, 0), "mint", value)

	results := classify(t, models.OperationGroup{op1, op2})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, models.TypeTrade, res.Type)
	require.Len(t, res.In, 1)
	assert.Equal(t, fxhashGentkV1, res.In[0].Token)
	assert.Equal(t, "100", res.In[0].TokenId)
	require.Len(t, res.Out, 1)
	assert.True(t, res.Out[0].Amount.Equal(decimal.RequireFromString("1.5")))
}
