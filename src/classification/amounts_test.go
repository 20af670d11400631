package classification

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tezgains/src/models"
)

func flowSet(t *testing.T) (*models.Result, *AmountSet) {
	t.Helper()
	res := &models.Result{Type: models.TypeUnknown, Fees: decimal.Zero}
	return res, NewAmountSet()
}

func TestAddAmountsMergesSameCounterparty(t *testing.T) {
	res, set := flowSet(t)
	set.AddIncoming(decimal.NewFromInt(2), "1", tokenContract, otherAddr, testAddr)
	set.AddIncoming(decimal.NewFromInt(3), "1", tokenContract, otherAddr, testAddr)
	AddAmounts(res, set, false)

	require.Len(t, res.In, 1)
	assert.True(t, res.In[0].Amount.Equal(decimal.NewFromInt(5)))
}

func TestAddAmountsKeepsDistinctCounterparties(t *testing.T) {
	res, set := flowSet(t)
	set.AddIncoming(decimal.NewFromInt(2), "1", tokenContract, otherAddr, testAddr)
	set.AddIncoming(decimal.NewFromInt(3), "1", tokenContract, thirdAddr, testAddr)
	AddAmounts(res, set, false)

	require.Len(t, res.In, 2)
}

func TestAddAmountsNetsEqualOpposingFlows(t *testing.T) {
	res, set := flowSet(t)
	set.AddIncoming(decimal.NewFromInt(5), "", models.XTZ, otherAddr, testAddr)
	set.AddOutgoing(decimal.NewFromInt(5), "", models.XTZ, testAddr, otherAddr)
	AddAmounts(res, set, false)

	assert.Empty(t, res.In)
	assert.Empty(t, res.Out)
}

func TestAddAmountsNetsUnequalOpposingFlows(t *testing.T) {
	res, set := flowSet(t)
	set.AddIncoming(decimal.NewFromInt(7), "", models.XTZ, otherAddr, testAddr)
	set.AddOutgoing(decimal.NewFromInt(5), "", models.XTZ, testAddr, otherAddr)
	AddAmounts(res, set, false)

	require.Len(t, res.In, 1)
	assert.Empty(t, res.Out)
	assert.True(t, res.In[0].Amount.Equal(decimal.NewFromInt(2)))
}

func TestAddAmountsNetsLargerOutgoing(t *testing.T) {
	res, set := flowSet(t)
	set.AddIncoming(decimal.NewFromInt(3), "", models.XTZ, otherAddr, testAddr)
	set.AddOutgoing(decimal.NewFromInt(8), "", models.XTZ, testAddr, otherAddr)
	AddAmounts(res, set, false)

	assert.Empty(t, res.In)
	require.Len(t, res.Out, 1)
	assert.True(t, res.Out[0].Amount.Equal(decimal.NewFromInt(5)))
}

func TestStripPseudoFlows(t *testing.T) {
	res, set := flowSet(t)
	set.AddIncoming(decimal.NewFromInt(1), "12", marketContract, marketContract, testAddr)
	AddAmounts(res, set, true)
	set2 := NewAmountSet()
	set2.AddIncoming(decimal.NewFromInt(2), "", models.XTZ, otherAddr, testAddr)
	AddAmounts(res, set2, false)

	require.Len(t, res.In, 2)
	StripPseudoFlows(res)
	require.Len(t, res.In, 1)
	assert.Equal(t, models.XTZ, res.In[0].Token)
}
