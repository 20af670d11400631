package collation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tezgains/src/models"
)

const (
	accountA = "tz1AccountAAAAAAAAAAAAAAAAAAAAAAAAAA"
	accountB = "tz1AccountBBBBBBBBBBBBBBBBBBBBBBBBBB"
	stranger = "tz1StrangerCCCCCCCCCCCCCCCCCCCCCCCCC"

	nftContract   = "KT1NftContractFFFFFFFFFFFFFFFFFFFFFF"
	queueContract = "KT1QueueContractGGGGGGGGGGGGGGGGGGGG"
	auctionHouse  = "KT1AuctionHouseHHHHHHHHHHHHHHHHHHHHH"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func xtzIn(amount, from string) models.Row {
	return models.Row{InAmt: dec(amount), InToken: models.XTZ, InTokenFrom: from}
}

func xtzOut(amount, to string) models.Row {
	return models.Row{OutAmt: dec(amount), OutToken: models.XTZ, OutTokenTo: to}
}

func TestSortByLevel(t *testing.T) {
	rows := []models.Row{
		{Level: "30", Op: "h3"},
		{Level: "10", Op: "h1"},
		{Level: "20", Op: "h2"},
	}
	sorted, err := Sort(rows)
	require.NoError(t, err)
	assert.Equal(t, "h1", sorted[0].Op)
	assert.Equal(t, "h2", sorted[1].Op)
	assert.Equal(t, "h3", sorted[2].Op)
}

func TestSortRelocatesInboundExchangeTransfer(t *testing.T) {
	onChain := models.Row{
		Type: models.TypeSend, Level: "10", Op: "h1",
		Timestamp: "2023-01-01T00:00:00Z", Account: accountA,
	}
	// the exchange credits the deposit a day later
	exchangeLeg := models.Row{
		Type: models.TypeTransfer, Op: "h1",
		Timestamp: "2023-01-02T00:00:00Z",
		InAmt:     dec("5"), InToken: models.XTZ,
	}
	earlier := models.Row{
		Type: models.TypeReceive, Level: "5", Op: "h0",
		Timestamp: "2022-12-01T00:00:00Z",
	}

	sorted, err := Sort([]models.Row{exchangeLeg, onChain, earlier})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "h0", sorted[0].Op)
	assert.Equal(t, models.TypeSend, sorted[1].Type)
	// the inbound exchange leg lands right after its on-chain withdrawal
	assert.Equal(t, models.TypeTransfer, sorted[2].Type)
}

func TestSortRelocatesOutboundExchangeTransfer(t *testing.T) {
	onChain := models.Row{
		Type: models.TypeReceive, Level: "10", Op: "h1",
		Timestamp: "2023-01-02T00:00:00Z", Account: accountA,
	}
	exchangeLeg := models.Row{
		Type: models.TypeTransfer, Op: "h1",
		Timestamp: "2023-01-03T00:00:00Z",
		OutAmt:    dec("5"), OutToken: models.XTZ,
	}

	sorted, err := Sort([]models.Row{onChain, exchangeLeg})
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	// the outbound exchange leg lands right before the on-chain receipt
	assert.Equal(t, models.TypeTransfer, sorted[0].Type)
	assert.Equal(t, models.TypeReceive, sorted[1].Type)
}

func TestSortMissingOpHash(t *testing.T) {
	exchangeLeg := models.Row{
		Type:      models.TypeTransfer,
		Timestamp: "2023-01-03T00:00:00Z",
		OutAmt:    dec("5"), OutToken: models.XTZ,
	}
	_, err := Sort([]models.Row{exchangeLeg})
	require.ErrorIs(t, err, ErrMissingOpHash)
}

func TestClassifyTradeWithXTZBecomesBuy(t *testing.T) {
	row := models.Row{
		Type: models.TypeTrade, Level: "10", Op: "h1", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "42",
		OutAmt: dec("3"), OutToken: models.XTZ, OutTokenTo: stranger,
	}
	out := Classify([]models.Row{row}, []string{accountA})
	require.Len(t, out, 1)
	assert.Equal(t, models.TypeBuy, out[0].Type)
}

func TestClassifySelfTransfers(t *testing.T) {
	tokenSend := models.Row{
		Type: models.TypeSendTokenTz, Level: "10", Account: accountA,
		OutAmt: dec("1"), OutToken: nftContract, OutTokenId: "1", OutTokenTo: accountB,
	}
	xtzSend := xtzOut("2", accountB)
	xtzSend.Type = models.TypeSend
	xtzSend.Level = "11"
	xtzSend.Account = accountA
	xtzReceive := xtzIn("2", accountA)
	xtzReceive.Type = models.TypeReceive
	xtzReceive.Level = "11"
	xtzReceive.Account = accountB
	strangerSend := xtzOut("9", stranger)
	strangerSend.Type = models.TypeSend
	strangerSend.Level = "12"
	strangerSend.Account = accountA

	out := Classify([]models.Row{tokenSend, xtzSend, xtzReceive, strangerSend}, []string{accountA, accountB})
	require.Len(t, out, 4)
	assert.Equal(t, models.TypeTransferToken, out[0].Type)
	assert.Equal(t, models.TypeTransfer, out[1].Type)
	assert.Equal(t, models.TypeTransfer, out[2].Type)
	assert.Equal(t, models.TypeSend, out[3].Type)
}

func TestClassifyExchangeHashMarksTransfers(t *testing.T) {
	exchangeLeg := models.Row{
		Type: models.TypeTransfer, Op: "h1",
		Timestamp: "2023-01-02T00:00:00Z",
		InAmt:     dec("5"), InToken: models.XTZ,
	}
	onChainSend := models.Row{
		Type: models.TypeSend, Level: "10", Op: "h1", Account: accountA,
		OutAmt: dec("5"), OutToken: models.XTZ, OutTokenTo: stranger,
	}
	out := Classify([]models.Row{onChainSend, exchangeLeg}, []string{accountA})
	require.Len(t, out, 2)
	assert.Equal(t, models.TypeTransfer, out[0].Type)
}

func TestClassifyLevellessTradeIsCex(t *testing.T) {
	row := models.Row{
		Type:      models.TypeTrade,
		Timestamp: "2023-01-02T00:00:00Z",
		InAmt:     dec("100"), InToken: models.XTZ,
		OutAmt: dec("50"), OutToken: "USDT",
	}
	out := Classify([]models.Row{row}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, models.TypeTradeCex, out[0].Type)
}

func TestClassifySaleAfterPurchaseIsResale(t *testing.T) {
	purchase := models.Row{
		Type: models.TypeTrade, Level: "10", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "42",
		OutAmt: dec("3"), OutToken: models.XTZ,
	}
	sale := models.Row{
		Type: models.TypeSale, Level: "20", Account: accountA,
		InAmt: dec("5"), InToken: models.XTZ,
		OutAmt: dec("1"), OutToken: nftContract, OutTokenId: "42",
	}
	out := Classify([]models.Row{purchase, sale}, []string{accountA})
	require.Len(t, out, 2)
	assert.Equal(t, models.TypeSaleResale, out[1].Type)
}

func TestClassifySaleBeforePurchaseStaysSale(t *testing.T) {
	sale := models.Row{
		Type: models.TypeSale, Level: "10", Account: accountA,
		InAmt: dec("5"), InToken: models.XTZ,
		OutAmt: dec("1"), OutToken: nftContract, OutTokenId: "42",
	}
	buyback := models.Row{
		Type: models.TypeTrade, Level: "20", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "42",
		OutAmt: dec("3"), OutToken: models.XTZ,
	}
	out := Classify([]models.Row{sale, buyback}, []string{accountA})
	require.Len(t, out, 2)
	assert.Equal(t, models.TypeSale, out[0].Type)
}

func TestClassifySettleInheritsBidPayment(t *testing.T) {
	bid := models.Row{
		Type: models.TypeAuctionBid, Level: "10", Account: accountA,
		InAmt: dec("1"), InToken: auctionHouse, InTokenId: "12",
		OutAmt: dec("5"), OutToken: models.XTZ, OutTokenTo: auctionHouse,
	}
	settle := models.Row{
		Type: models.TypeAuctionSettle, Level: "20", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "42",
		OutAmt: dec("1"), OutToken: auctionHouse, OutTokenId: "12",
	}
	out := Classify([]models.Row{bid, settle}, []string{accountA})
	require.Len(t, out, 2)

	// the bid row keeps its type but loses its legs
	assert.Equal(t, models.TypeAuctionBid, out[0].Type)
	assert.False(t, out[0].HasIn())
	assert.False(t, out[0].HasOut())

	// the settlement becomes the purchase, paying what the bid paid
	assert.Equal(t, models.TypeBuy, out[1].Type)
	assert.Equal(t, models.XTZ, out[1].OutToken)
	assert.True(t, out[1].OutAmt.Equal(dec("5")))
	assert.Equal(t, nftContract, out[1].InToken)
}

func TestClassifyUnmatchedSettleKept(t *testing.T) {
	settle := models.Row{
		Type: models.TypeAuctionSettle, Level: "20", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "42",
		OutAmt: dec("1"), OutToken: auctionHouse, OutTokenId: "12",
	}
	out := Classify([]models.Row{settle}, []string{accountA})
	require.Len(t, out, 1)
	assert.Equal(t, models.TypeAuctionSettle, out[0].Type)
}

func TestClassifyOutbidRemoved(t *testing.T) {
	outbid := models.Row{
		Type: models.TypeAuctionOutbid, Level: "15", Account: accountA,
		InAmt: dec("5"), InToken: models.XTZ, InTokenFrom: auctionHouse,
	}
	keep := models.Row{Type: models.TypeReceive, Level: "16", InAmt: dec("1"), InToken: models.XTZ}

	out := Classify([]models.Row{outbid, keep}, []string{accountA})
	require.Len(t, out, 1)
	assert.Equal(t, models.TypeReceive, out[0].Type)
}

func TestClassifyOfferLegsCleared(t *testing.T) {
	offer := models.Row{
		Type: models.TypeOffer, Level: "10", Account: accountA,
		InAmt: dec("1"), InToken: auctionHouse, InTokenId: "987",
		OutAmt: dec("3"), OutToken: models.XTZ, OutTokenTo: auctionHouse,
	}
	out := Classify([]models.Row{offer}, []string{accountA})
	require.Len(t, out, 1)
	assert.Equal(t, models.TypeOffer, out[0].Type)
	assert.False(t, out[0].HasIn())
	assert.False(t, out[0].HasOut())
}

func TestClassifyPrepaidMintFanOut(t *testing.T) {
	payment := models.Row{
		Type: models.TypeSend, Level: "10", Op: "h1", Account: accountA,
		InAmt: dec("2"), InToken: "FUTURE-" + nftContract, InTokenFrom: queueContract,
		OutAmt: dec("10"), OutToken: models.XTZ, OutTokenTo: queueContract,
	}
	airdrop1 := models.Row{
		Type: models.TypeAirdrop, Level: "20", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "7", InTokenFrom: queueContract,
	}
	airdrop2 := models.Row{
		Type: models.TypeAirdrop, Level: "21", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "8", InTokenFrom: queueContract,
	}

	out := Classify([]models.Row{payment, airdrop1, airdrop2}, []string{accountA})
	require.Len(t, out, 3)

	// the payment is consumed by the mints and no longer stands alone
	assert.False(t, out[0].HasIn())
	assert.False(t, out[0].HasOut())

	for _, i := range []int{1, 2} {
		assert.Equal(t, models.TypeBuy, out[i].Type)
		assert.Equal(t, models.XTZ, out[i].OutToken)
		assert.True(t, out[i].OutAmt.Equal(dec("5")), "mint %d should cost 5 XTZ", i)
	}
}

func TestClassifyPrepaidMintPartialConsumption(t *testing.T) {
	payment := models.Row{
		Type: models.TypeSend, Level: "10", Account: accountA,
		InAmt: dec("2"), InToken: "FUTURE-" + nftContract, InTokenFrom: queueContract,
		OutAmt: dec("10"), OutToken: models.XTZ, OutTokenTo: queueContract,
	}
	airdrop := models.Row{
		Type: models.TypeAirdrop, Level: "20", Account: accountA,
		InAmt: dec("1"), InToken: nftContract, InTokenId: "7", InTokenFrom: queueContract,
	}

	out := Classify([]models.Row{payment, airdrop}, []string{accountA})
	require.Len(t, out, 2)

	// one mint still outstanding: the payment row keeps its legs
	assert.True(t, out[0].HasOut())
	assert.Equal(t, models.TypeBuy, out[1].Type)
	assert.True(t, out[1].OutAmt.Equal(dec("5")))
}

func TestCollateEndToEnd(t *testing.T) {
	accountRows := [][]models.Row{
		{
			{
				Type: models.TypeTrade, Level: "10", Op: "h1", Account: accountA,
				Timestamp: "2023-01-01T00:00:00Z",
				InAmt:     dec("1"), InToken: nftContract, InTokenId: "42",
				OutAmt: dec("3"), OutToken: models.XTZ, OutTokenTo: stranger,
			},
		},
	}
	exchangeRows := [][]models.Row{
		{
			{
				Type:      models.TypeTrade,
				Timestamp: "2023-01-02T00:00:00Z",
				InAmt:     dec("100"), InToken: models.XTZ,
				OutAmt: dec("50"), OutToken: "USD",
			},
		},
	}

	out, err := Collate(exchangeRows, accountRows)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, models.TypeBuy, out[0].Type)
	assert.Equal(t, models.TypeTradeCex, out[1].Type)
}
