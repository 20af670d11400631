package classifiers

import (
	"github.com/shopspring/decimal"
	"github.com/username/tezgains/src/classification"
	"github.com/username/tezgains/src/models"
)

const (
	objktEnglishAuctionV1 = "KT1XjcRq5MLAzMKQ3UHsrue2SeU2NbxUrzmU"
	objktMarketplaceV1    = "KT1FvqJwEDWb1Gwc55Jd1jjTHRVWbYKUUpyq"

	// TODO: v2 contracts (KT18p94vjkkHYY3nPmernmgVR7HdZFzE7NAk,
	// KT1WvzYHCNBvDSdwafTHv7nJ1dWmZ8GCYuuC) once observed in a ledger
)

// classifyEnglishAuctionV1 records bids and settlements on objkt.com v1
// English auctions. The auction lot is represented as a pseudo flow of
// the auction id so the collator can pair the two phases later.
func classifyEnglishAuctionV1(res *models.Result, state *classification.State, op *models.Operation, address string) bool {
	entrypoint := op.Parameter.Entrypoint
	sender := op.SenderAddress()
	token := objktEnglishAuctionV1
	one := decimal.NewFromInt(1)

	if entrypoint == "bid" && sender == address {
		res.Type = models.TypeAuctionBid
		tokenId := models.RawString(op.Parameter.Value)
		set := classification.SingleTransfer(token, tokenId, one, address, sender, token, address)
		classification.AddAmounts(res, set, true)
		return true
	}
	if entrypoint == "conclude_auction" {
		res.Type = models.TypeAuctionSettle
		tokenId := models.RawString(op.Parameter.Value)
		set := classification.SingleTransfer(token, tokenId, one, address, sender, address, token)
		classification.AddAmounts(res, set, true)
		return true
	}
	return false
}

// classifyMarketplaceV1 records offers on the objkt.com v1 marketplace.
// It never claims to fully handle the call: the marketplace moves real
// tokens through the same operations and those still need the generic
// rules.
func classifyMarketplaceV1(res *models.Result, state *classification.State, op *models.Operation, address string) bool {
	entrypoint := op.Parameter.Entrypoint
	sender := op.SenderAddress()
	token := objktMarketplaceV1
	one := decimal.NewFromInt(1)

	if entrypoint == "bid" {
		res.Type = models.TypeOffer
		// the offer id only shows up in the storage diff
		var tokenId string
		if len(op.Diffs) > 0 && op.Diffs[0].Content != nil {
			tokenId = models.RawString(op.Diffs[0].Content.Key)
		}
		set := classification.SingleTransfer(token, tokenId, one, address, sender, token, address)
		classification.AddAmounts(res, set, true)
	} else if entrypoint == "retract_bid" || entrypoint == "fulfill_bid" {
		if entrypoint == "retract_bid" {
			res.Type = models.TypeOfferRetract
		} else {
			res.Type = models.TypeOfferFulfill
		}
		tokenId := models.RawString(op.Parameter.Value)
		set := classification.SingleTransfer(token, tokenId, one, address, sender, address, token)
		classification.AddAmounts(res, set, true)
	}
	return false
}

func registerObjkt(registry *classification.Registry) {
	registry.Register(objktEnglishAuctionV1, classifyEnglishAuctionV1)
	registry.Register(objktMarketplaceV1, classifyMarketplaceV1)
}
