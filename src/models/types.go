package models

// TxType is the economic classification of a row or result.
type TxType string

const (
	TypeUnknown TxType = "unknown"
	// XTZ in, nothing out
	TypeReceive TxType = "receive"
	// XTZ out, nothing in
	TypeSend TxType = "send"
	// XTZ out, token in
	TypeBuy TxType = "buy"
	// token out, token in
	TypeTrade TxType = "trade"
	// token in, token out; no level
	TypeTradeCex TxType = "trade:cex"
	// token in, nothing out, not initiated by your account
	TypeAirdrop TxType = "airdrop"
	// token in that one of your addresses created
	TypeMint TxType = "mint"
	// nothing out, token in
	TypeReceiveToken TxType = "receive:token"
	// nothing in, token out to a contract
	TypeSendTokenKT TxType = "send:token:kt"
	// nothing in, token out to an account
	TypeSendTokenTz TxType = "send:token:tz"
	// nothing in, token out to the canonical burn address
	TypeBurn TxType = "send:token:burn"
	// XTZ in, token out
	TypeSale TxType = "sale"
	// XTZ in, token out, for a token you bought
	TypeSaleResale TxType = "sale:resale"
	// XTZ moving between your own accounts or venues
	TypeTransfer TxType = "transfer"
	// tokens moving between your own accounts
	TypeTransferToken TxType = "transfer:token"

	TypeDelegation TxType = "delegation"

	TypeOffer        TxType = "offer"
	TypeOfferRetract TxType = "offer:retract"
	TypeOfferFulfill TxType = "offer:fulfill"

	// XTZ out, pseudo bid token id in
	TypeAuctionBid TxType = "auction:bid"
	// XTZ in due to lost bid
	TypeAuctionOutbid TxType = "auction:outbid"
	// token in, pseudo bid token id out
	TypeAuctionSettle TxType = "auction:settle"

	TypeContractCall TxType = "contract-call"
	TypeOrigination  TxType = "origination"

	// token in, fiat out
	TypeTradeFiatOut TxType = "trade:fiat-out"
	// fiat in, token out
	TypeTradeFiatIn TxType = "trade:fiat-in"
	// XTZ in, a reward
	TypeInterest TxType = "interest"

	// flags an item for removal during classification/collation
	TypeRemove TxType = "remove"
)
