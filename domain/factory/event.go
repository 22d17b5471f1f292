package factory

import (
	"github.com/kreana/goapi/domain"
)

type EventName string

const (
	EventNewBid                  EventName = "NewBid"
	EventCancelBid               EventName = "CancelBid"
	EventNewTrade                EventName = "NewTrade"
	EventNewCreatorToken         EventName = "NewCreatorToken"
	EventCreatorTokenTransaction EventName = "CreatorTokenTransaction"
	EventCreatorTokenUpdated     EventName = "CreatorTokenUpdated"
	EventVerificationChanged     EventName = "VerificationChanged"
	EventTransferSingle          EventName = "TransferSingle"
	EventTransferBatch           EventName = "TransferBatch"
	EventApprovalForAll          EventName = "ApprovalForAll"
	EventPlatformFeeChanged      EventName = "PlatformFeeChanged"
	EventProfitMarginChanged     EventName = "ProfitMarginChanged"
	EventPlatformFeesPaidOut     EventName = "PlatformFeesPaidOut"
	EventWithdrawal              EventName = "Withdrawal"
	EventOwnershipTransferred    EventName = "OwnershipTransferred"
	EventFunded                  EventName = "Funded"
	EventReceived                EventName = "Received"
	EventCollectionRegistered    EventName = "CollectionRegistered"
	EventNftTransfer             EventName = "Transfer"
	EventNftApproval             EventName = "Approval"
	EventNftApprovalForAll       EventName = "NftApprovalForAll"
)

const (
	TransactionTypeBuy  = "buy"
	TransactionTypeSell = "sell"
)

// Log is an event emitted by a committed transaction. Wei amounts are decimal strings.
type Log struct {
	Name  EventName   `json:"event" bson:"event"`
	Index int         `json:"logIndex" bson:"logIndex"`
	Args  interface{} `json:"args" bson:"args"`
}

type BidArgs struct {
	BidderAddress domain.Address `json:"bidderAddress" bson:"bidderAddress"`
	NftAddress    domain.Address `json:"nftAddress" bson:"nftAddress"`
	WeiPriceEach  string         `json:"weiPriceEach" bson:"weiPriceEach"`
	Quantity      uint64         `json:"quantity" bson:"quantity"`
	TokenId       domain.TokenId `json:"tokenId" bson:"tokenId"`
}

type TradeArgs struct {
	BidderAddress domain.Address `json:"bidderAddress" bson:"bidderAddress"`
	SellerAddress domain.Address `json:"sellerAddress" bson:"sellerAddress"`
	NftAddress    domain.Address `json:"nftAddress" bson:"nftAddress"`
	WeiPriceEach  string         `json:"weiPriceEach" bson:"weiPriceEach"`
	Quantity      uint64         `json:"quantity" bson:"quantity"`
	TokenId       domain.TokenId `json:"tokenId" bson:"tokenId"`
}

type CreatorTokenArgs struct {
	TokenId        uint64         `json:"tokenId" bson:"tokenId"`
	CreatorAddress domain.Address `json:"creatorAddress" bson:"creatorAddress"`
	Name           string         `json:"name" bson:"name"`
	Symbol         string         `json:"symbol" bson:"symbol"`
	Description    string         `json:"description" bson:"description"`
	Verified       bool           `json:"verified" bson:"verified"`
	Outstanding    uint64         `json:"outstanding" bson:"outstanding"`
	MaxSupply      uint64         `json:"maxSupply" bson:"maxSupply"`
}

type CreatorTokenTransactionArgs struct {
	Account         domain.Address `json:"account" bson:"account"`
	Amount          uint64         `json:"amount" bson:"amount"`
	TransactionType string         `json:"transactionType" bson:"transactionType"`
	TokenId         uint64         `json:"tokenId" bson:"tokenId"`
	Name            string         `json:"name" bson:"name"`
	Symbol          string         `json:"symbol" bson:"symbol"`
	// Value is paid by the buyer or to the seller
	Value string `json:"value" bson:"value"`
}

type TransferSingleArgs struct {
	Operator domain.Address `json:"operator" bson:"operator"`
	From     domain.Address `json:"from" bson:"from"`
	To       domain.Address `json:"to" bson:"to"`
	Id       uint64         `json:"id" bson:"id"`
	Value    uint64         `json:"value" bson:"value"`
}

type TransferBatchArgs struct {
	Operator domain.Address `json:"operator" bson:"operator"`
	From     domain.Address `json:"from" bson:"from"`
	To       domain.Address `json:"to" bson:"to"`
	Ids      []uint64       `json:"ids" bson:"ids"`
	Values   []uint64       `json:"values" bson:"values"`
}

type ApprovalForAllArgs struct {
	Collection domain.Address `json:"collection,omitempty" bson:"collection,omitempty"`
	Owner      domain.Address `json:"owner" bson:"owner"`
	Operator   domain.Address `json:"operator" bson:"operator"`
	Approved   bool           `json:"approved" bson:"approved"`
}

type ParamChangedArgs struct {
	Old uint64 `json:"old" bson:"old"`
	New uint64 `json:"new" bson:"new"`
}

type VerificationArgs struct {
	TokenId  uint64 `json:"tokenId" bson:"tokenId"`
	Verified bool   `json:"verified" bson:"verified"`
}

type ValueTransferArgs struct {
	From   domain.Address `json:"from,omitempty" bson:"from,omitempty"`
	To     domain.Address `json:"to" bson:"to"`
	Amount string         `json:"amount" bson:"amount"`
}

type OwnershipTransferredArgs struct {
	PreviousOwner domain.Address `json:"previousOwner" bson:"previousOwner"`
	NewOwner      domain.Address `json:"newOwner" bson:"newOwner"`
}

type CollectionArgs struct {
	Address domain.Address `json:"address" bson:"address"`
	Name    string         `json:"name" bson:"name"`
	Symbol  string         `json:"symbol" bson:"symbol"`
	Admin   domain.Address `json:"admin" bson:"admin"`
}

type NftTransferArgs struct {
	Collection domain.Address `json:"collection" bson:"collection"`
	From       domain.Address `json:"from" bson:"from"`
	To         domain.Address `json:"to" bson:"to"`
	TokenId    domain.TokenId `json:"tokenId" bson:"tokenId"`
}

type NftApprovalArgs struct {
	Collection domain.Address `json:"collection" bson:"collection"`
	Owner      domain.Address `json:"owner" bson:"owner"`
	Approved   domain.Address `json:"approved" bson:"approved"`
	TokenId    domain.TokenId `json:"tokenId" bson:"tokenId"`
}
