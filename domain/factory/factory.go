package factory

import (
	"math/big"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
)

// UseCase is the ledger. Every mutation runs as one transaction in a global
// order, it either commits with a receipt or reverts with an error.
type UseCase interface {
	// bids
	SubmitBid(c ctx.Ctx, msg Msg, nftAddress domain.Address, quantity uint64) (*Receipt, error)
	CancelBid(c ctx.Ctx, msg Msg, nftAddress domain.Address) (*Receipt, error)
	HitBid(c ctx.Ctx, msg Msg, bidder, nftAddress domain.Address, tokenId domain.TokenId, priceEach *big.Int) (*Receipt, error)
	HitMultipleBids(c ctx.Ctx, msg Msg, bidders []domain.Address, nftAddress domain.Address, tokenIds []domain.TokenId, priceEach *big.Int) (*Receipt, error)
	GetBid(c ctx.Ctx, bidder, nftAddress domain.Address) (*Bid, error)
	ListBids(c ctx.Ctx, nftAddress domain.Address) ([]Bid, error)

	// creator tokens
	CreateCreatorToken(c ctx.Ctx, msg Msg, params CreateCreatorTokenParams) (*Receipt, error)
	BuyCreatorToken(c ctx.Ctx, msg Msg, id uint64, amount uint64) (*Receipt, error)
	SellCreatorToken(c ctx.Ctx, msg Msg, id uint64, amount uint64, account domain.Address) (*Receipt, error)
	SafeTransferFrom(c ctx.Ctx, msg Msg, from, to domain.Address, id uint64, amount uint64, data []byte) (*Receipt, error)
	SafeBatchTransferFrom(c ctx.Ctx, msg Msg, from, to domain.Address, ids []uint64, amounts []uint64, data []byte) (*Receipt, error)
	SetApprovalForAll(c ctx.Ctx, msg Msg, operator domain.Address, approved bool) (*Receipt, error)
	IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) bool

	// creator only
	UpdateCreatorToken(c ctx.Ctx, msg Msg, id uint64, patch CreatorTokenPatch) (*Receipt, error)
	ChangeAddress(c ctx.Ctx, msg Msg, id uint64, creator domain.Address) (*Receipt, error)
	ChangeName(c ctx.Ctx, msg Msg, id uint64, name string) (*Receipt, error)
	ChangeSymbol(c ctx.Ctx, msg Msg, id uint64, symbol string) (*Receipt, error)
	ChangeDescription(c ctx.Ctx, msg Msg, id uint64, description string) (*Receipt, error)

	// owner only
	ChangePlatformFee(c ctx.Ctx, msg Msg, fee uint64) (*Receipt, error)
	ChangeProfitMargin(c ctx.Ctx, msg Msg, margin uint64) (*Receipt, error)
	ChangeVerification(c ctx.Ctx, msg Msg, id uint64, verified bool) (*Receipt, error)
	PayoutPlatformFees(c ctx.Ctx, msg Msg, to domain.Address) (*Receipt, error)
	Withdraw(c ctx.Ctx, msg Msg, to domain.Address) (*Receipt, error)
	TransferOwnership(c ctx.Ctx, msg Msg, newOwner domain.Address) (*Receipt, error)
	Fund(c ctx.Ctx, msg Msg, account domain.Address, amount *big.Int) (*Receipt, error)
	// Receive accepts msg.Value into the factory without a claim on it
	Receive(c ctx.Ctx, msg Msg) (*Receipt, error)

	// pricing
	BuyProceeds(c ctx.Ctx, id uint64, amount uint64) (*big.Int, error)
	FeeProceeds(c ctx.Ctx, netProceeds *big.Int) *big.Int
	TotalProceeds(c ctx.Ctx, id uint64, amount uint64) (*big.Int, error)
	SellProceeds(c ctx.Ctx, id uint64, amount uint64) (*big.Int, error)
	Quote(c ctx.Ctx, id uint64, amount uint64) (*Quote, error)

	// creator token views
	CreatorTokens(c ctx.Ctx, id uint64) (*CreatorToken, error)
	ListCreatorTokens(c ctx.Ctx) []CreatorToken
	GetCreatorTokenCount(c ctx.Ctx) uint64
	UserToHoldings(c ctx.Ctx, user domain.Address, id uint64) uint64
	TokenHoldership(c ctx.Ctx, id uint64, user domain.Address) uint64
	BalanceOf(c ctx.Ctx, account domain.Address, id uint64) uint64
	BalanceOfBatch(c ctx.Ctx, accounts []domain.Address, ids []uint64) ([]uint64, error)
	ListHolders(c ctx.Ctx, id uint64) ([]Holding, error)
	ListHoldings(c ctx.Ctx, user domain.Address) []Holding

	// treasury views
	TotalPlatformFees(c ctx.Ctx) *big.Int
	PlatformFeesOwed(c ctx.Ctx) *big.Int
	TotalValueLocked(c ctx.Ctx) *big.Int
	Treasury(c ctx.Ctx) Treasury
	Params(c ctx.Ctx) Params
	Owner(c ctx.Ctx) domain.Address
	FactoryAddress() domain.Address
	BalanceOfNative(c ctx.Ctx, account domain.Address) *big.Int

	// collections
	RegisterCollection(c ctx.Ctx, msg Msg, address domain.Address, name, symbol string) (*Receipt, error)
	MintNft(c ctx.Ctx, msg Msg, collection, to domain.Address, tokenId domain.TokenId) (*Receipt, error)
	ApproveNft(c ctx.Ctx, msg Msg, collection, approved domain.Address, tokenId domain.TokenId) (*Receipt, error)
	SetNftApprovalForAll(c ctx.Ctx, msg Msg, collection, operator domain.Address, approved bool) (*Receipt, error)
	GetCollection(c ctx.Ctx, address domain.Address) (*Collection, error)
	OwnerOf(c ctx.Ctx, collection domain.Address, tokenId domain.TokenId) (domain.Address, error)

	GetReceipt(c ctx.Ctx, txHash domain.TxHash) (*Receipt, error)
}

// Repo persists the committed ledger state
type Repo interface {
	// Load returns domain.ErrNotFound when nothing was committed yet
	Load(c ctx.Ctx) (*Snapshot, error)
	// Commit writes a change set atomically
	Commit(c ctx.Ctx, cs *ChangeSet) error
	FindReceipt(c ctx.Ctx, txHash domain.TxHash) (*Receipt, error)
}

// Publisher fans committed receipts out, failures never reach the caller
type Publisher interface {
	Publish(c ctx.Ctx, receipt *Receipt)
}
