package http

import (
	"math/big"

	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

// wei amounts are decimal strings, the *Eth fields are for display only

func weiString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

type bidView struct {
	BidderAddress domain.Address `json:"bidderAddress"`
	NftAddress    domain.Address `json:"nftAddress"`
	WeiPriceEach  string         `json:"weiPriceEach"`
	PriceEachEth  string         `json:"priceEachEth"`
	Quantity      uint64         `json:"quantity"`
	TokenId       domain.TokenId `json:"tokenId"`
	Escrow        string         `json:"escrow"`
}

func toBidView(b *factory.Bid) bidView {
	return bidView{
		BidderAddress: b.Bidder,
		NftAddress:    b.NftAddress,
		WeiPriceEach:  weiString(b.WeiPriceEach),
		PriceEachEth:  domain.WeiToEther(b.WeiPriceEach),
		Quantity:      b.Quantity,
		TokenId:       b.TokenId,
		Escrow:        weiString(b.Escrow),
	}
}

type creatorTokenView struct {
	Id             uint64         `json:"id"`
	CreatorAddress domain.Address `json:"creatorAddress"`
	Name           string         `json:"name"`
	Symbol         string         `json:"symbol"`
	Description    string         `json:"description"`
	Verified       bool           `json:"verified"`
	Outstanding    uint64         `json:"outstanding"`
	MaxSupply      uint64         `json:"maxSupply"`
	LastPrice      string         `json:"lastPrice"`
	LastPriceEth   string         `json:"lastPriceEth"`
	Reserve        string         `json:"reserve"`
	SellMargin     uint64         `json:"sellMargin"`
}

func toCreatorTokenView(t *factory.CreatorToken) creatorTokenView {
	return creatorTokenView{
		Id:             t.Id,
		CreatorAddress: t.CreatorAddress,
		Name:           t.Name,
		Symbol:         t.Symbol,
		Description:    t.Description,
		Verified:       t.Verified,
		Outstanding:    t.Outstanding,
		MaxSupply:      t.MaxSupply,
		LastPrice:      weiString(t.LastPrice),
		LastPriceEth:   domain.WeiToEther(t.LastPrice),
		Reserve:        weiString(t.Reserve),
		SellMargin:     t.SellMargin,
	}
}

type quoteView struct {
	TokenId          uint64 `json:"tokenId"`
	Amount           uint64 `json:"amount"`
	BuyProceeds      string `json:"buyProceeds"`
	FeeProceeds      string `json:"feeProceeds"`
	TotalProceeds    string `json:"totalProceeds"`
	TotalProceedsEth string `json:"totalProceedsEth"`
	// empty when amount exceeds outstanding
	SellProceeds string `json:"sellProceeds,omitempty"`
}

func toQuoteView(q *factory.Quote) quoteView {
	v := quoteView{
		TokenId:          q.TokenId,
		Amount:           q.Amount,
		BuyProceeds:      weiString(q.BuyProceeds),
		FeeProceeds:      weiString(q.FeeProceeds),
		TotalProceeds:    weiString(q.TotalProceeds),
		TotalProceedsEth: domain.WeiToEther(q.TotalProceeds),
	}
	if q.SellProceeds != nil {
		v.SellProceeds = q.SellProceeds.String()
	}
	return v
}

type holdingView struct {
	TokenId uint64         `json:"tokenId"`
	Owner   domain.Address `json:"owner"`
	Amount  uint64         `json:"amount"`
}

func toHoldingViews(hs []factory.Holding) []holdingView {
	res := make([]holdingView, 0, len(hs))
	for _, h := range hs {
		res = append(res, holdingView(h))
	}
	return res
}

type balanceView struct {
	Address    domain.Address `json:"address"`
	Balance    string         `json:"balance"`
	BalanceEth string         `json:"balanceEth"`
}

type paramsView struct {
	PlatformFee    uint64 `json:"platformFee"`
	MaxPlatformFee uint64 `json:"maxPlatformFee"`
	ProfitMargin   uint64 `json:"profitMargin"`
	BasePrice      string `json:"basePrice"`
	Slope          string `json:"slope"`
}

func toParamsView(p factory.Params) paramsView {
	return paramsView{
		PlatformFee:    p.PlatformFee,
		MaxPlatformFee: p.MaxPlatformFee,
		ProfitMargin:   p.ProfitMargin,
		BasePrice:      weiString(p.BasePrice),
		Slope:          weiString(p.Slope),
	}
}

type treasuryView struct {
	Owner               domain.Address `json:"owner"`
	FactoryAddress      domain.Address `json:"factoryAddress"`
	TotalPlatformFees   string         `json:"totalPlatformFees"`
	PlatformFeesOwed    string         `json:"platformFeesOwed"`
	EscrowTotal         string         `json:"escrowTotal"`
	ReserveTotal        string         `json:"reserveTotal"`
	TotalValueLocked    string         `json:"totalValueLocked"`
	TotalValueLockedEth string         `json:"totalValueLockedEth"`
	Surplus             string         `json:"surplus"`
	Params              paramsView     `json:"params"`
}

type collectionView struct {
	Address domain.Address `json:"address"`
	Name    string         `json:"name"`
	Symbol  string         `json:"symbol"`
	Admin   domain.Address `json:"admin"`
}

type nftOwnerView struct {
	Collection domain.Address `json:"collection"`
	TokenId    domain.TokenId `json:"tokenId"`
	Owner      domain.Address `json:"owner"`
}
