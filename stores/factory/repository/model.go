package repository

import (
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

// mongo has no 256 bit integer, wei amounts are stored as base 10 strings

const metaId = "ledger"

type paramsModel struct {
	PlatformFee    uint64 `bson:"platformFee"`
	MaxPlatformFee uint64 `bson:"maxPlatformFee"`
	ProfitMargin   uint64 `bson:"profitMargin"`
	BasePrice      string `bson:"basePrice"`
	Slope          string `bson:"slope"`
}

type metaModel struct {
	Id                string         `bson:"_id"`
	Owner             domain.Address `bson:"owner"`
	Params            paramsModel    `bson:"params"`
	BlockNumber       uint64         `bson:"blockNumber"`
	CreatorTokenCount uint64         `bson:"creatorTokenCount"`
	TotalPlatformFees string         `bson:"totalPlatformFees"`
	PlatformFeesOwed  string         `bson:"platformFeesOwed"`
	EscrowTotal       string         `bson:"escrowTotal"`
	ReserveTotal      string         `bson:"reserveTotal"`
}

type creatorTokenModel struct {
	Id             uint64         `bson:"id"`
	CreatorAddress domain.Address `bson:"creatorAddress"`
	Name           string         `bson:"name"`
	Symbol         string         `bson:"symbol"`
	Description    string         `bson:"description"`
	Verified       bool           `bson:"verified"`
	Outstanding    uint64         `bson:"outstanding"`
	MaxSupply      uint64         `bson:"maxSupply"`
	LastPrice      string         `bson:"lastPrice"`
	Reserve        string         `bson:"reserve"`
	SellMargin     uint64         `bson:"sellMargin"`
}

type holdingModel struct {
	TokenId uint64         `bson:"tokenId"`
	Owner   domain.Address `bson:"owner"`
	Amount  uint64         `bson:"amount"`
}

type operatorModel struct {
	Collection domain.Address `bson:"collection,omitempty"`
	Owner      domain.Address `bson:"owner"`
	Operator   domain.Address `bson:"operator"`
}

type bidModel struct {
	Bidder       domain.Address `bson:"bidder"`
	NftAddress   domain.Address `bson:"nftAddress"`
	WeiPriceEach string         `bson:"weiPriceEach"`
	Quantity     uint64         `bson:"quantity"`
	TokenId      domain.TokenId `bson:"tokenId"`
	Escrow       string         `bson:"escrow"`
}

type balanceModel struct {
	Address domain.Address `bson:"address"`
	Amount  string         `bson:"amount"`
}

type collectionModel struct {
	Address domain.Address `bson:"address"`
	Name    string         `bson:"name"`
	Symbol  string         `bson:"symbol"`
	Admin   domain.Address `bson:"admin"`
}

type nftModel struct {
	Collection domain.Address `bson:"collection"`
	TokenId    domain.TokenId `bson:"tokenId"`
	Owner      domain.Address `bson:"owner"`
	Approved   domain.Address `bson:"approved"`
}

type logModel struct {
	Name  factory.EventName `bson:"event"`
	Index int               `bson:"logIndex"`
	Args  bson.M            `bson:"args"`
}

type receiptModel struct {
	TxHash      domain.TxHash      `bson:"txHash"`
	BlockNumber domain.BlockNumber `bson:"blockNumber"`
	From        domain.Address     `bson:"from"`
	Method      string             `bson:"method"`
	Value       string             `bson:"value"`
	Status      int                `bson:"status"`
	Logs        []logModel         `bson:"logs"`
	Timestamp   time.Time          `bson:"timestamp"`
}

func weiString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseWei(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	return domain.ParseWei(s)
}

func toParamsModel(p factory.Params) paramsModel {
	return paramsModel{
		PlatformFee:    p.PlatformFee,
		MaxPlatformFee: p.MaxPlatformFee,
		ProfitMargin:   p.ProfitMargin,
		BasePrice:      weiString(p.BasePrice),
		Slope:          weiString(p.Slope),
	}
}

func (m paramsModel) toDomain() (factory.Params, error) {
	base, err := parseWei(m.BasePrice)
	if err != nil {
		return factory.Params{}, err
	}
	slope, err := parseWei(m.Slope)
	if err != nil {
		return factory.Params{}, err
	}
	return factory.Params{
		PlatformFee:    m.PlatformFee,
		MaxPlatformFee: m.MaxPlatformFee,
		ProfitMargin:   m.ProfitMargin,
		BasePrice:      base,
		Slope:          slope,
	}, nil
}

func toMetaModel(m *factory.Meta) metaModel {
	return metaModel{
		Id:                metaId,
		Owner:             m.Owner,
		Params:            toParamsModel(m.Params),
		BlockNumber:       m.BlockNumber,
		CreatorTokenCount: m.CreatorTokenCount,
		TotalPlatformFees: weiString(m.TotalPlatformFees),
		PlatformFeesOwed:  weiString(m.PlatformFeesOwed),
		EscrowTotal:       weiString(m.EscrowTotal),
		ReserveTotal:      weiString(m.ReserveTotal),
	}
}

func (m metaModel) toDomain() (factory.Meta, error) {
	params, err := m.Params.toDomain()
	if err != nil {
		return factory.Meta{}, err
	}
	res := factory.Meta{
		Owner:             m.Owner,
		Params:            params,
		BlockNumber:       m.BlockNumber,
		CreatorTokenCount: m.CreatorTokenCount,
	}
	for _, f := range []struct {
		dst **big.Int
		src string
	}{
		{&res.TotalPlatformFees, m.TotalPlatformFees},
		{&res.PlatformFeesOwed, m.PlatformFeesOwed},
		{&res.EscrowTotal, m.EscrowTotal},
		{&res.ReserveTotal, m.ReserveTotal},
	} {
		if *f.dst, err = parseWei(f.src); err != nil {
			return factory.Meta{}, err
		}
	}
	return res, nil
}

func toCreatorTokenModel(t factory.CreatorToken) creatorTokenModel {
	return creatorTokenModel{
		Id:             t.Id,
		CreatorAddress: t.CreatorAddress,
		Name:           t.Name,
		Symbol:         t.Symbol,
		Description:    t.Description,
		Verified:       t.Verified,
		Outstanding:    t.Outstanding,
		MaxSupply:      t.MaxSupply,
		LastPrice:      weiString(t.LastPrice),
		Reserve:        weiString(t.Reserve),
		SellMargin:     t.SellMargin,
	}
}

func (m creatorTokenModel) toDomain() (factory.CreatorToken, error) {
	lastPrice, err := parseWei(m.LastPrice)
	if err != nil {
		return factory.CreatorToken{}, err
	}
	reserve, err := parseWei(m.Reserve)
	if err != nil {
		return factory.CreatorToken{}, err
	}
	return factory.CreatorToken{
		Id:             m.Id,
		CreatorAddress: m.CreatorAddress,
		Name:           m.Name,
		Symbol:         m.Symbol,
		Description:    m.Description,
		Verified:       m.Verified,
		Outstanding:    m.Outstanding,
		MaxSupply:      m.MaxSupply,
		LastPrice:      lastPrice,
		Reserve:        reserve,
		SellMargin:     m.SellMargin,
	}, nil
}

func toBidModel(b *factory.Bid) bidModel {
	return bidModel{
		Bidder:       b.Bidder,
		NftAddress:   b.NftAddress,
		WeiPriceEach: weiString(b.WeiPriceEach),
		Quantity:     b.Quantity,
		TokenId:      b.TokenId,
		Escrow:       weiString(b.Escrow),
	}
}

func (m bidModel) toDomain() (factory.Bid, error) {
	price, err := parseWei(m.WeiPriceEach)
	if err != nil {
		return factory.Bid{}, err
	}
	escrow, err := parseWei(m.Escrow)
	if err != nil {
		return factory.Bid{}, err
	}
	return factory.Bid{
		Bidder:       m.Bidder,
		NftAddress:   m.NftAddress,
		WeiPriceEach: price,
		Quantity:     m.Quantity,
		TokenId:      m.TokenId,
		Escrow:       escrow,
	}, nil
}

func (m receiptModel) toDomain() *factory.Receipt {
	logs := make([]factory.Log, 0, len(m.Logs))
	for _, l := range m.Logs {
		logs = append(logs, factory.Log{Name: l.Name, Index: l.Index, Args: l.Args})
	}
	return &factory.Receipt{
		TxHash:      m.TxHash,
		BlockNumber: m.BlockNumber,
		From:        m.From,
		Method:      m.Method,
		Value:       m.Value,
		Status:      m.Status,
		Logs:        logs,
		Timestamp:   m.Timestamp,
	}
}
