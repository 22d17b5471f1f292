package usecase

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
	"github.com/kreana/goapi/domain/factory/mocks"
)

const (
	owner      = domain.Address("0x1000000000000000000000000000000000000001")
	alice      = domain.Address("0xa000000000000000000000000000000000000001")
	bob        = domain.Address("0xb000000000000000000000000000000000000002")
	carol      = domain.Address("0xc000000000000000000000000000000000000003")
	factoryAcc = domain.Address("0xfac0000000000000000000000000000000000000")
	bayc       = domain.Address("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")
)

var ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}

func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), ether)
}

type factoryTestSuite struct {
	suite.Suite
	c         ctx.Ctx
	repo      *mocks.Repo
	publisher *mocks.Publisher
	im        *impl
}

func TestFactory(t *testing.T) {
	suite.Run(t, new(factoryTestSuite))
}

func (s *factoryTestSuite) SetupTest() {
	s.c = ctx.Background()
	s.repo = &mocks.Repo{}
	s.publisher = &mocks.Publisher{}
	s.repo.On("Load", mock.Anything).Return(nil, domain.ErrNotFound).Once()
	s.publisher.On("Publish", mock.Anything, mock.Anything).Return()
	s.im = s.newLedger()
}

func (s *factoryTestSuite) newLedger() *impl {
	s.repo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	uc, err := New(s.c, Config{
		FactoryAddress: factoryAcc,
		Genesis: factory.Genesis{
			Owner: owner,
			Allocations: map[domain.Address]*big.Int{
				alice: eth(100),
				bob:   eth(100),
				carol: eth(100),
			},
		},
	}, s.repo, s.publisher)
	s.Require().NoError(err)
	return uc.(*impl)
}

// assertBooks checks the factory balance covers every claim on it and both holdings mirrors agree
func (s *factoryTestSuite) assertBooks() {
	st := s.im.state
	claims := new(big.Int).Add(st.meta.EscrowTotal, st.meta.PlatformFeesOwed)
	claims.Add(claims, st.meta.ReserveTotal)
	s.Require().True(st.balance(factoryAcc).Cmp(claims) >= 0, "factory balance below claims")

	tr := s.im.Treasury(s.c)
	total := new(big.Int).Add(claims, tr.Surplus)
	s.Require().Equal(0, tr.TotalValueLocked.Cmp(total))

	escrow := new(big.Int)
	for _, b := range st.bids {
		escrow.Add(escrow, b.Escrow)
	}
	s.Require().Equal(0, escrow.Cmp(st.meta.EscrowTotal))

	reserve := new(big.Int)
	for _, tok := range st.tokens {
		var sum uint64
		for _, amount := range st.tokenHoldership[tok.Id] {
			sum += amount
		}
		s.Require().Equal(tok.Outstanding, sum, "holdings of %d", tok.Id)
		liability := sellParams(st.meta.Params, tok).SellLiability(tok.Outstanding)
		s.Require().Equal(0, liability.Cmp(tok.Reserve), "reserve of %d", tok.Id)
		reserve.Add(reserve, tok.Reserve)
	}
	s.Require().Equal(0, reserve.Cmp(st.meta.ReserveTotal))

	for user, ids := range st.userToHoldings {
		for id, amount := range ids {
			s.Require().Equal(amount, st.tokenHoldership[id][user])
		}
	}
}

func (s *factoryTestSuite) createToken(creator domain.Address) uint64 {
	_, err := s.im.CreateCreatorToken(s.c, factory.NewMsg(creator), factory.CreateCreatorTokenParams{
		Name:   "Kreana",
		Symbol: "KRE",
	})
	s.Require().NoError(err)
	return s.im.GetCreatorTokenCount(s.c) - 1
}

func (s *factoryTestSuite) buy(buyer domain.Address, id, amount uint64) *factory.Receipt {
	total, err := s.im.TotalProceeds(s.c, id, amount)
	s.Require().NoError(err)
	r, err := s.im.BuyCreatorToken(s.c, factory.NewMsg(buyer).WithValue(total), id, amount)
	s.Require().NoError(err)
	return r
}

func (s *factoryTestSuite) TestGenesis() {
	s.Equal(owner, s.im.Owner(s.c))
	s.Equal(factory.DefaultParams(), s.im.Params(s.c))
	s.Equal(eth(100), s.im.BalanceOfNative(s.c, alice))
	s.Equal(uint64(1), s.im.state.meta.BlockNumber)
	s.Equal(0, s.im.TotalValueLocked(s.c).Sign())
	s.repo.AssertNumberOfCalls(s.T(), "Commit", 1)
}

func (s *factoryTestSuite) TestLoadSnapshot() {
	repo := &mocks.Repo{}
	repo.On("Load", mock.Anything).Return(&factory.Snapshot{
		Meta: factory.Meta{
			Owner:             owner,
			Params:            factory.DefaultParams(),
			BlockNumber:       9,
			CreatorTokenCount: 1,
			ReserveTotal:      big.NewInt(10),
		},
		CreatorTokens: []factory.CreatorToken{{Id: 0, CreatorAddress: carol, Name: "a", Symbol: "A", Outstanding: 3, MaxSupply: 3, Reserve: big.NewInt(10), SellMargin: 2000}},
		Holdings:      []factory.Holding{{TokenId: 0, Owner: alice, Amount: 3}},
		Balances:      []factory.Balance{{Address: factoryAcc, Amount: big.NewInt(10)}},
	}, nil)

	uc, err := New(s.c, Config{FactoryAddress: factoryAcc}, repo, s.publisher)
	s.Require().NoError(err)
	s.Equal(uint64(3), uc.BalanceOf(s.c, alice, 0))
	s.Equal(uint64(3), uc.UserToHoldings(s.c, alice, 0))
	s.Equal(uint64(1), uc.GetCreatorTokenCount(s.c))
	tok, err := uc.CreatorTokens(s.c, 0)
	s.Require().NoError(err)
	s.Equal(0, tok.LastPrice.Sign())
	s.Equal(uint64(2000), tok.SellMargin)
	repo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *factoryTestSuite) TestNewInvalidFactory() {
	_, err := New(s.c, Config{FactoryAddress: "0x1234"}, s.repo, s.publisher)
	s.ErrorIs(err, domain.ErrInvalidAddress)
}

func (s *factoryTestSuite) TestCurveViews() {
	id := s.createToken(carol)

	net, err := s.im.BuyProceeds(s.c, id, 5000)
	s.Require().NoError(err)
	s.Equal(wei("17497500000000000"), net)
	s.Equal(wei("174975000000000"), s.im.FeeProceeds(s.c, net))
	total, err := s.im.TotalProceeds(s.c, id, 5000)
	s.Require().NoError(err)
	s.Equal(wei("17672475000000000"), total)

	_, err = s.im.SellProceeds(s.c, id, 1)
	s.ErrorIs(err, domain.ErrInvalidAmount)
	_, err = s.im.BuyProceeds(s.c, 7, 1)
	s.ErrorIs(err, domain.ErrNotFound)

	q, err := s.im.Quote(s.c, id, 0)
	s.Require().NoError(err)
	s.Equal(0, q.TotalProceeds.Sign())
	s.NotNil(q.SellProceeds)
}

func (s *factoryTestSuite) TestBuySellRoundTrip() {
	id := s.createToken(carol)
	carolBefore := s.im.BalanceOfNative(s.c, carol)

	r := s.buy(alice, id, 5000)
	s.Require().Len(r.Logs, 2)
	s.Equal(factory.EventTransferSingle, r.Logs[0].Name)
	s.Equal(factory.EventCreatorTokenTransaction, r.Logs[1].Name)
	s.Equal(factory.TransactionTypeBuy, r.Logs[1].Args.(factory.CreatorTokenTransactionArgs).TransactionType)

	tok, err := s.im.CreatorTokens(s.c, id)
	s.Require().NoError(err)
	s.Equal(uint64(5000), tok.Outstanding)
	s.Equal(uint64(5000), tok.MaxSupply)
	s.Equal(wei("13998000000000000"), tok.Reserve)
	s.Equal(wei("3499500000000000"), new(big.Int).Sub(s.im.BalanceOfNative(s.c, carol), carolBefore))
	s.Equal(wei("174975000000000"), s.im.PlatformFeesOwed(s.c))
	s.Equal(uint64(5000), s.im.BalanceOf(s.c, alice, id))
	s.assertBooks()

	refund, err := s.im.SellProceeds(s.c, id, 5000)
	s.Require().NoError(err)
	s.Equal(wei("13998000000000000"), refund)

	aliceBefore := s.im.BalanceOfNative(s.c, alice)
	_, err = s.im.SellCreatorToken(s.c, factory.NewMsg(alice), id, 5000, "")
	s.Require().NoError(err)

	tok, err = s.im.CreatorTokens(s.c, id)
	s.Require().NoError(err)
	s.Equal(uint64(0), tok.Outstanding)
	s.Equal(uint64(5000), tok.MaxSupply)
	s.Equal(0, tok.Reserve.Sign())
	s.Equal(uint64(0), s.im.BalanceOf(s.c, alice, id))
	s.Equal(refund, new(big.Int).Sub(s.im.BalanceOfNative(s.c, alice), aliceBefore))
	holders, err := s.im.ListHolders(s.c, id)
	s.Require().NoError(err)
	s.Empty(holders)
	s.assertBooks()
}

func (s *factoryTestSuite) TestBuyIncorrectValue() {
	id := s.createToken(carol)
	_, err := s.im.BuyCreatorToken(s.c, factory.NewMsg(alice).WithValue(big.NewInt(1)), id, 10)
	s.ErrorIs(err, domain.ErrIncorrectValue)

	_, err = s.im.BuyCreatorToken(s.c, factory.NewMsg(alice).WithValue(eth(1000)), id, 10)
	s.ErrorIs(err, domain.ErrInsufficientBalance)

	_, err = s.im.BuyCreatorToken(s.c, factory.NewMsg(alice), id, 0)
	s.ErrorIs(err, domain.ErrInvalidAmount)

	s.Equal(eth(100), s.im.BalanceOfNative(s.c, alice))
	s.assertBooks()
}

func (s *factoryTestSuite) TestCreatorShareOnlyAboveMaxSupply() {
	id := s.createToken(carol)
	carolStart := s.im.BalanceOfNative(s.c, carol)

	s.buy(alice, id, 10)
	afterFirst := s.im.BalanceOfNative(s.c, carol)
	s.Equal(wei("2009000000000"), new(big.Int).Sub(afterFirst, carolStart))

	_, err := s.im.SellCreatorToken(s.c, factory.NewMsg(alice), id, 10, alice)
	s.Require().NoError(err)
	s.buy(bob, id, 10)
	s.Equal(afterFirst, s.im.BalanceOfNative(s.c, carol))

	// units past the band pay the margin again
	s.buy(bob, id, 5)
	s.Equal(wei("1012000000000"), new(big.Int).Sub(s.im.BalanceOfNative(s.c, carol), afterFirst))
	s.assertBooks()
}

func (s *factoryTestSuite) TestRebuyInsideBandLeavesNoStrandedReserve() {
	id := s.createToken(carol)
	for i := 0; i < 2; i++ {
		s.buy(alice, id, 10)
		_, err := s.im.SellCreatorToken(s.c, factory.NewMsg(alice), id, 10, alice)
		s.Require().NoError(err)
		s.assertBooks()
	}

	tok, err := s.im.CreatorTokens(s.c, id)
	s.Require().NoError(err)
	s.Equal(uint64(0), tok.Outstanding)
	s.Equal(0, tok.Reserve.Sign())
	tr := s.im.Treasury(s.c)
	s.Equal(0, tr.ReserveTotal.Sign())
	s.Equal(wei("2009000000000"), tr.Surplus)

	to := domain.Address("0xd000000000000000000000000000000000000004")
	_, err = s.im.Withdraw(s.c, factory.NewMsg(owner), to)
	s.Require().NoError(err)
	s.Equal(wei("2009000000000"), s.im.BalanceOfNative(s.c, to))
	s.Equal(0, s.im.Treasury(s.c).Surplus.Sign())
	s.assertBooks()
}

func (s *factoryTestSuite) TestSellAfterMarginChange() {
	id := s.createToken(carol)
	s.buy(alice, id, 10)

	_, err := s.im.ChangeProfitMargin(s.c, factory.NewMsg(owner), 0)
	s.Require().NoError(err)
	refund, err := s.im.SellProceeds(s.c, id, 10)
	s.Require().NoError(err)
	s.Equal(wei("8036000000000"), refund)

	aliceBefore := s.im.BalanceOfNative(s.c, alice)
	_, err = s.im.SellCreatorToken(s.c, factory.NewMsg(alice), id, 10, alice)
	s.Require().NoError(err)
	s.Equal(refund, new(big.Int).Sub(s.im.BalanceOfNative(s.c, alice), aliceBefore))
	tok, err := s.im.CreatorTokens(s.c, id)
	s.Require().NoError(err)
	s.Equal(0, tok.Reserve.Sign())
	s.assertBooks()

	// an empty token picks up the new margin on its next buy
	s.buy(bob, id, 10)
	tok, err = s.im.CreatorTokens(s.c, id)
	s.Require().NoError(err)
	s.Equal(uint64(0), tok.SellMargin)
	s.Equal(wei("10045000000000"), tok.Reserve)
	s.assertBooks()

	bobBefore := s.im.BalanceOfNative(s.c, bob)
	_, err = s.im.SellCreatorToken(s.c, factory.NewMsg(bob), id, 10, bob)
	s.Require().NoError(err)
	s.Equal(wei("10045000000000"), new(big.Int).Sub(s.im.BalanceOfNative(s.c, bob), bobBefore))
	s.assertBooks()
}

func (s *factoryTestSuite) TestSellByOperator() {
	id := s.createToken(carol)
	s.buy(alice, id, 10)

	_, err := s.im.SellCreatorToken(s.c, factory.NewMsg(bob), id, 5, alice)
	s.ErrorIs(err, domain.ErrUnauthorized)

	_, err = s.im.SetApprovalForAll(s.c, factory.NewMsg(alice), bob, true)
	s.Require().NoError(err)
	s.True(s.im.IsApprovedForAll(s.c, alice, bob))

	aliceBefore := s.im.BalanceOfNative(s.c, alice)
	_, err = s.im.SellCreatorToken(s.c, factory.NewMsg(bob), id, 5, alice)
	s.Require().NoError(err)
	s.Equal(uint64(5), s.im.BalanceOf(s.c, alice, id))
	s.Equal(1, s.im.BalanceOfNative(s.c, alice).Cmp(aliceBefore))

	_, err = s.im.SellCreatorToken(s.c, factory.NewMsg(alice), id, 6, "")
	s.ErrorIs(err, domain.ErrInsufficientHoldings)

	_, err = s.im.SetApprovalForAll(s.c, factory.NewMsg(alice), alice, true)
	s.ErrorIs(err, domain.ErrSelfApproval)
	s.assertBooks()
}

func (s *factoryTestSuite) TestSafeTransfers() {
	a := s.createToken(carol)
	b := s.createToken(carol)
	s.buy(alice, a, 4)
	s.buy(alice, b, 2)

	_, err := s.im.SafeTransferFrom(s.c, factory.NewMsg(bob), alice, bob, a, 1, nil)
	s.ErrorIs(err, domain.ErrUnauthorized)

	_, err = s.im.SafeTransferFrom(s.c, factory.NewMsg(alice), alice, domain.EmptyAddress, a, 1, nil)
	s.ErrorIs(err, domain.ErrInvalidAddress)

	r, err := s.im.SafeTransferFrom(s.c, factory.NewMsg(alice), alice, bob, a, 3, []byte("hi"))
	s.Require().NoError(err)
	s.Equal(factory.EventTransferSingle, r.Logs[0].Name)
	s.Equal(uint64(1), s.im.BalanceOf(s.c, alice, a))
	s.Equal(uint64(3), s.im.UserToHoldings(s.c, bob, a))

	_, err = s.im.SafeBatchTransferFrom(s.c, factory.NewMsg(alice), alice, bob, []uint64{a, b}, []uint64{1}, nil)
	s.ErrorIs(err, domain.ErrArrayLengthMismatch)

	// the second move fails so the first one is rolled back
	_, err = s.im.SafeBatchTransferFrom(s.c, factory.NewMsg(alice), alice, bob, []uint64{a, b}, []uint64{1, 3}, nil)
	s.ErrorIs(err, domain.ErrInsufficientHoldings)
	s.Equal(uint64(1), s.im.BalanceOf(s.c, alice, a))

	_, err = s.im.SafeBatchTransferFrom(s.c, factory.NewMsg(alice), alice, bob, []uint64{a, b}, []uint64{1, 2}, nil)
	s.Require().NoError(err)
	res, err := s.im.BalanceOfBatch(s.c, []domain.Address{alice, bob, bob}, []uint64{a, a, b})
	s.Require().NoError(err)
	s.Equal([]uint64{0, 4, 2}, res)
	s.Equal([]factory.Holding{{TokenId: a, Owner: bob, Amount: 4}, {TokenId: b, Owner: bob, Amount: 2}}, s.im.ListHoldings(s.c, bob))
	s.assertBooks()
}

func (s *factoryTestSuite) TestUpdateCreatorToken() {
	id := s.createToken(carol)

	_, err := s.im.ChangeName(s.c, factory.NewMsg(alice), id, "x")
	s.ErrorIs(err, domain.ErrUnauthorized)
	_, err = s.im.ChangeSymbol(s.c, factory.NewMsg(carol), id, "")
	s.ErrorIs(err, domain.ErrBadParamInput)

	_, err = s.im.ChangeName(s.c, factory.NewMsg(carol), id, "Renamed")
	s.Require().NoError(err)
	_, err = s.im.ChangeDescription(s.c, factory.NewMsg(carol), id, "about")
	s.Require().NoError(err)
	_, err = s.im.ChangeAddress(s.c, factory.NewMsg(carol), id, bob)
	s.Require().NoError(err)

	tok, err := s.im.CreatorTokens(s.c, id)
	s.Require().NoError(err)
	s.Equal("Renamed", tok.Name)
	s.Equal("about", tok.Description)
	s.Equal(bob, tok.CreatorAddress)

	_, err = s.im.ChangeName(s.c, factory.NewMsg(carol), id, "again")
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *factoryTestSuite) TestCreateCreatorToken() {
	_, err := s.im.CreateCreatorToken(s.c, factory.NewMsg(alice), factory.CreateCreatorTokenParams{Name: "n"})
	s.ErrorIs(err, domain.ErrBadParamInput)

	r, err := s.im.CreateCreatorToken(s.c, factory.NewMsg(alice), factory.CreateCreatorTokenParams{Creator: carol, Name: "n", Symbol: "N"})
	s.Require().NoError(err)
	s.Equal(factory.EventNewCreatorToken, r.Logs[0].Name)
	tok, err := s.im.CreatorTokens(s.c, 0)
	s.Require().NoError(err)
	s.Equal(carol, tok.CreatorAddress)
	s.False(tok.Verified)
	s.Len(s.im.ListCreatorTokens(s.c), 1)
}

func (s *factoryTestSuite) TestSubmitAndCancelBid() {
	_, err := s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(big.NewInt(1000)), bayc, 3)
	s.ErrorIs(err, domain.ErrCollectionMismatch)
	s.Equal(eth(100), s.im.BalanceOfNative(s.c, alice))

	s.setupCollection()
	_, err = s.im.SubmitBid(s.c, factory.NewMsg(alice), bayc, 1)
	s.ErrorIs(err, domain.ErrInsufficientValue)
	_, err = s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(big.NewInt(2)), bayc, 3)
	s.ErrorIs(err, domain.ErrInsufficientValue)
	_, err = s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(big.NewInt(2)), bayc, 0)
	s.ErrorIs(err, domain.ErrInvalidAmount)

	r, err := s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(big.NewInt(1000)), bayc, 3)
	s.Require().NoError(err)
	args := r.Logs[0].Args.(factory.BidArgs)
	s.Equal("333", args.WeiPriceEach)
	s.Equal(domain.TokenId("0"), args.TokenId)

	_, err = s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(big.NewInt(1000)), bayc, 3)
	s.ErrorIs(err, domain.ErrDuplicateBid)

	bid, err := s.im.GetBid(s.c, alice, bayc)
	s.Require().NoError(err)
	s.Equal(big.NewInt(1000), bid.Escrow)
	s.Equal(big.NewInt(1000), s.im.Treasury(s.c).EscrowTotal)
	bids, err := s.im.ListBids(s.c, bayc)
	s.Require().NoError(err)
	s.Len(bids, 1)
	s.assertBooks()

	_, err = s.im.CancelBid(s.c, factory.NewMsg(bob), bayc)
	s.ErrorIs(err, domain.ErrBidNotFound)

	_, err = s.im.CancelBid(s.c, factory.NewMsg(alice), bayc)
	s.Require().NoError(err)
	s.Equal(eth(100), s.im.BalanceOfNative(s.c, alice))
	_, err = s.im.GetBid(s.c, alice, bayc)
	s.ErrorIs(err, domain.ErrBidNotFound)
	s.assertBooks()
}

// setupCollection registers bayc as the owner and mints the given tokens to bob
func (s *factoryTestSuite) setupCollection(tokenIds ...domain.TokenId) {
	_, err := s.im.RegisterCollection(s.c, factory.NewMsg(owner), bayc, "BoredApeYachtClub", "BAYC")
	s.Require().NoError(err)
	for _, id := range tokenIds {
		_, err := s.im.MintNft(s.c, factory.NewMsg(owner), bayc, bob, id)
		s.Require().NoError(err)
	}
}

func (s *factoryTestSuite) TestHitBid() {
	s.setupCollection("7", "8")
	_, err := s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(eth(2)), bayc, 2)
	s.Require().NoError(err)

	_, err = s.im.HitBid(s.c, factory.NewMsg(bob), alice, bayc, "7", eth(2))
	s.ErrorIs(err, domain.ErrPriceMismatch)
	_, err = s.im.HitBid(s.c, factory.NewMsg(bob), alice, bayc, "99", eth(1))
	s.ErrorIs(err, domain.ErrCollectionMismatch)
	_, err = s.im.HitBid(s.c, factory.NewMsg(carol), alice, bayc, "7", eth(1))
	s.ErrorIs(err, domain.ErrNotTokenOwner)
	_, err = s.im.HitBid(s.c, factory.NewMsg(bob), alice, bayc, "7", eth(1))
	s.ErrorIs(err, domain.ErrNotApproved)
	_, err = s.im.HitBid(s.c, factory.NewMsg(bob), carol, bayc, "7", eth(1))
	s.ErrorIs(err, domain.ErrBidNotFound)

	_, err = s.im.ApproveNft(s.c, factory.NewMsg(bob), bayc, factoryAcc, "7")
	s.Require().NoError(err)

	r, err := s.im.HitBid(s.c, factory.NewMsg(bob), alice, bayc, "7", eth(1))
	s.Require().NoError(err)
	s.Equal(factory.EventNftTransfer, r.Logs[0].Name)
	s.Equal(factory.EventNewTrade, r.Logs[1].Name)

	fee := new(big.Int).Div(eth(1), big.NewInt(100))
	s.Equal(new(big.Int).Sub(eth(101), fee), s.im.BalanceOfNative(s.c, bob))
	s.Equal(fee, s.im.TotalPlatformFees(s.c))
	nftOwner, err := s.im.OwnerOf(s.c, bayc, "7")
	s.Require().NoError(err)
	s.Equal(alice, nftOwner)
	s.Equal(domain.EmptyAddress, s.im.state.nfts[factory.NftKey{Collection: bayc, TokenId: "7"}].Approved)

	bid, err := s.im.GetBid(s.c, alice, bayc)
	s.Require().NoError(err)
	s.Equal(uint64(1), bid.Quantity)
	s.Equal(domain.TokenId("7"), bid.TokenId)
	s.Equal(eth(1), bid.Escrow)
	s.assertBooks()

	_, err = s.im.SetNftApprovalForAll(s.c, factory.NewMsg(bob), bayc, factoryAcc, true)
	s.Require().NoError(err)
	_, err = s.im.HitBid(s.c, factory.NewMsg(bob), alice, bayc, "8", eth(1))
	s.Require().NoError(err)
	_, err = s.im.GetBid(s.c, alice, bayc)
	s.ErrorIs(err, domain.ErrBidNotFound)
	s.Equal(0, s.im.Treasury(s.c).EscrowTotal.Sign())
	s.assertBooks()
}

func (s *factoryTestSuite) TestHitMultipleBidsIsAtomic() {
	s.setupCollection("1", "2")
	_, err := s.im.MintNft(s.c, factory.NewMsg(owner), bayc, carol, "3")
	s.Require().NoError(err)
	_, err = s.im.SetNftApprovalForAll(s.c, factory.NewMsg(bob), bayc, factoryAcc, true)
	s.Require().NoError(err)
	_, err = s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(eth(1)), bayc, 1)
	s.Require().NoError(err)
	_, err = s.im.SubmitBid(s.c, factory.NewMsg(carol).WithValue(eth(1)), bayc, 1)
	s.Require().NoError(err)

	_, err = s.im.HitMultipleBids(s.c, factory.NewMsg(bob), []domain.Address{alice}, bayc, []domain.TokenId{"1", "2"}, eth(1))
	s.ErrorIs(err, domain.ErrArrayLengthMismatch)

	bobBefore := s.im.BalanceOfNative(s.c, bob)
	_, err = s.im.HitMultipleBids(s.c, factory.NewMsg(bob), []domain.Address{alice, carol}, bayc, []domain.TokenId{"1", "3"}, eth(1))
	s.ErrorIs(err, domain.ErrNotTokenOwner)

	nftOwner, err := s.im.OwnerOf(s.c, bayc, "1")
	s.Require().NoError(err)
	s.Equal(bob, nftOwner)
	s.Equal(bobBefore, s.im.BalanceOfNative(s.c, bob))
	bid, err := s.im.GetBid(s.c, alice, bayc)
	s.Require().NoError(err)
	s.Equal(uint64(1), bid.Quantity)
	s.Equal(0, s.im.TotalPlatformFees(s.c).Sign())
	s.assertBooks()

	_, err = s.im.HitMultipleBids(s.c, factory.NewMsg(bob), []domain.Address{alice, carol}, bayc, []domain.TokenId{"1", "2"}, eth(1))
	s.Require().NoError(err)
	bids, err := s.im.ListBids(s.c, "")
	s.Require().NoError(err)
	s.Empty(bids)
	s.assertBooks()
}

func (s *factoryTestSuite) TestCollectionRegistry() {
	s.setupCollection("1")

	_, err := s.im.RegisterCollection(s.c, factory.NewMsg(owner), bayc, "dup", "DUP")
	s.ErrorIs(err, domain.ErrConflict)
	_, err = s.im.MintNft(s.c, factory.NewMsg(alice), bayc, alice, "2")
	s.ErrorIs(err, domain.ErrUnauthorized)
	_, err = s.im.MintNft(s.c, factory.NewMsg(carol), bayc, alice, "2")
	s.ErrorIs(err, domain.ErrUnauthorized)
	_, err = s.im.MintNft(s.c, factory.NewMsg(owner), bayc, alice, "01")
	s.ErrorIs(err, domain.ErrConflict)
	_, err = s.im.ApproveNft(s.c, factory.NewMsg(alice), bayc, alice, "1")
	s.ErrorIs(err, domain.ErrNotTokenOwner)
	_, err = s.im.SetNftApprovalForAll(s.c, factory.NewMsg(bob), bayc, bob, true)
	s.ErrorIs(err, domain.ErrSelfApproval)
	_, err = s.im.OwnerOf(s.c, bayc, "2")
	s.ErrorIs(err, domain.ErrNotFound)

	col, err := s.im.GetCollection(s.c, bayc)
	s.Require().NoError(err)
	s.Equal(owner, col.Admin)
}

func (s *factoryTestSuite) TestUnregisteredCollectionCannotBeSquatted() {
	_, err := s.im.SubmitBid(s.c, factory.NewMsg(alice).WithValue(eth(5)), bayc, 1)
	s.ErrorIs(err, domain.ErrCollectionMismatch)
	_, err = s.im.RegisterCollection(s.c, factory.NewMsg(bob), bayc, "BoredApeYachtClub", "BAYC")
	s.ErrorIs(err, domain.ErrUnauthorized)
	_, err = s.im.MintNft(s.c, factory.NewMsg(bob), bayc, bob, "1")
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.im.GetCollection(s.c, bayc)
	s.ErrorIs(err, domain.ErrNotFound)

	s.Equal(eth(100), s.im.BalanceOfNative(s.c, alice))
	s.Equal(eth(100), s.im.BalanceOfNative(s.c, bob))
	s.Equal(0, s.im.Treasury(s.c).EscrowTotal.Sign())
	bids, err := s.im.ListBids(s.c, "")
	s.Require().NoError(err)
	s.Empty(bids)
	s.assertBooks()
}

func (s *factoryTestSuite) TestOwnerOps() {
	_, err := s.im.ChangePlatformFee(s.c, factory.NewMsg(alice), 200)
	s.ErrorIs(err, domain.ErrUnauthorized)
	_, err = s.im.ChangePlatformFee(s.c, factory.NewMsg(owner), 1001)
	s.ErrorIs(err, domain.ErrFeeExceedsCap)
	r, err := s.im.ChangePlatformFee(s.c, factory.NewMsg(owner), 200)
	s.Require().NoError(err)
	s.Equal(factory.ParamChangedArgs{Old: 100, New: 200}, r.Logs[0].Args)

	_, err = s.im.ChangeProfitMargin(s.c, factory.NewMsg(owner), 10001)
	s.ErrorIs(err, domain.ErrBadParamInput)
	_, err = s.im.ChangeProfitMargin(s.c, factory.NewMsg(owner), 3000)
	s.Require().NoError(err)
	s.Equal(uint64(3000), s.im.Params(s.c).ProfitMargin)

	id := s.createToken(carol)
	_, err = s.im.ChangeVerification(s.c, factory.NewMsg(owner), id, true)
	s.Require().NoError(err)
	tok, err := s.im.CreatorTokens(s.c, id)
	s.Require().NoError(err)
	s.True(tok.Verified)

	_, err = s.im.ChangePlatformFee(s.c, factory.NewMsg(owner).WithValue(big.NewInt(1)), 200)
	s.ErrorIs(err, domain.ErrIncorrectValue)

	_, err = s.im.TransferOwnership(s.c, factory.NewMsg(owner), domain.EmptyAddress)
	s.ErrorIs(err, domain.ErrInvalidAddress)
	_, err = s.im.TransferOwnership(s.c, factory.NewMsg(owner), alice)
	s.Require().NoError(err)
	s.Equal(alice, s.im.Owner(s.c))
	_, err = s.im.ChangePlatformFee(s.c, factory.NewMsg(owner), 300)
	s.ErrorIs(err, domain.ErrUnauthorized)
}

func (s *factoryTestSuite) TestFeesPayoutAndWithdraw() {
	id := s.createToken(carol)
	s.buy(alice, id, 10)
	fees := s.im.TotalPlatformFees(s.c)
	s.Equal(wei("100450000000"), fees)

	_, err := s.im.Receive(s.c, factory.NewMsg(bob))
	s.ErrorIs(err, domain.ErrInsufficientValue)
	_, err = s.im.Receive(s.c, factory.NewMsg(bob).WithValue(big.NewInt(500)))
	s.Require().NoError(err)
	s.Equal(big.NewInt(500), s.im.Treasury(s.c).Surplus)
	s.assertBooks()

	to := domain.Address("0xd000000000000000000000000000000000000004")
	_, err = s.im.PayoutPlatformFees(s.c, factory.NewMsg(owner), to)
	s.Require().NoError(err)
	s.Equal(fees, s.im.BalanceOfNative(s.c, to))
	s.Equal(0, s.im.PlatformFeesOwed(s.c).Sign())
	s.Equal(fees, s.im.TotalPlatformFees(s.c))

	_, err = s.im.Withdraw(s.c, factory.NewMsg(owner), to)
	s.Require().NoError(err)
	s.Equal(new(big.Int).Add(fees, big.NewInt(500)), s.im.BalanceOfNative(s.c, to))
	tr := s.im.Treasury(s.c)
	s.Equal(0, tr.Surplus.Sign())
	s.Equal(tr.ReserveTotal, tr.TotalValueLocked)
	s.assertBooks()

	_, err = s.im.Fund(s.c, factory.NewMsg(owner), to, big.NewInt(0))
	s.ErrorIs(err, domain.ErrInvalidAmount)
	_, err = s.im.Fund(s.c, factory.NewMsg(alice), to, big.NewInt(1))
	s.ErrorIs(err, domain.ErrUnauthorized)
	_, err = s.im.Fund(s.c, factory.NewMsg(owner), to, big.NewInt(1))
	s.Require().NoError(err)
}

func (s *factoryTestSuite) TestCommitFailureReverts() {
	s.repo = &mocks.Repo{}
	s.repo.On("Load", mock.Anything).Return(nil, domain.ErrNotFound).Once()
	s.repo.On("Commit", mock.Anything, mock.Anything).Return(nil).Twice()
	s.repo.On("Commit", mock.Anything, mock.Anything).Return(errors.New("mongo down"))
	uc, err := New(s.c, Config{
		FactoryAddress: factoryAcc,
		Genesis:        factory.Genesis{Owner: owner, Allocations: map[domain.Address]*big.Int{alice: eth(1)}},
	}, s.repo, s.publisher)
	s.Require().NoError(err)
	s.im = uc.(*impl)

	id := s.createToken(carol)
	total, err := s.im.TotalProceeds(s.c, id, 3)
	s.Require().NoError(err)
	_, err = s.im.BuyCreatorToken(s.c, factory.NewMsg(alice).WithValue(total), id, 3)
	s.Require().Error(err)

	s.Equal(eth(1), s.im.BalanceOfNative(s.c, alice))
	s.Equal(uint64(0), s.im.BalanceOf(s.c, alice, id))
	s.Equal(uint64(2), s.im.state.meta.BlockNumber)
	s.assertBooks()
}

func (s *factoryTestSuite) TestReceipts() {
	r1 := s.approvalReceipt()
	r2 := s.approvalReceipt()
	s.NotEqual(r1.TxHash, r2.TxHash)
	s.Equal(r1.BlockNumber+1, r2.BlockNumber)
	s.Equal(factory.ReceiptStatusSuccess, r1.Status)

	s.repo.On("FindReceipt", mock.Anything, r1.TxHash).Return(r1, nil)
	got, err := s.im.GetReceipt(s.c, r1.TxHash)
	s.Require().NoError(err)
	s.Equal(r1, got)
	s.publisher.AssertCalled(s.T(), "Publish", mock.Anything, r2)
}

func (s *factoryTestSuite) approvalReceipt() *factory.Receipt {
	r, err := s.im.SetApprovalForAll(s.c, factory.NewMsg(alice), bob, true)
	s.Require().NoError(err)
	return r
}
