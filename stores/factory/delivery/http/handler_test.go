package http

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/validator"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
	"github.com/kreana/goapi/domain/factory/mocks"
	"github.com/kreana/goapi/middleware"
	"github.com/kreana/goapi/service/cache/provider/primitive"
	authMiddleware "github.com/kreana/goapi/stores/auth/delivery/http/middleware"
	authUsecase "github.com/kreana/goapi/stores/auth/usecase"
	"github.com/kreana/goapi/stores/factory/usecase"
)

const (
	owner      = domain.Address("0x1000000000000000000000000000000000000001")
	alice      = domain.Address("0xa000000000000000000000000000000000000001")
	bob        = domain.Address("0xb000000000000000000000000000000000000002")
	factoryAcc = domain.Address("0xfac0000000000000000000000000000000000000")
	bayc       = domain.Address("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")
)

type response struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

type handlerSuite struct {
	suite.Suite

	e      *echo.Echo
	repo   *mocks.Repo
	tokens map[domain.Address]string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	c := ctx.Background()
	s.repo = &mocks.Repo{}
	s.repo.On("Load", mock.Anything).Return(nil, domain.ErrNotFound).Once()
	s.repo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	publisher := &mocks.Publisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return()

	hundred := new(big.Int).Mul(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	ledger, err := usecase.New(c, usecase.Config{
		FactoryAddress: factoryAcc,
		Genesis: factory.Genesis{
			Owner:       owner,
			Allocations: map[domain.Address]*big.Int{alice: hundred, bob: hundred},
		},
	}, s.repo, publisher)
	s.Require().NoError(err)

	auth := authUsecase.New(authUsecase.Config{
		JwtSecret: "jwt-secret",
		Nonces:    primitive.NewPrimitive("factory-handler-nonces", 1),
	})
	s.tokens = map[domain.Address]string{}
	for _, a := range []domain.Address{owner, alice, bob} {
		tkn, err := auth.SignToken(c, a)
		s.Require().NoError(err)
		s.tokens[a] = tkn
	}

	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validator.New())
	s.e.Use(middleware.InitMiddleware().AddContext())
	New(s.e, ledger, authMiddleware.New(auth, ledger), primitive.NewPrimitive("factory-handler-receipts", 1))
}

// do sends body as caller, an empty caller sends no token
func (s *handlerSuite) do(caller domain.Address, method, path, body string, out interface{}) int {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.tokens[caller])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if out != nil {
		resp := response{}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
		s.Require().NoError(json.Unmarshal(resp.Data, out), rec.Body.String())
	}
	return rec.Code
}

// registerBayc registers bayc as the owner
func (s *handlerSuite) registerBayc() {
	s.Require().Equal(http.StatusOK, s.do(owner, http.MethodPost, "/collections", `{"address":"`+string(bayc)+`","name":"BAYC","symbol":"BAYC"}`, nil))
}

func (s *handlerSuite) TestBidLifecycle() {
	body := `{"nftAddress":"` + string(bayc) + `","quantity":3,"value":"3001"}`
	s.Equal(http.StatusUnauthorized, s.do("", http.MethodPost, "/bids", body, nil))
	s.Equal(http.StatusBadRequest, s.do(alice, http.MethodPost, "/bids", body, nil))
	s.registerBayc()

	receipt := factory.Receipt{}
	s.Equal(http.StatusOK, s.do(alice, http.MethodPost, "/bids", body, &receipt))
	s.Equal(alice, receipt.From)
	s.Equal(factory.EventNewBid, receipt.Logs[0].Name)

	s.Equal(http.StatusConflict, s.do(alice, http.MethodPost, "/bids", body, nil))

	bids := []bidView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/bids?nftAddress="+string(bayc), "", &bids))
	s.Require().Len(bids, 1)
	s.Equal("1000", bids[0].WeiPriceEach)
	s.Equal("3001", bids[0].Escrow)

	bid := bidView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/bids/"+string(alice)+"/"+string(bayc), "", &bid))
	s.Equal(uint64(3), bid.Quantity)

	s.Equal(http.StatusOK, s.do(alice, http.MethodDelete, "/bids/"+string(bayc), "", nil))
	s.Equal(http.StatusNotFound, s.do("", http.MethodGet, "/bids/"+string(alice)+"/"+string(bayc), "", nil))
	s.Equal(http.StatusNotFound, s.do(alice, http.MethodDelete, "/bids/"+string(bayc), "", nil))
	s.Equal(http.StatusBadRequest, s.do(alice, http.MethodDelete, "/bids/0x12", "", nil))
}

func (s *handlerSuite) TestSubmitBidValidation() {
	s.registerBayc()
	s.Equal(http.StatusBadRequest, s.do(alice, http.MethodPost, "/bids", `{"nftAddress":"0x12","quantity":1,"value":"1"}`, nil))
	s.Equal(http.StatusBadRequest, s.do(alice, http.MethodPost, "/bids", `{"nftAddress":"`+string(bayc)+`","quantity":1,"value":"-1"}`, nil))
	s.Equal(http.StatusBadRequest, s.do(alice, http.MethodPost, "/bids", `{"nftAddress":"`+string(bayc)+`","quantity":0,"value":"1"}`, nil))
}

func (s *handlerSuite) TestCreatorTokenFlow() {
	s.Equal(http.StatusOK, s.do(alice, http.MethodPost, "/creator-tokens", `{"name":"Kreana","symbol":"KRE","description":"first"}`, nil))

	tok := creatorTokenView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/creator-tokens/0", "", &tok))
	s.Equal(alice, tok.CreatorAddress)
	s.Equal("KRE", tok.Symbol)
	s.Equal(http.StatusNotFound, s.do("", http.MethodGet, "/creator-tokens/1", "", nil))
	s.Equal(http.StatusBadRequest, s.do("", http.MethodGet, "/creator-tokens/x", "", nil))

	q := quoteView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/creator-tokens/0/quote?amount=10", "", &q))
	s.Equal("10045000000000", q.BuyProceeds)
	s.Equal("100450000000", q.FeeProceeds)
	s.Equal("10145450000000", q.TotalProceeds)
	s.Empty(q.SellProceeds)

	s.Equal(http.StatusBadRequest, s.do(bob, http.MethodPost, "/creator-tokens/0/buy", `{"amount":10,"value":"1"}`, nil))
	s.Equal(http.StatusOK, s.do(bob, http.MethodPost, "/creator-tokens/0/buy", `{"amount":10,"value":"`+q.TotalProceeds+`"}`, nil))

	holdings := []holdingView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/accounts/"+string(bob)+"/holdings", "", &holdings))
	s.Equal([]holdingView{{TokenId: 0, Owner: bob, Amount: 10}}, holdings)

	holders := []holdingView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/creator-tokens/0/holders", "", &holders))
	s.Len(holders, 1)

	balances := []uint64{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/creator-tokens/balances?accounts="+string(bob)+"&accounts="+string(alice)+"&ids=0&ids=0", "", &balances))
	s.Equal([]uint64{10, 0}, balances)

	// only bob or his operator may sell his units
	s.Equal(http.StatusForbidden, s.do(alice, http.MethodPost, "/creator-tokens/0/sell", `{"amount":10,"account":"`+string(bob)+`"}`, nil))
	s.Equal(http.StatusOK, s.do(bob, http.MethodPut, "/approvals", `{"operator":"`+string(alice)+`","approved":true}`, nil))
	approved := false
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/approvals/"+string(bob)+"/"+string(alice), "", &approved))
	s.True(approved)

	s.Equal(http.StatusOK, s.do(bob, http.MethodPost, "/transfers", `{"from":"`+string(bob)+`","to":"`+string(owner)+`","id":0,"amount":4,"data":"0x"}`, nil))
	s.Equal(http.StatusOK, s.do(alice, http.MethodPost, "/creator-tokens/0/sell", `{"amount":6,"account":"`+string(bob)+`"}`, nil))
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/creator-tokens/0", "", &tok))
	s.Equal(uint64(4), tok.Outstanding)
	s.Equal(uint64(10), tok.MaxSupply)

	s.Equal(http.StatusOK, s.do(alice, http.MethodPatch, "/creator-tokens/0", `{"description":"updated"}`, nil))
	s.Equal(http.StatusForbidden, s.do(bob, http.MethodPatch, "/creator-tokens/0", `{"description":"hijacked"}`, nil))
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/creator-tokens/0", "", &tok))
	s.Equal("updated", tok.Description)

	list := []creatorTokenView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/creator-tokens", "", &list))
	s.Len(list, 1)
}

func (s *handlerSuite) TestAdminRequiresOwner() {
	s.Equal(http.StatusForbidden, s.do(alice, http.MethodPut, "/admin/platform-fee", `{"fee":200}`, nil))
	s.Equal(http.StatusOK, s.do(owner, http.MethodPut, "/admin/platform-fee", `{"fee":200}`, nil))
	s.Equal(http.StatusBadRequest, s.do(owner, http.MethodPut, "/admin/platform-fee", `{"fee":5000}`, nil))
	s.Equal(http.StatusOK, s.do(owner, http.MethodPost, "/admin/fund", `{"account":"`+string(alice)+`","amount":"5"}`, nil))

	t := treasuryView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/treasury", "", &t))
	s.Equal(uint64(200), t.Params.PlatformFee)
	s.Equal(owner, t.Owner)
	s.Equal(factoryAcc, t.FactoryAddress)

	b := balanceView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/accounts/"+string(alice)+"/balance", "", &b))
	s.Equal("100000000000000000005", b.Balance)

	s.Equal(http.StatusOK, s.do(owner, http.MethodPut, "/admin/owner", `{"newOwner":"`+string(bob)+`"}`, nil))
	s.Equal(http.StatusForbidden, s.do(owner, http.MethodPut, "/admin/profit-margin", `{"margin":1000}`, nil))
	s.Equal(http.StatusOK, s.do(bob, http.MethodPut, "/admin/profit-margin", `{"margin":1000}`, nil))
}

func (s *handlerSuite) TestHitBid() {
	s.Equal(http.StatusForbidden, s.do(bob, http.MethodPost, "/collections", `{"address":"`+string(bayc)+`","name":"BAYC","symbol":"BAYC"}`, nil))
	s.Equal(http.StatusNotFound, s.do("", http.MethodGet, "/collections/"+string(bayc), "", nil))
	s.registerBayc()
	coll := collectionView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/collections/"+string(bayc), "", &coll))
	s.Equal(owner, coll.Admin)

	s.Equal(http.StatusForbidden, s.do(bob, http.MethodPost, "/collections/"+string(bayc)+"/tokens", `{"to":"`+string(bob)+`","tokenId":"1"}`, nil))
	s.Equal(http.StatusOK, s.do(owner, http.MethodPost, "/collections/"+string(bayc)+"/tokens", `{"to":"`+string(bob)+`","tokenId":"1"}`, nil))
	s.Equal(http.StatusForbidden, s.do(alice, http.MethodPost, "/collections/"+string(bayc)+"/tokens", `{"to":"`+string(alice)+`","tokenId":"2"}`, nil))
	s.Equal(http.StatusOK, s.do(alice, http.MethodPost, "/bids", `{"nftAddress":"`+string(bayc)+`","quantity":1,"value":"1000000000000000000"}`, nil))

	hit := `{"bidder":"` + string(alice) + `","nftAddress":"` + string(bayc) + `","tokenId":"1","priceEach":"1000000000000000000"}`
	s.Equal(http.StatusBadRequest, s.do(bob, http.MethodPost, "/bids/hit", hit, nil))

	s.Equal(http.StatusOK, s.do(bob, http.MethodPut, "/collections/"+string(bayc)+"/approvals", `{"operator":"`+string(factoryAcc)+`","approved":true}`, nil))
	receipt := factory.Receipt{}
	s.Equal(http.StatusOK, s.do(bob, http.MethodPost, "/bids/hit", hit, &receipt))
	s.Equal(factory.EventNewTrade, receipt.Logs[len(receipt.Logs)-1].Name)

	nft := nftOwnerView{}
	s.Equal(http.StatusOK, s.do("", http.MethodGet, "/collections/"+string(bayc)+"/tokens/1", "", &nft))
	s.Equal(alice, nft.Owner)
	s.Equal(http.StatusNotFound, s.do("", http.MethodGet, "/bids/"+string(alice)+"/"+string(bayc), "", nil))

	// alice approves bob for the token she now holds
	s.Equal(http.StatusOK, s.do(alice, http.MethodPut, "/collections/"+string(bayc)+"/tokens/1/approval", `{"approved":"`+string(bob)+`"}`, nil))
	s.Equal(http.StatusBadRequest, s.do(alice, http.MethodPost, "/bids/hit-multiple", `{"bidders":[],"nftAddress":"`+string(bayc)+`","tokenIds":[],"priceEach":"1"}`, nil))
}

func (s *handlerSuite) TestGetReceipt() {
	s.repo.On("FindReceipt", mock.Anything, domain.TxHash("0xabc")).Return(&factory.Receipt{TxHash: "0xabc", Method: "cancelBid"}, nil).Once()
	s.repo.On("FindReceipt", mock.Anything, domain.TxHash("0xdef")).Return(nil, domain.ErrNotFound)

	for i := 0; i < 2; i++ {
		r := factory.Receipt{}
		s.Equal(http.StatusOK, s.do("", http.MethodGet, "/receipts/0xabc", "", &r))
		s.Equal("cancelBid", r.Method)
	}
	s.Equal(http.StatusNotFound, s.do("", http.MethodGet, "/receipts/0xdef", "", nil))
}
