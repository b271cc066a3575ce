package webapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/wagerdome/wagerdome/internal/fixtures"
	"github.com/wagerdome/wagerdome/pkg/config"
	"github.com/wagerdome/wagerdome/pkg/provider"
	"github.com/wagerdome/wagerdome/pkg/service/lending"
	"github.com/wagerdome/wagerdome/pkg/service/portfolio"
	"github.com/wagerdome/wagerdome/pkg/service/wager"
)

const testSecret = "test-secret"

// staticOracle serves fixed quotes so handler assertions are deterministic.
type staticOracle map[string]provider.Quote

func (o staticOracle) Quotes() map[string]provider.Quote {
	out := make(map[string]provider.Quote, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

type GatewayTestSuite struct {
	suite.Suite
	app    *fiber.App
	uow    *fixtures.MemoryUoW
	userID uuid.UUID
}

func (s *GatewayTestSuite) SetupTest() {
	s.uow = fixtures.NewMemoryUoW()
	s.userID = uuid.New()
	s.uow.SeedAccount(s.userID, decimal.NewFromInt(1000), 700)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	oracle := staticOracle{
		"TECH": {Symbol: "TECH", Name: "TechCorp", Price: decimal.NewFromInt(150), ChangePercent: decimal.NewFromFloat(0.5)},
		"BANK": {Symbol: "BANK", Name: "MegaBank", Price: decimal.NewFromInt(85), ChangePercent: decimal.NewFromFloat(-1.2)},
	}

	defaults := wager.Defaults{
		StartingBalance:     decimal.NewFromInt(1000),
		StartingCreditScore: 700,
	}
	jwtCfg := config.Jwt{Secret: testSecret}
	s.app = fiber.New()
	GameRoutes(s.app, wager.NewService(s.uow, defaults, logger), jwtCfg)
	BankRoutes(s.app, lending.NewService(s.uow, nil, logger), jwtCfg)
	StockRoutes(s.app, portfolio.NewService(s.uow, oracle, logger), jwtCfg)
}

func (s *GatewayTestSuite) token() string {
	claims := jwt.MapClaims{
		"sub": s.userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	s.Require().NoError(err)
	return token
}

func (s *GatewayTestSuite) makeRequest(method, path, body, token string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

func (s *GatewayTestSuite) decodeData(resp *http.Response) map[string]any {
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	err := json.NewDecoder(resp.Body).Decode(&envelope)
	s.Require().NoError(err)
	return envelope.Data
}

func (s *GatewayTestSuite) TestMissingToken() {
	resp := s.makeRequest("GET", "/games/balance", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *GatewayTestSuite) TestInvalidToken() {
	resp := s.makeRequest("GET", "/games/balance", "", "not-a-token")
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *GatewayTestSuite) TestGetBalance() {
	resp := s.makeRequest("GET", "/games/balance", "", s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Assert().Equal("1000", data["balance"])
	s.Assert().Equal(float64(700), data["creditScore"])
}

func (s *GatewayTestSuite) TestPlayGameWin() {
	body := `{"gameType":"slots","betAmount":"30","result":"win","payout":"50"}`
	resp := s.makeRequest("POST", "/games/play", body, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Assert().Equal("1020", data["newBalance"])
	s.Assert().Equal("win", data["result"])
}

func (s *GatewayTestSuite) TestPlayGameInvalidType() {
	body := `{"gameType":"dice","betAmount":"30","result":"win","payout":"50"}`
	resp := s.makeRequest("POST", "/games/play", body, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *GatewayTestSuite) TestPlayGameInvalidResult() {
	body := `{"gameType":"slots","betAmount":"30","result":"draw","payout":"0"}`
	resp := s.makeRequest("POST", "/games/play", body, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *GatewayTestSuite) TestPlayGameInsufficientFunds() {
	body := `{"gameType":"slots","betAmount":"5000","result":"loss","payout":"0"}`
	resp := s.makeRequest("POST", "/games/play", body, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *GatewayTestSuite) TestGameStats() {
	body := `{"gameType":"poker","betAmount":"10","result":"loss","payout":"0"}`
	resp := s.makeRequest("POST", "/games/play", body, s.token())
	resp.Body.Close() //nolint: errcheck

	resp = s.makeRequest("GET", "/games/stats", "", s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Require().Contains(data, "poker")
	pokerStats := data["poker"].(map[string]any)
	s.Assert().Equal(float64(1), pokerStats["gamesPlayed"])
}

func (s *GatewayTestSuite) TestBorrowAndRepay() {
	body := `{"amount":"1000","loanType":"standard"}`
	resp := s.makeRequest("POST", "/bank/borrow", body, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Assert().Equal(float64(8), data["interestRate"])
	s.Assert().Equal("1080", data["totalAmount"])
	s.Assert().Equal("2000", data["newBalance"])

	var loanID string
	for id := range s.uow.Loans {
		loanID = id.String()
	}
	resp = s.makeRequest("POST", "/bank/repay/"+loanID, `{"amount":"1080"}`, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data = s.decodeData(resp)
	s.Assert().Equal(true, data["loanPaidOff"])
}

func (s *GatewayTestSuite) TestListTransactions() {
	body := `{"amount":"500","loanType":"quick"}`
	resp := s.makeRequest("POST", "/bank/borrow", body, s.token())
	resp.Body.Close() //nolint: errcheck

	resp = s.makeRequest("GET", "/bank/transactions", "", s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	s.Require().Len(envelope.Data, 1)
	s.Assert().Equal("loan", envelope.Data[0]["type"])
	s.Assert().Equal("500", envelope.Data[0]["amount"])
	s.Assert().Equal("quick loan borrowed", envelope.Data[0]["description"])
}

func (s *GatewayTestSuite) TestBorrowInvalidLoanType() {
	body := `{"amount":"1000","loanType":"payday"}`
	resp := s.makeRequest("POST", "/bank/borrow", body, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *GatewayTestSuite) TestRepayInvalidLoanID() {
	resp := s.makeRequest("POST", "/bank/repay/not-a-uuid", `{"amount":"10"}`, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *GatewayTestSuite) TestRepayUnknownLoan() {
	resp := s.makeRequest("POST", "/bank/repay/"+uuid.NewString(), `{"amount":"10"}`, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *GatewayTestSuite) TestGetCredit() {
	resp := s.makeRequest("GET", "/bank/credit", "", s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Assert().Equal(float64(700), data["creditScore"])
	s.Assert().Equal("0", data["totalDebt"])
}

func (s *GatewayTestSuite) TestBuySellStock() {
	resp := s.makeRequest("POST", "/stocks/buy", `{"symbol":"TECH","shares":5}`, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Assert().Equal("750", data["totalCost"])
	s.Assert().Equal("250", data["newBalance"])

	resp = s.makeRequest("POST", "/stocks/sell", `{"symbol":"TECH","shares":3}`, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data = s.decodeData(resp)
	s.Assert().Equal("450", data["totalValue"])
	s.Assert().Equal("700", data["newBalance"])
}

func (s *GatewayTestSuite) TestBuyUnknownSymbol() {
	resp := s.makeRequest("POST", "/stocks/buy", `{"symbol":"NOPE","shares":1}`, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *GatewayTestSuite) TestSellMoreThanHeld() {
	resp := s.makeRequest("POST", "/stocks/sell", `{"symbol":"TECH","shares":1}`, s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *GatewayTestSuite) TestGetPrices() {
	resp := s.makeRequest("GET", "/stocks/prices", "", s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	data := s.decodeData(resp)
	s.Require().Contains(data, "TECH")
	quote := data["TECH"].(map[string]any)
	s.Assert().Equal("150", fmt.Sprintf("%v", quote["price"]))
}

func (s *GatewayTestSuite) TestGetPortfolioEmpty() {
	resp := s.makeRequest("GET", "/stocks/portfolio", "", s.token())
	defer resp.Body.Close() //nolint: errcheck
	s.Assert().Equal(fiber.StatusOK, resp.StatusCode)
}

func TestGatewayTestSuite(t *testing.T) {
	suite.Run(t, new(GatewayTestSuite))
}
