package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wagerdome/wagerdome/pkg/config"
	"github.com/wagerdome/wagerdome/pkg/service/portfolio"
)

// TradeRequest is the body of POST /stocks/buy and POST /stocks/sell.
type TradeRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Shares int64  `json:"shares" validate:"required,min=1"`
}

// StockRoutes registers HTTP routes for portfolio accounting.
//
//   - GET  /stocks/prices    : current quotes for all instruments.
//   - GET  /stocks/portfolio : valued holdings grouped by symbol.
//   - POST /stocks/buy       : buy shares at the current quote.
//   - POST /stocks/sell      : sell shares FIFO at the current quote.
func StockRoutes(app *fiber.App, svc *portfolio.Service, jwtCfg config.Jwt) {
	app.Get("/stocks/prices", Protected(jwtCfg), GetPrices(svc))
	app.Get("/stocks/portfolio", Protected(jwtCfg), GetPortfolio(svc))
	app.Post("/stocks/buy", Protected(jwtCfg), BuyStock(svc))
	app.Post("/stocks/sell", Protected(jwtCfg), SellStock(svc))
}

// GetPrices returns a handler reporting a fresh quote per instrument.
func GetPrices(svc *portfolio.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := CurrentUserID(c); err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		quotes := svc.GetPrices(c.UserContext())
		out := make(fiber.Map, len(quotes))
		for symbol, q := range quotes {
			out[symbol] = fiber.Map{
				"symbol": q.Symbol,
				"name":   q.Name,
				"price":  q.Price,
				"change": q.ChangePercent,
			}
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Prices", out)
	}
}

// GetPortfolio returns a handler reporting the user's valued holdings.
func GetPortfolio(svc *portfolio.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		holdings, err := svc.GetPortfolio(c.UserContext(), userID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to get portfolio", err)
		}
		out := make([]fiber.Map, 0, len(holdings))
		for _, h := range holdings {
			out = append(out, fiber.Map{
				"symbol":            h.Symbol,
				"shares":            h.Shares,
				"avgPrice":          h.AvgPrice,
				"currentPrice":      h.CurrentPrice,
				"totalValue":        h.TotalValue,
				"profitLoss":        h.ProfitLoss,
				"profitLossPercent": h.ProfitLossPercent,
			})
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Portfolio", out)
	}
}

// BuyStock returns a handler that buys shares at the current quote.
func BuyStock(svc *portfolio.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		input, err := BindAndValidate[TradeRequest](c)
		if input == nil {
			return err
		}
		result, err := svc.BuyStock(c.UserContext(), userID, input.Symbol, input.Shares)
		if err != nil {
			return DomainErrorJSON(c, "Failed to buy stock", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Stock bought", fiber.Map{
			"newBalance": result.NewBalance,
			"shares":     result.Shares,
			"price":      result.Price,
			"totalCost":  result.Total,
		})
	}
}

// SellStock returns a handler that sells shares FIFO at the current quote.
func SellStock(svc *portfolio.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		input, err := BindAndValidate[TradeRequest](c)
		if input == nil {
			return err
		}
		result, err := svc.SellStock(c.UserContext(), userID, input.Symbol, input.Shares)
		if err != nil {
			return DomainErrorJSON(c, "Failed to sell stock", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Stock sold", fiber.Map{
			"newBalance": result.NewBalance,
			"shares":     result.Shares,
			"price":      result.Price,
			"totalValue": result.Total,
		})
	}
}
