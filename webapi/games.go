package webapi

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/config"
	"github.com/wagerdome/wagerdome/pkg/domain/game"
	"github.com/wagerdome/wagerdome/pkg/service/wager"
)

// PlayRequest is the body of POST /games/play. The game client reports the
// pre-computed outcome; the core only settles its financial effect.
type PlayRequest struct {
	GameType  string          `json:"gameType" validate:"required"`
	BetAmount decimal.Decimal `json:"betAmount" validate:"required"`
	Result    string          `json:"result" validate:"required,oneof=win loss"`
	Payout    decimal.Decimal `json:"payout"`
	Details   json.RawMessage `json:"details"`
}

// GameRoutes registers HTTP routes for wager settlement and balance queries.
//
//   - GET  /games/balance : current balance and credit score.
//   - POST /games/play    : settle a wager.
//   - GET  /games/stats   : per-game statistics.
func GameRoutes(app *fiber.App, svc *wager.Service, jwtCfg config.Jwt) {
	app.Get("/games/balance", Protected(jwtCfg), GetBalance(svc))
	app.Post("/games/play", Protected(jwtCfg), PlayGame(svc))
	app.Get("/games/stats", Protected(jwtCfg), GetGameStats(svc))
}

// GetBalance returns a handler reporting the user's balance and credit score.
func GetBalance(svc *wager.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		balance, err := svc.GetBalance(c.UserContext(), userID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to get balance", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Balance", fiber.Map{
			"balance":     balance.Balance,
			"creditScore": balance.CreditScore,
		})
	}
}

// PlayGame returns a handler that settles one wager.
func PlayGame(svc *wager.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		input, err := BindAndValidate[PlayRequest](c)
		if input == nil {
			return err
		}
		settlement, err := svc.SettleWager(
			c.UserContext(),
			userID,
			game.Type(input.GameType),
			input.BetAmount,
			game.Outcome(input.Result),
			input.Payout,
			input.Details,
		)
		if err != nil {
			return DomainErrorJSON(c, "Game play failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Wager settled", fiber.Map{
			"newBalance": settlement.NewBalance,
			"result":     settlement.Result,
			"payout":     settlement.Payout,
		})
	}
}

// GetGameStats returns a handler reporting per-game statistics keyed by game
// type.
func GetGameStats(svc *wager.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		stats, err := svc.GetGameStats(c.UserContext(), userID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to get statistics", err)
		}
		out := make(fiber.Map, len(stats))
		for gameType, st := range stats {
			out[string(gameType)] = fiber.Map{
				"totalWagered": st.TotalWagered,
				"totalWon":     st.TotalWon,
				"gamesPlayed":  st.GamesPlayed,
			}
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Game statistics", out)
	}
}
