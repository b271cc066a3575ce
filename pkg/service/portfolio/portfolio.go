// Package portfolio provides business logic for buying and selling
// instruments with FIFO lot tracking. Each trade takes exactly one quote
// snapshot from the price oracle and uses it for both pricing and the
// price-history record, inside a single transaction boundary.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/account"
	"github.com/wagerdome/wagerdome/pkg/domain/ledger"
	"github.com/wagerdome/wagerdome/pkg/domain/stock"
	"github.com/wagerdome/wagerdome/pkg/provider"
	"github.com/wagerdome/wagerdome/pkg/repository"
)

// Service executes trades and portfolio queries.
type Service struct {
	uow    repository.UnitOfWork
	oracle provider.PriceOracle
	logger *slog.Logger
}

// NewService creates a portfolio accounting service.
func NewService(uow repository.UnitOfWork, oracle provider.PriceOracle, logger *slog.Logger) *Service {
	return &Service{uow: uow, oracle: oracle, logger: logger}
}

// TradeResult reports a completed buy or sell.
type TradeResult struct {
	NewBalance decimal.Decimal
	Shares     int64
	Price      decimal.Decimal
	Total      decimal.Decimal
}

// Holding is the valued aggregate of one symbol in a user's portfolio.
type Holding struct {
	Symbol       string
	Shares       int64
	AvgPrice     decimal.Decimal
	CurrentPrice decimal.Decimal
	TotalValue   decimal.Decimal
	ProfitLoss   decimal.Decimal
	// ProfitLossPercent is zero when the cost basis is zero; there is no
	// meaningful percentage to report for a free position.
	ProfitLossPercent decimal.Decimal
}

// GetPrices returns a fresh quote for every tradeable instrument.
func (s *Service) GetPrices(ctx context.Context) map[string]provider.Quote {
	return s.oracle.Quotes()
}

// BuyStock purchases shares of symbol at the oracle's current price,
// creating one new lot. The cost check happens before any mutation; an
// unaffordable trade fails with account.ErrInsufficientFunds.
func (s *Service) BuyStock(
	ctx context.Context,
	userID uuid.UUID,
	symbol string,
	shares int64,
) (result *TradeResult, err error) {
	logger := s.logger.With("userID", userID, "symbol", symbol)
	if shares <= 0 {
		return nil, stock.ErrSharesMustBePositive
	}
	quote, ok := s.oracle.Quotes()[symbol]
	if !ok {
		return nil, stock.ErrUnknownSymbol
	}
	totalCost := quote.Price.Mul(decimal.NewFromInt(shares))

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if !acct.CanAfford(totalCost) {
			return account.ErrInsufficientFunds
		}

		lots, err := uow.LotRepository()
		if err != nil {
			return err
		}
		lot := stock.NewLot(userID, symbol, shares, quote.Price, time.Now())
		if err = lots.Create(ctx, lot); err != nil {
			return fmt.Errorf("create lot: %w", err)
		}

		acct.Balance = acct.Balance.Sub(totalCost)
		if err = accounts.Update(ctx, acct); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		entry := ledger.New(userID, ledger.TypeStockBuy, totalCost,
			fmt.Sprintf("Bought %d shares of %s", shares, symbol))
		if err = txs.Create(ctx, entry); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}

		history, err := uow.PriceHistoryRepository()
		if err != nil {
			return err
		}
		if err = history.Append(ctx, symbol, quote.Price, quote.ChangePercent); err != nil {
			return fmt.Errorf("record price: %w", err)
		}

		result = &TradeResult{NewBalance: acct.Balance, Shares: shares, Price: quote.Price, Total: totalCost}
		return nil
	})
	if err != nil {
		logger.Error("stock buy failed", "error", err)
		return nil, err
	}
	logger.Info("stock bought", "shares", shares, "price", quote.Price, "cost", totalCost)
	return result, nil
}

// SellStock divests shares of symbol at the oracle's current price,
// consuming the user's lots strictly oldest-first. The aggregate holding is
// checked before any mutation; a shortfall fails the whole unit with
// stock.ErrInsufficientShares and leaves every lot untouched.
func (s *Service) SellStock(
	ctx context.Context,
	userID uuid.UUID,
	symbol string,
	shares int64,
) (result *TradeResult, err error) {
	logger := s.logger.With("userID", userID, "symbol", symbol)
	if shares <= 0 {
		return nil, stock.ErrSharesMustBePositive
	}
	quote, ok := s.oracle.Quotes()[symbol]
	if !ok {
		return nil, stock.ErrUnknownSymbol
	}
	totalValue := quote.Price.Mul(decimal.NewFromInt(shares))

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		lots, err := uow.LotRepository()
		if err != nil {
			return err
		}
		held, err := lots.ListBySymbolForUpdate(ctx, userID, symbol)
		if err != nil {
			return err
		}
		plan, err := stock.ConsumeFIFO(held, shares)
		if err != nil {
			return err
		}
		for _, c := range plan {
			if c.Delete {
				err = lots.Delete(ctx, c.LotID)
			} else {
				err = lots.UpdateShares(ctx, c.LotID, c.NewShares)
			}
			if err != nil {
				return fmt.Errorf("consume lot: %w", err)
			}
		}

		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		acct.Balance = acct.Balance.Add(totalValue)
		if err = accounts.Update(ctx, acct); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		entry := ledger.New(userID, ledger.TypeStockSell, totalValue,
			fmt.Sprintf("Sold %d shares of %s", shares, symbol))
		if err = txs.Create(ctx, entry); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}

		history, err := uow.PriceHistoryRepository()
		if err != nil {
			return err
		}
		if err = history.Append(ctx, symbol, quote.Price, quote.ChangePercent); err != nil {
			return fmt.Errorf("record price: %w", err)
		}

		result = &TradeResult{NewBalance: acct.Balance, Shares: shares, Price: quote.Price, Total: totalValue}
		return nil
	})
	if err != nil {
		logger.Error("stock sell failed", "error", err)
		return nil, err
	}
	logger.Info("stock sold", "shares", shares, "price", quote.Price, "value", totalValue)
	return result, nil
}

// GetPortfolio values the user's holdings against one oracle snapshot.
// AvgPrice is quantity-weighted across lots; the P&L math uses the exact
// summed cost basis, not shares times the rounded average.
func (s *Service) GetPortfolio(ctx context.Context, userID uuid.UUID) ([]Holding, error) {
	lotRepo, err := s.uow.LotRepository()
	if err != nil {
		return nil, err
	}
	lots, err := lotRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	quotes := s.oracle.Quotes()

	positions := stock.Positions(lots)
	holdings := make([]Holding, 0, len(positions))
	for _, p := range positions {
		currentPrice := decimal.Zero
		if q, ok := quotes[p.Symbol]; ok {
			currentPrice = q.Price
		}
		totalValue := decimal.NewFromInt(p.Shares).Mul(currentPrice)
		costBasis := p.CostBasis
		profitLoss := totalValue.Sub(costBasis)
		plPercent := decimal.Zero
		if !costBasis.IsZero() {
			plPercent = profitLoss.Div(costBasis).Mul(decimal.NewFromInt(100)).Round(2)
		}
		holdings = append(holdings, Holding{
			Symbol:            p.Symbol,
			Shares:            p.Shares,
			AvgPrice:          p.AvgPrice,
			CurrentPrice:      currentPrice,
			TotalValue:        totalValue.Round(2),
			ProfitLoss:        profitLoss.Round(2),
			ProfitLossPercent: plPercent,
		})
	}
	return holdings, nil
}
