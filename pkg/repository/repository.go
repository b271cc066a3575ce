// Package repository defines the persistence contracts of the accounting
// core. Implementations live in infra/repository; services depend only on
// these interfaces so tests can substitute in-memory fixtures.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/account"
	"github.com/wagerdome/wagerdome/pkg/domain/game"
	"github.com/wagerdome/wagerdome/pkg/domain/ledger"
	"github.com/wagerdome/wagerdome/pkg/domain/loan"
	"github.com/wagerdome/wagerdome/pkg/domain/stock"
)

// AccountRepository persists per-user balance and credit score.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, userID uuid.UUID) (*account.Account, error)
	// GetForUpdate reads the account under a row-level write lock, so a
	// concurrent operation on the same user serializes behind this one
	// until the enclosing transaction commits.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*account.Account, error)
	Update(ctx context.Context, a *account.Account) error
}

// TransactionRepository appends to the immutable audit trail.
type TransactionRepository interface {
	Create(ctx context.Context, tx *ledger.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error)
}

// LoanRepository persists the loan ledger.
type LoanRepository interface {
	Create(ctx context.Context, l *loan.Loan) error
	// GetForUpdate reads the loan under a row-level write lock, returning
	// loan.ErrLoanNotFound when the loan does not exist or belongs to a
	// different user.
	GetForUpdate(ctx context.Context, id, userID uuid.UUID) (*loan.Loan, error)
	Update(ctx context.Context, l *loan.Loan) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*loan.Loan, error)
	// ActiveDebt sums totalAmount - amountPaid over the user's active loans.
	ActiveDebt(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// LotRepository persists stock lots, the unit of FIFO consumption.
type LotRepository interface {
	Create(ctx context.Context, l *stock.Lot) error
	// ListBySymbolForUpdate returns the user's lots for symbol ordered
	// ascending by purchase time (id as tie-break), locked for update.
	ListBySymbolForUpdate(ctx context.Context, userID uuid.UUID, symbol string) ([]*stock.Lot, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*stock.Lot, error)
	UpdateShares(ctx context.Context, id uuid.UUID, shares int64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GameRepository persists wager sessions and per-game statistics.
type GameRepository interface {
	CreateSession(ctx context.Context, s *game.Session) error
	// UpsertStat increments the (user, gameType) tally by one played game,
	// wagered stake and net winnings delta, inserting the row when absent.
	UpsertStat(ctx context.Context, userID uuid.UUID, gameType game.Type, wagered, wonDelta decimal.Decimal) error
	ListStats(ctx context.Context, userID uuid.UUID) ([]*game.Stat, error)
}

// PriceHistoryRepository appends the quote used by a completed trade.
type PriceHistoryRepository interface {
	Append(ctx context.Context, symbol string, price, changePercent decimal.Decimal) error
}
