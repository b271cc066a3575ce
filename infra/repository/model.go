package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the per-user financial state row.
type Account struct {
	UserID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Balance     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	CreditScore int             `gorm:"not null;default:700"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction is an append-only audit row. Rows are never updated or deleted.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type        string          `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Description string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// Loan is a row in the loan ledger.
type Loan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Principal    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	InterestRate int             `gorm:"not null"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	AmountPaid   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	LoanType     string          `gorm:"type:varchar(16);not null"`
	Status       string          `gorm:"type:varchar(10);not null;default:'active'"`
	CreatedAt    time.Time
	DueDate      time.Time
}

// TableName specifies the table name for the Loan model.
func (Loan) TableName() string {
	return "loans"
}

// StockLot is one purchase batch of shares; FIFO consumption orders by
// (purchased_at, id).
type StockLot struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;index:idx_lots_user_symbol;not null"`
	Symbol        string          `gorm:"type:varchar(12);index:idx_lots_user_symbol;not null"`
	Shares        int64           `gorm:"not null"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	PurchasedAt   time.Time       `gorm:"not null"`
}

// TableName specifies the table name for the StockLot model.
func (StockLot) TableName() string {
	return "stock_lots"
}

// GameSession records one settled wager with its opaque details payload.
type GameSession struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	GameType  string          `gorm:"type:varchar(16);not null"`
	BetAmount decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Result    string          `gorm:"type:varchar(8);not null"`
	Payout    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Details   []byte          `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// TableName specifies the table name for the GameSession model.
func (GameSession) TableName() string {
	return "game_sessions"
}

// GameStat is the per-(user, game type) tally, incrementally upserted.
type GameStat struct {
	UserID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GameType     string          `gorm:"type:varchar(16);primaryKey"`
	TotalWagered decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	TotalWon     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	GamesPlayed  int64           `gorm:"not null;default:0"`
}

// TableName specifies the table name for the GameStat model.
func (GameStat) TableName() string {
	return "game_stats"
}

// StockPrice is a historical quote appended by every completed trade.
type StockPrice struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Symbol        string          `gorm:"type:varchar(12);index;not null"`
	Price         decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	ChangePercent decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	CreatedAt     time.Time
}

// TableName specifies the table name for the StockPrice model.
func (StockPrice) TableName() string {
	return "stock_prices"
}
