// Package ledger defines the immutable audit trail. Every balance-changing
// operation appends exactly one Transaction whose amount and type are
// consistent with the balance delta; entries are never updated or removed.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies the operation that produced a ledger entry.
type TransactionType string

const (
	TypeWin         TransactionType = "win"
	TypeLoss        TransactionType = "loss"
	TypeLoan        TransactionType = "loan"
	TypeLoanPayment TransactionType = "loan_payment"
	TypeStockBuy    TransactionType = "stock_buy"
	TypeStockSell   TransactionType = "stock_sell"
)

// Transaction is a single append-only audit record. The balance itself is
// stored on the account, not derived from these entries.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// New builds a transaction record for userID with a fresh ID.
func New(userID uuid.UUID, txType TransactionType, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
}
