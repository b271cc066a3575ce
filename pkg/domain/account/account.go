// Package account holds the per-user financial state: the single cash
// balance every operation family mutates, and the credit score that drives
// loan pricing.
package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/common"
)

var (
	// ErrUserNotFound is returned when no account exists for the given user.
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientFunds is returned when an operation would drive the
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Credit score bounds. Increases are clamped at MaxCreditScore; decreases are
// not floored, matching observed platform behavior.
const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

// Account is the aggregate of a user's cash balance and credit score.
// Invariants:
//   - Balance never goes negative as the result of a committed operation.
//   - CreditScore never exceeds MaxCreditScore.
type Account struct {
	UserID      uuid.UUID
	Balance     decimal.Decimal
	CreditScore int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New returns an account for userID with the given opening balance and a
// starting credit score.
func New(userID uuid.UUID, balance decimal.Decimal, creditScore int) *Account {
	return &Account{
		UserID:      userID,
		Balance:     balance,
		CreditScore: creditScore,
		CreatedAt:   time.Now(),
	}
}

// CanAfford reports whether amount can be debited without the balance going
// negative.
func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(a.Balance)
}

// Debit subtracts amount from the balance. It fails before mutating when the
// amount is not positive or exceeds the balance.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return common.ErrAmountMustBePositive
	}
	if !a.CanAfford(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return common.ErrAmountMustBePositive
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// AdjustCreditScore moves the credit score by delta, clamping increases at
// MaxCreditScore. Decreases are intentionally unfloored.
func (a *Account) AdjustCreditScore(delta int) {
	score := a.CreditScore + delta
	if score > MaxCreditScore {
		score = MaxCreditScore
	}
	a.CreditScore = score
}
