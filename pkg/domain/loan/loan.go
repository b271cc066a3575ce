// Package loan implements the credit and lending rules: interest pricing as
// a step function of credit score, due-date policy by loan type, and the
// repayment lifecycle with its terminal paid state.
package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/common"
)

var (
	// ErrLoanNotFound is returned when a loan does not exist or belongs to
	// another user.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrOverpayment is returned when a repayment exceeds the remaining
	// amount owed on the loan.
	ErrOverpayment = errors.New("amount exceeds remaining loan balance")

	// ErrInvalidLoanType is returned when the loan type is not supported.
	ErrInvalidLoanType = errors.New("invalid loan type")
)

// Type selects the repayment horizon of a loan.
type Type string

const (
	TypeQuick    Type = "quick"
	TypeStandard Type = "standard"
	TypeExtended Type = "extended"
)

// Status is the lifecycle state of a loan. Paid is terminal.
type Status string

const (
	StatusActive Status = "active"
	StatusPaid   Status = "paid"
)

// Credit score effects of lending operations.
const (
	BorrowPenalty = 10 // score decrease on origination
	RepayBonus    = 5  // score increase per partial repayment
	PayoffBonus   = 20 // score increase when a loan is fully repaid
)

// ValidType reports whether t is a supported loan type.
func ValidType(t Type) bool {
	switch t {
	case TypeQuick, TypeStandard, TypeExtended:
		return true
	}
	return false
}

// RateFor prices a loan from the borrower's credit score. Rates are whole
// percentages on a step function with no interpolation.
func RateFor(creditScore int) int {
	switch {
	case creditScore >= 750:
		return 5
	case creditScore >= 700:
		return 8
	case creditScore >= 650:
		return 12
	case creditScore >= 600:
		return 15
	default:
		return 20
	}
}

// DueDate returns the repayment deadline for a loan of type t created at now.
func DueDate(t Type, now time.Time) time.Time {
	switch t {
	case TypeQuick:
		return now.AddDate(0, 0, 7)
	case TypeStandard:
		return now.AddDate(0, 1, 0)
	default:
		return now.AddDate(0, 6, 0)
	}
}

// TotalAmount computes principal plus interest at ratePercent, rounded to
// two decimal places.
func TotalAmount(principal decimal.Decimal, ratePercent int) decimal.Decimal {
	rate := decimal.NewFromInt(int64(ratePercent)).Div(decimal.NewFromInt(100))
	return principal.Mul(decimal.NewFromInt(1).Add(rate)).Round(2)
}

// Loan is a single credit facility. AmountPaid never exceeds TotalAmount,
// and once Status becomes paid it never reverts.
type Loan struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Principal    decimal.Decimal
	InterestRate int
	TotalAmount  decimal.Decimal
	AmountPaid   decimal.Decimal
	LoanType     Type
	Status       Status
	CreatedAt    time.Time
	DueDate      time.Time
}

// Originate creates an active loan for userID, pricing it from creditScore.
func Originate(userID uuid.UUID, principal decimal.Decimal, loanType Type, creditScore int, now time.Time) *Loan {
	rate := RateFor(creditScore)
	return &Loan{
		ID:           uuid.New(),
		UserID:       userID,
		Principal:    principal,
		InterestRate: rate,
		TotalAmount:  TotalAmount(principal, rate),
		AmountPaid:   decimal.Zero,
		LoanType:     loanType,
		Status:       StatusActive,
		CreatedAt:    now,
		DueDate:      DueDate(loanType, now),
	}
}

// Remaining is the amount still owed.
func (l *Loan) Remaining() decimal.Decimal {
	return l.TotalAmount.Sub(l.AmountPaid)
}

// ApplyPayment records a repayment of amount and reports whether the loan
// became paid by this call. It fails without mutating when amount exceeds
// the remaining balance.
func (l *Loan) ApplyPayment(amount decimal.Decimal) (paidOff bool, err error) {
	if !amount.IsPositive() {
		return false, common.ErrAmountMustBePositive
	}
	if amount.GreaterThan(l.Remaining()) {
		return false, ErrOverpayment
	}
	l.AmountPaid = l.AmountPaid.Add(amount)
	if l.AmountPaid.GreaterThanOrEqual(l.TotalAmount) {
		l.Status = StatusPaid
		return true, nil
	}
	return false, nil
}
