package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/loan"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type loanRepository struct {
	db *gorm.DB
}

// Create inserts a new loan row.
func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	row := Loan{
		ID:           l.ID,
		UserID:       l.UserID,
		Principal:    l.Principal,
		InterestRate: l.InterestRate,
		TotalAmount:  l.TotalAmount,
		AmountPaid:   l.AmountPaid,
		LoanType:     string(l.LoanType),
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
		DueDate:      l.DueDate,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// GetForUpdate reads the loan row under SELECT ... FOR UPDATE, scoped to the
// owning user so a caller can never touch another user's loan.
func (r *loanRepository) GetForUpdate(ctx context.Context, id, userID uuid.UUID) (*loan.Loan, error) {
	var row Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapLoan(&row), nil
}

// Update writes the repayment progress back. Only amount_paid and status
// ever change after origination.
func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	return r.db.WithContext(ctx).
		Model(&Loan{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"amount_paid": l.AmountPaid,
			"status":      string(l.Status),
		}).Error
}

// ListByUser returns the user's loans, newest first.
func (r *loanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*loan.Loan, error) {
	var rows []Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	loans := make([]*loan.Loan, 0, len(rows))
	for i := range rows {
		loans = append(loans, mapLoan(&rows[i]))
	}
	return loans, nil
}

// ActiveDebt sums the remaining amount owed across the user's active loans.
func (r *loanRepository) ActiveDebt(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var debt decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&Loan{}).
		Select("SUM(total_amount - amount_paid)").
		Where("user_id = ? AND status = ?", userID, string(loan.StatusActive)).
		Scan(&debt).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !debt.Valid {
		return decimal.Zero, nil
	}
	return debt.Decimal, nil
}

func mapLoan(row *Loan) *loan.Loan {
	return &loan.Loan{
		ID:           row.ID,
		UserID:       row.UserID,
		Principal:    row.Principal,
		InterestRate: row.InterestRate,
		TotalAmount:  row.TotalAmount,
		AmountPaid:   row.AmountPaid,
		LoanType:     loan.Type(row.LoanType),
		Status:       loan.Status(row.Status),
		CreatedAt:    row.CreatedAt,
		DueDate:      row.DueDate,
	}
}
