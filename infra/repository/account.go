package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wagerdome/wagerdome/pkg/domain/account"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// Create inserts a new account row.
func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	row := Account{
		UserID:      a.UserID,
		Balance:     a.Balance,
		CreditScore: a.CreditScore,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// Get reads the account for userID.
func (r *accountRepository) Get(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	var row Account
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapAccount(&row), nil
}

// GetForUpdate reads the account row under SELECT ... FOR UPDATE so the
// read-decide-write sequence of the enclosing transaction cannot race a
// concurrent operation on the same user.
func (r *accountRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	var row Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapAccount(&row), nil
}

// Update writes the balance and credit score back.
func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("user_id = ?", a.UserID).
		Updates(map[string]any{
			"balance":      a.Balance,
			"credit_score": a.CreditScore,
		}).Error
}

func mapAccount(row *Account) *account.Account {
	return &account.Account{
		UserID:      row.UserID,
		Balance:     row.Balance,
		CreditScore: row.CreditScore,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
