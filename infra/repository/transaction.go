package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wagerdome/wagerdome/pkg/domain/ledger"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// Create appends an audit record. There is no update or delete path; the
// trail is append-only by construction.
func (r *transactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	row := Transaction{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Description: tx.Description,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListByUser returns the user's audit records, newest first.
func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error) {
	var rows []Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	txs := make([]*ledger.Transaction, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		txs = append(txs, &ledger.Transaction{
			ID:          row.ID,
			UserID:      row.UserID,
			Type:        ledger.TransactionType(row.Type),
			Amount:      row.Amount,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		})
	}
	return txs, nil
}
