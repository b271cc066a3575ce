package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wagerdome/wagerdome/pkg/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type lotRepository struct {
	db *gorm.DB
}

// Create inserts a new lot row.
func (r *lotRepository) Create(ctx context.Context, l *stock.Lot) error {
	row := StockLot{
		ID:            l.ID,
		UserID:        l.UserID,
		Symbol:        l.Symbol,
		Shares:        l.Shares,
		PurchasePrice: l.PurchasePrice,
		PurchasedAt:   l.PurchasedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListBySymbolForUpdate returns the user's lots for symbol in FIFO order
// (purchased_at ascending, id as tie-break), locked for update so a
// concurrent sell serializes behind this one.
func (r *lotRepository) ListBySymbolForUpdate(ctx context.Context, userID uuid.UUID, symbol string) ([]*stock.Lot, error) {
	var rows []StockLot
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Order("purchased_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapLots(rows), nil
}

// ListByUser returns all of the user's lots in FIFO order.
func (r *lotRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*stock.Lot, error) {
	var rows []StockLot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapLots(rows), nil
}

// UpdateShares decrements a partially consumed lot to its new share count.
func (r *lotRepository) UpdateShares(ctx context.Context, id uuid.UUID, shares int64) error {
	return r.db.WithContext(ctx).
		Model(&StockLot{}).
		Where("id = ?", id).
		Update("shares", shares).Error
}

// Delete removes a fully consumed lot.
func (r *lotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&StockLot{}, "id = ?", id).Error
}

func mapLots(rows []StockLot) []*stock.Lot {
	lots := make([]*stock.Lot, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		lots = append(lots, &stock.Lot{
			ID:            row.ID,
			UserID:        row.UserID,
			Symbol:        row.Symbol,
			Shares:        row.Shares,
			PurchasePrice: row.PurchasePrice,
			PurchasedAt:   row.PurchasedAt,
		})
	}
	return lots
}
