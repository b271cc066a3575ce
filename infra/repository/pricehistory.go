package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type priceHistoryRepository struct {
	db *gorm.DB
}

// Append records the quote a completed trade executed at.
func (r *priceHistoryRepository) Append(ctx context.Context, symbol string, price, changePercent decimal.Decimal) error {
	row := StockPrice{
		Symbol:        symbol,
		Price:         price,
		ChangePercent: changePercent,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}
