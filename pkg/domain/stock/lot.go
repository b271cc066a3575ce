// Package stock implements FIFO lot accounting. Each buy creates a discrete
// lot carrying its own cost basis; sells consume lots strictly oldest-first,
// which makes realized P&L deterministic and auditable. A user's holding of
// a symbol is always the sum over lots, never a separately tracked total.
package stock

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientShares is returned when a sell exceeds the aggregate
	// holding across lots.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrUnknownSymbol is returned when a symbol is not a tradeable instrument.
	ErrUnknownSymbol = errors.New("unknown stock symbol")

	// ErrSharesMustBePositive is returned when a share count is zero or negative.
	ErrSharesMustBePositive = errors.New("shares must be positive")
)

// Lot is one purchase batch of shares, the unit of FIFO consumption.
type Lot struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Symbol        string
	Shares        int64
	PurchasePrice decimal.Decimal
	PurchasedAt   time.Time
}

// NewLot creates a lot for a buy of shares at price.
func NewLot(userID uuid.UUID, symbol string, shares int64, price decimal.Decimal, at time.Time) *Lot {
	return &Lot{
		ID:            uuid.New(),
		UserID:        userID,
		Symbol:        symbol,
		Shares:        shares,
		PurchasePrice: price,
		PurchasedAt:   at,
	}
}

// Consumption describes the mutation a sell applies to one lot: either the
// lot is deleted outright or its share count is reduced.
type Consumption struct {
	LotID     uuid.UUID
	Delete    bool
	NewShares int64
}

// TotalShares sums the shares across lots.
func TotalShares(lots []*Lot) int64 {
	var total int64
	for _, l := range lots {
		total += l.Shares
	}
	return total
}

// ConsumeFIFO plans the lot mutations for a sell of shares. Lots must be
// ordered ascending by purchase time; the walk deletes whole lots until the
// final partially consumed one, which is decremented. Fails with
// ErrInsufficientShares, planning nothing, when the aggregate holding is too
// small.
func ConsumeFIFO(lots []*Lot, shares int64) ([]Consumption, error) {
	if shares <= 0 {
		return nil, ErrSharesMustBePositive
	}
	if TotalShares(lots) < shares {
		return nil, ErrInsufficientShares
	}
	var plan []Consumption
	remaining := shares
	for _, l := range lots {
		if remaining <= 0 {
			break
		}
		if l.Shares <= remaining {
			plan = append(plan, Consumption{LotID: l.ID, Delete: true})
			remaining -= l.Shares
		} else {
			plan = append(plan, Consumption{LotID: l.ID, NewShares: l.Shares - remaining})
			remaining = 0
		}
	}
	return plan, nil
}

// Position is the aggregate view of one symbol across a user's lots.
// CostBasis is the exact sum of lot cost bases; AvgPrice is CostBasis divided
// by Shares at bounded precision, so callers needing exact money use
// CostBasis rather than recomputing it from the average.
type Position struct {
	Symbol    string
	Shares    int64
	AvgPrice  decimal.Decimal
	CostBasis decimal.Decimal
}

// Positions groups lots by symbol, carrying the quantity-weighted average
// purchase price alongside the exact cost basis.
func Positions(lots []*Lot) []Position {
	type agg struct {
		shares int64
		cost   decimal.Decimal
	}
	bySymbol := make(map[string]*agg)
	var order []string
	for _, l := range lots {
		a, ok := bySymbol[l.Symbol]
		if !ok {
			a = &agg{cost: decimal.Zero}
			bySymbol[l.Symbol] = a
			order = append(order, l.Symbol)
		}
		a.shares += l.Shares
		a.cost = a.cost.Add(l.PurchasePrice.Mul(decimal.NewFromInt(l.Shares)))
	}
	positions := make([]Position, 0, len(order))
	for _, sym := range order {
		a := bySymbol[sym]
		avg := decimal.Zero
		if a.shares > 0 {
			avg = a.cost.Div(decimal.NewFromInt(a.shares))
		}
		positions = append(positions, Position{Symbol: sym, Shares: a.shares, AvgPrice: avg, CostBasis: a.cost})
	}
	return positions
}
