package stock_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagerdome/wagerdome/pkg/domain/stock"
)

func lotAt(userID uuid.UUID, symbol string, shares int64, price float64, minutesAgo int) *stock.Lot {
	at := time.Now().Add(-time.Duration(minutesAgo) * time.Minute)
	return stock.NewLot(userID, symbol, shares, decimal.NewFromFloat(price), at)
}

func TestConsumeFIFOSpansLots(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	userID := uuid.New()
	older := lotAt(userID, "TECH", 10, 100, 20)
	newer := lotAt(userID, "TECH", 5, 110, 10)

	plan, err := stock.ConsumeFIFO([]*stock.Lot{older, newer}, 12)
	require.NoError(err)
	require.Len(plan, 2)

	assert.Equal(older.ID, plan[0].LotID, "the oldest lot should be consumed first")
	assert.True(plan[0].Delete, "a fully consumed lot should be deleted")
	assert.Equal(newer.ID, plan[1].LotID)
	assert.False(plan[1].Delete)
	assert.Equal(int64(3), plan[1].NewShares, "the partially consumed lot should keep the remainder")
}

func TestConsumeFIFOExactLot(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	userID := uuid.New()
	older := lotAt(userID, "BANK", 10, 85, 20)
	newer := lotAt(userID, "BANK", 5, 90, 10)

	plan, err := stock.ConsumeFIFO([]*stock.Lot{older, newer}, 10)
	require.NoError(err)
	require.Len(plan, 1, "an exact-boundary sell should touch only the first lot")
	assert.Equal(older.ID, plan[0].LotID)
	assert.True(plan[0].Delete)
}

func TestConsumeFIFOInsufficientShares(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	userID := uuid.New()
	lots := []*stock.Lot{
		lotAt(userID, "AUTO", 10, 220, 20),
		lotAt(userID, "AUTO", 5, 225, 10),
	}
	plan, err := stock.ConsumeFIFO(lots, 16)
	require.ErrorIs(err, stock.ErrInsufficientShares)
	require.Nil(plan, "a failed sell should plan no mutations")
}

func TestConsumeFIFONonPositive(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	_, err := stock.ConsumeFIFO(nil, 0)
	require.ErrorIs(err, stock.ErrSharesMustBePositive)
	_, err = stock.ConsumeFIFO(nil, -3)
	require.ErrorIs(err, stock.ErrSharesMustBePositive)
}

func TestTotalShares(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	userID := uuid.New()
	lots := []*stock.Lot{
		lotAt(userID, "FOOD", 7, 45, 30),
		lotAt(userID, "FOOD", 3, 46, 10),
	}
	assert.Equal(int64(10), stock.TotalShares(lots))
	assert.Equal(int64(0), stock.TotalShares(nil))
}

func TestPositionsWeightedAverage(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	userID := uuid.New()
	lots := []*stock.Lot{
		lotAt(userID, "TECH", 10, 100, 30),
		lotAt(userID, "TECH", 5, 110, 10),
	}
	positions := stock.Positions(lots)
	require.Len(positions, 1)

	p := positions[0]
	assert.Equal("TECH", p.Symbol)
	assert.Equal(int64(15), p.Shares)
	// (10*100 + 5*110) / 15 = 1550/15
	want := decimal.NewFromInt(1550).Div(decimal.NewFromInt(15))
	assert.True(p.AvgPrice.Equal(want), "average should be weighted by shares, got %s", p.AvgPrice)
	assert.True(p.CostBasis.Equal(decimal.NewFromInt(1550)),
		"cost basis should be the exact lot sum, not shares times the bounded-precision average")
}

func TestPositionsMultipleSymbols(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	userID := uuid.New()
	lots := []*stock.Lot{
		lotAt(userID, "TECH", 10, 100, 30),
		lotAt(userID, "BANK", 4, 85, 20),
		lotAt(userID, "TECH", 5, 110, 10),
	}
	positions := stock.Positions(lots)
	require.Len(positions, 2)
	assert.Equal("TECH", positions[0].Symbol, "symbols should keep first-seen order")
	assert.Equal("BANK", positions[1].Symbol)
	assert.Equal(int64(4), positions[1].Shares)
	assert.True(positions[1].AvgPrice.Equal(decimal.NewFromInt(85)))
}
