// Package oracle provides the simulated market price feed. Prices are a
// pure function of the injected randomness source, not shared mutable
// state, so tests substitute a fixed source and become deterministic.
package oracle

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/provider"
)

// instrument is a tradeable symbol with its base price in whole currency units.
type instrument struct {
	name      string
	basePrice int64
}

// The fixed instrument universe. Quotes move around these base prices.
var instruments = map[string]instrument{
	"TECH":   {"TechCorp", 150},
	"BANK":   {"MegaBank", 85},
	"AUTO":   {"AutoDrive", 220},
	"FOOD":   {"FoodChain", 45},
	"PHARM":  {"PharmaCure", 180},
	"ENRG":   {"EnergyPlus", 92},
	"RETAIL": {"ShopMore", 68},
	"AERO":   {"SkyHigh", 315},
	"MEDIA":  {"MediaNet", 125},
	"CRYPTO": {"CryptoVault", 55},
}

// volatility bounds the per-quote move around the base price: ±5%.
const volatility = 0.05

// Simulated is a price oracle over the fixed instrument universe. It keeps
// no price history; each Quotes call draws a fresh uniform move within the
// volatility band for every symbol from the mutex-guarded source.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated oracle drawing from rng.
func NewSimulated(rng *rand.Rand) *Simulated {
	return &Simulated{rng: rng}
}

// Quotes returns a fresh price for every instrument. Prices and change
// percentages are rounded to two decimals. Draws happen in sorted symbol
// order, so a seeded source reproduces the same quotes.
func (s *Simulated) Quotes() map[string]provider.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbols := make([]string, 0, len(instruments))
	for symbol := range instruments {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	quotes := make(map[string]provider.Quote, len(instruments))
	for _, symbol := range symbols {
		inst := instruments[symbol]
		change := (s.rng.Float64() - 0.5) * 2 * volatility
		price := decimal.NewFromInt(inst.basePrice).
			Mul(decimal.NewFromFloat(1 + change)).
			Round(2)
		quotes[symbol] = provider.Quote{
			Symbol:        symbol,
			Name:          inst.name,
			Price:         price,
			ChangePercent: decimal.NewFromFloat(change * 100).Round(2),
		}
	}
	return quotes
}
