// Package game models wager settlement inputs and the per-game statistics
// kept for each user.
package game

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidGameType is returned when the game type is not in the supported set.
var ErrInvalidGameType = errors.New("invalid game type")

// Type identifies one of the supported games of chance.
type Type string

const (
	TypeSlots     Type = "slots"
	TypeRoulette  Type = "roulette"
	TypeBlackjack Type = "blackjack"
	TypePoker     Type = "poker"
)

// Outcome is the result of a settled wager.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// ValidType reports whether t is a supported game type.
func ValidType(t Type) bool {
	switch t {
	case TypeSlots, TypeRoulette, TypeBlackjack, TypePoker:
		return true
	}
	return false
}

// Session records a single settled wager, including the opaque details
// payload supplied by the game client. Details is stored verbatim and never
// interpreted by the core.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	GameType  Type
	BetAmount decimal.Decimal
	Result    Outcome
	Payout    decimal.Decimal
	Details   []byte
	CreatedAt time.Time
}

// Stat is the incrementally maintained per-(user, game type) tally.
type Stat struct {
	UserID       uuid.UUID
	GameType     Type
	TotalWagered decimal.Decimal
	TotalWon     decimal.Decimal
	GamesPlayed  int64
}
