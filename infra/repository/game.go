package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gameRepository struct {
	db *gorm.DB
}

// CreateSession appends a wager session record.
func (r *gameRepository) CreateSession(ctx context.Context, s *game.Session) error {
	row := GameSession{
		ID:        s.ID,
		UserID:    s.UserID,
		GameType:  string(s.GameType),
		BetAmount: s.BetAmount,
		Result:    string(s.Result),
		Payout:    s.Payout,
		Details:   s.Details,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// UpsertStat increments the (user, gameType) tally, inserting the row on
// first play. The increments run in SQL so concurrent settlements compose.
func (r *gameRepository) UpsertStat(ctx context.Context, userID uuid.UUID, gameType game.Type, wagered, wonDelta decimal.Decimal) error {
	row := GameStat{
		UserID:       userID,
		GameType:     string(gameType),
		TotalWagered: wagered,
		TotalWon:     wonDelta,
		GamesPlayed:  1,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "game_type"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_wagered": gorm.Expr("game_stats.total_wagered + ?", wagered),
				"total_won":     gorm.Expr("game_stats.total_won + ?", wonDelta),
				"games_played":  gorm.Expr("game_stats.games_played + 1"),
			}),
		}).
		Create(&row).Error
}

// ListStats returns the user's per-game tallies.
func (r *gameRepository) ListStats(ctx context.Context, userID uuid.UUID) ([]*game.Stat, error) {
	var rows []GameStat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := make([]*game.Stat, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		stats = append(stats, &game.Stat{
			UserID:       row.UserID,
			GameType:     game.Type(row.GameType),
			TotalWagered: row.TotalWagered,
			TotalWon:     row.TotalWon,
			GamesPlayed:  row.GamesPlayed,
		})
	}
	return stats, nil
}
