// Package wager provides business logic for settling bets against the user's
// cash balance and maintaining per-game statistics. Every settlement runs in
// a single transaction boundary: balance update, game session record,
// statistic increment and audit entry commit together or not at all.
package wager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/account"
	"github.com/wagerdome/wagerdome/pkg/domain/common"
	"github.com/wagerdome/wagerdome/pkg/domain/game"
	"github.com/wagerdome/wagerdome/pkg/domain/ledger"
	"github.com/wagerdome/wagerdome/pkg/repository"
)

// Defaults are the opening balance and credit score of a lazily provisioned
// account. Token issuance happens at the auth collaborator, so the first
// authenticated balance query is where a new user's account comes to exist.
type Defaults struct {
	StartingBalance     decimal.Decimal
	StartingCreditScore int
}

// Service settles wagers and answers balance and statistics queries.
type Service struct {
	uow      repository.UnitOfWork
	defaults Defaults
	logger   *slog.Logger
}

// NewService creates a wager settlement service.
func NewService(uow repository.UnitOfWork, defaults Defaults, logger *slog.Logger) *Service {
	return &Service{uow: uow, defaults: defaults, logger: logger}
}

// Settlement is the result of a settled wager.
type Settlement struct {
	NewBalance decimal.Decimal
	Result     game.Outcome
	Payout     decimal.Decimal
}

// Balance is the user's cash balance together with the credit score shown
// alongside it.
type Balance struct {
	Balance     decimal.Decimal
	CreditScore int
}

// SettleWager applies the outcome of a bet to the user's balance.
//
// The bet amount must be positive and covered by the current balance; the
// check happens before any mutation and a shortfall fails the whole unit with
// account.ErrInsufficientFunds. On a loss the payout is treated as zero.
// Details is an opaque payload recorded verbatim with the game session.
func (s *Service) SettleWager(
	ctx context.Context,
	userID uuid.UUID,
	gameType game.Type,
	betAmount decimal.Decimal,
	result game.Outcome,
	payout decimal.Decimal,
	details []byte,
) (settlement *Settlement, err error) {
	logger := s.logger.With("userID", userID, "gameType", gameType, "result", result)
	if !game.ValidType(gameType) {
		return nil, game.ErrInvalidGameType
	}
	if !betAmount.IsPositive() {
		return nil, common.ErrAmountMustBePositive
	}
	if result != game.OutcomeWin {
		payout = decimal.Zero
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if !acct.CanAfford(betAmount) {
			return account.ErrInsufficientFunds
		}
		acct.Balance = acct.Balance.Sub(betAmount).Add(payout)
		if err = accounts.Update(ctx, acct); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		games, err := uow.GameRepository()
		if err != nil {
			return err
		}
		session := &game.Session{
			ID:        uuid.New(),
			UserID:    userID,
			GameType:  gameType,
			BetAmount: betAmount,
			Result:    result,
			Payout:    payout,
			Details:   details,
		}
		if err = games.CreateSession(ctx, session); err != nil {
			return fmt.Errorf("record game session: %w", err)
		}

		wonDelta := decimal.Zero
		if result == game.OutcomeWin {
			wonDelta = payout.Sub(betAmount)
		}
		if err = games.UpsertStat(ctx, userID, gameType, betAmount, wonDelta); err != nil {
			return fmt.Errorf("update game stats: %w", err)
		}

		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txType := ledger.TypeLoss
		txAmount := betAmount
		if result == game.OutcomeWin {
			txType = ledger.TypeWin
			txAmount = payout.Sub(betAmount)
		}
		entry := ledger.New(userID, txType, txAmount, fmt.Sprintf("%s - %s", gameType, result))
		if err = txs.Create(ctx, entry); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}

		settlement = &Settlement{NewBalance: acct.Balance, Result: result, Payout: payout}
		return nil
	})
	if err != nil {
		logger.Error("wager settlement failed", "error", err)
		return nil, err
	}
	logger.Info("wager settled", "bet", betAmount, "payout", payout, "newBalance", settlement.NewBalance)
	return settlement, nil
}

// GetBalance returns the user's balance and credit score. A user seen for the
// first time gets an account with the configured starting balance and credit
// score; the token was already verified, so existence of the caller is given.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err := accounts.Get(ctx, userID)
	if errors.Is(err, account.ErrUserNotFound) {
		return s.provisionAccount(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return &Balance{Balance: acct.Balance, CreditScore: acct.CreditScore}, nil
}

func (s *Service) provisionAccount(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	acct := account.New(userID, s.defaults.StartingBalance, s.defaults.StartingCreditScore)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return accounts.Create(ctx, acct)
	})
	if err != nil {
		// Two first requests can race here; the loser's insert hits the
		// primary key. The row the winner committed is the answer then.
		if accounts, repoErr := s.uow.AccountRepository(); repoErr == nil {
			if existing, getErr := accounts.Get(ctx, userID); getErr == nil {
				return &Balance{Balance: existing.Balance, CreditScore: existing.CreditScore}, nil
			}
		}
		return nil, fmt.Errorf("provision account: %w", err)
	}
	s.logger.Info("account provisioned", "userID", userID,
		"balance", acct.Balance, "creditScore", acct.CreditScore)
	return &Balance{Balance: acct.Balance, CreditScore: acct.CreditScore}, nil
}

// GetGameStats returns the user's per-game statistics keyed by game type.
func (s *Service) GetGameStats(ctx context.Context, userID uuid.UUID) (map[game.Type]*game.Stat, error) {
	games, err := s.uow.GameRepository()
	if err != nil {
		return nil, err
	}
	stats, err := games.ListStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType := make(map[game.Type]*game.Stat, len(stats))
	for _, st := range stats {
		byType[st.GameType] = st
	}
	return byType, nil
}
