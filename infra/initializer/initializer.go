// Package initializer wires the application dependencies: ledger store,
// unit of work, price oracle, notifier and the three accounting services.
package initializer

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/infra/notifier"
	"github.com/wagerdome/wagerdome/infra/oracle"
	infrarepo "github.com/wagerdome/wagerdome/infra/repository"
	"github.com/wagerdome/wagerdome/pkg/config"
	"github.com/wagerdome/wagerdome/pkg/provider"
	"github.com/wagerdome/wagerdome/pkg/repository"
	"github.com/wagerdome/wagerdome/pkg/service/lending"
	"github.com/wagerdome/wagerdome/pkg/service/portfolio"
	"github.com/wagerdome/wagerdome/pkg/service/wager"
)

// Deps holds the initialized application dependencies.
type Deps struct {
	Config    *config.AppConfig
	Logger    *slog.Logger
	Uow       repository.UnitOfWork
	Oracle    provider.PriceOracle
	Notifier  provider.Notifier
	Wager     *wager.Service
	Lending   *lending.Service
	Portfolio *portfolio.Service
}

// InitializeDependencies builds the full dependency graph from configuration.
func InitializeDependencies(cfg *config.AppConfig) (*Deps, error) {
	logger := setupLogger(cfg.Log)

	db, err := infrarepo.NewDBConnection(cfg.DB.Url, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("connect ledger store: %w", err)
	}

	uow := infrarepo.NewUoW(db)
	priceOracle := oracle.NewSimulated(rand.New(rand.NewSource(time.Now().UnixNano())))
	notify := notifier.NewLog(logger)
	defaults := wager.Defaults{
		StartingBalance:     decimal.NewFromFloat(cfg.Account.StartingBalance),
		StartingCreditScore: cfg.Account.StartingCreditScore,
	}

	return &Deps{
		Config:    cfg,
		Logger:    logger,
		Uow:       uow,
		Oracle:    priceOracle,
		Notifier:  notify,
		Wager:     wager.NewService(uow, defaults, logger),
		Lending:   lending.NewService(uow, notify, logger),
		Portfolio: portfolio.NewService(uow, priceOracle, logger),
	}, nil
}
