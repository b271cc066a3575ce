package repository

import (
	"context"

	"github.com/wagerdome/wagerdome/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do share the transaction
// session, so an operation's reads and writes commit or roll back as a unit;
// outside Do they run against the plain connection for read paths.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UoW over the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// session is the transaction when inside Do, the base connection otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Do runs fn in a transaction boundary. Any error returned by fn rolls the
// whole transaction back; gorm also rolls back when the context is cancelled
// before commit, so a disconnecting caller never leaves a half-applied
// ledger state.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// AccountRepository returns the account repository bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{db: u.session()}, nil
}

// TransactionRepository returns the audit-trail repository bound to the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{db: u.session()}, nil
}

// LoanRepository returns the loan repository bound to the current session.
func (u *UoW) LoanRepository() (repository.LoanRepository, error) {
	return &loanRepository{db: u.session()}, nil
}

// LotRepository returns the stock-lot repository bound to the current session.
func (u *UoW) LotRepository() (repository.LotRepository, error) {
	return &lotRepository{db: u.session()}, nil
}

// GameRepository returns the game repository bound to the current session.
func (u *UoW) GameRepository() (repository.GameRepository, error) {
	return &gameRepository{db: u.session()}, nil
}

// PriceHistoryRepository returns the price-history repository bound to the current session.
func (u *UoW) PriceHistoryRepository() (repository.PriceHistoryRepository, error) {
	return &priceHistoryRepository{db: u.session()}, nil
}
