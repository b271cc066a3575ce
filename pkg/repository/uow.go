package repository

import "context"

// UnitOfWork is the transaction boundary of every accounting operation.
//
// Do executes fn inside a single storage transaction: repositories obtained
// from the UnitOfWork passed to fn share that transaction, so either all of
// an operation's reads and writes commit or none do. Any error returned by
// fn, including validation failures discovered mid-unit, rolls the whole
// unit back. Callers never see a partially-applied ledger state, even when
// the request context is cancelled before commit.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	LoanRepository() (LoanRepository, error)
	LotRepository() (LotRepository, error)
	GameRepository() (GameRepository, error)
	PriceHistoryRepository() (PriceHistoryRepository, error)
}
