// Package fixtures provides an in-memory UnitOfWork for service tests. It
// honors the transaction contract: state is snapshotted on entry to Do and
// restored when the unit fails, so rollback behavior is testable without a
// database.
package fixtures

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/account"
	"github.com/wagerdome/wagerdome/pkg/domain/game"
	"github.com/wagerdome/wagerdome/pkg/domain/ledger"
	"github.com/wagerdome/wagerdome/pkg/domain/loan"
	"github.com/wagerdome/wagerdome/pkg/domain/stock"
	"github.com/wagerdome/wagerdome/pkg/repository"
)

// StatKey identifies one (user, game type) statistic row.
type StatKey struct {
	UserID   uuid.UUID
	GameType game.Type
}

// PriceRow is one recorded price-history entry.
type PriceRow struct {
	Symbol        string
	Price         decimal.Decimal
	ChangePercent decimal.Decimal
}

// MemoryUoW is an in-memory UnitOfWork and backing store in one.
type MemoryUoW struct {
	mu sync.Mutex

	Accounts     map[uuid.UUID]*account.Account
	Transactions []*ledger.Transaction
	Loans        map[uuid.UUID]*loan.Loan
	Lots         []*stock.Lot
	Sessions     []*game.Session
	Stats        map[StatKey]*game.Stat
	Prices       []PriceRow

	// FailCreateTransaction, when set, makes the next audit-trail append
	// fail, simulating a storage fault mid-unit.
	FailCreateTransaction error

	// AccountMissOnce makes the next account read report not found even
	// though the row exists, simulating a reader racing a concurrent insert
	// that commits right after the read.
	AccountMissOnce bool
}

// NewMemoryUoW creates an empty in-memory store.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{
		Accounts: make(map[uuid.UUID]*account.Account),
		Loans:    make(map[uuid.UUID]*loan.Loan),
		Stats:    make(map[StatKey]*game.Stat),
	}
}

// SeedAccount inserts an account with the given balance and credit score.
func (m *MemoryUoW) SeedAccount(userID uuid.UUID, balance decimal.Decimal, creditScore int) {
	m.Accounts[userID] = account.New(userID, balance, creditScore)
}

// Do runs fn against a snapshot-protected store: if fn fails, every mutation
// it made is discarded.
func (m *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.clone()
	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *MemoryUoW) clone() *MemoryUoW {
	c := NewMemoryUoW()
	for k, v := range m.Accounts {
		a := *v
		c.Accounts[k] = &a
	}
	for _, tx := range m.Transactions {
		t := *tx
		c.Transactions = append(c.Transactions, &t)
	}
	for k, v := range m.Loans {
		l := *v
		c.Loans[k] = &l
	}
	for _, lot := range m.Lots {
		l := *lot
		c.Lots = append(c.Lots, &l)
	}
	for _, s := range m.Sessions {
		sess := *s
		c.Sessions = append(c.Sessions, &sess)
	}
	for k, v := range m.Stats {
		st := *v
		c.Stats[k] = &st
	}
	c.Prices = append(c.Prices, m.Prices...)
	return c
}

func (m *MemoryUoW) restore(s *MemoryUoW) {
	m.Accounts = s.Accounts
	m.Transactions = s.Transactions
	m.Loans = s.Loans
	m.Lots = s.Lots
	m.Sessions = s.Sessions
	m.Stats = s.Stats
	m.Prices = s.Prices
}

// AccountRepository implements repository.UnitOfWork.
func (m *MemoryUoW) AccountRepository() (repository.AccountRepository, error) {
	return (*memAccounts)(m), nil
}

// TransactionRepository implements repository.UnitOfWork.
func (m *MemoryUoW) TransactionRepository() (repository.TransactionRepository, error) {
	return (*memTransactions)(m), nil
}

// LoanRepository implements repository.UnitOfWork.
func (m *MemoryUoW) LoanRepository() (repository.LoanRepository, error) {
	return (*memLoans)(m), nil
}

// LotRepository implements repository.UnitOfWork.
func (m *MemoryUoW) LotRepository() (repository.LotRepository, error) {
	return (*memLots)(m), nil
}

// GameRepository implements repository.UnitOfWork.
func (m *MemoryUoW) GameRepository() (repository.GameRepository, error) {
	return (*memGames)(m), nil
}

// PriceHistoryRepository implements repository.UnitOfWork.
func (m *MemoryUoW) PriceHistoryRepository() (repository.PriceHistoryRepository, error) {
	return (*memPrices)(m), nil
}

type memAccounts MemoryUoW

// errDuplicateAccount mimics the unique-constraint violation an insert on an
// existing primary key raises.
var errDuplicateAccount = errors.New("duplicate key value violates unique constraint")

func (r *memAccounts) Create(_ context.Context, a *account.Account) error {
	if _, ok := r.Accounts[a.UserID]; ok {
		return errDuplicateAccount
	}
	cp := *a
	r.Accounts[a.UserID] = &cp
	return nil
}

func (r *memAccounts) Get(_ context.Context, userID uuid.UUID) (*account.Account, error) {
	if r.AccountMissOnce {
		r.AccountMissOnce = false
		return nil, account.ErrUserNotFound
	}
	a, ok := r.Accounts[userID]
	if !ok {
		return nil, account.ErrUserNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAccounts) GetForUpdate(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	return r.Get(ctx, userID)
}

func (r *memAccounts) Update(_ context.Context, a *account.Account) error {
	stored, ok := r.Accounts[a.UserID]
	if !ok {
		return account.ErrUserNotFound
	}
	stored.Balance = a.Balance
	stored.CreditScore = a.CreditScore
	return nil
}

type memTransactions MemoryUoW

func (r *memTransactions) Create(_ context.Context, tx *ledger.Transaction) error {
	if r.FailCreateTransaction != nil {
		err := r.FailCreateTransaction
		r.FailCreateTransaction = nil
		return err
	}
	cp := *tx
	r.Transactions = append(r.Transactions, &cp)
	return nil
}

func (r *memTransactions) ListByUser(_ context.Context, userID uuid.UUID) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, tx := range r.Transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type memLoans MemoryUoW

func (r *memLoans) Create(_ context.Context, l *loan.Loan) error {
	cp := *l
	r.Loans[l.ID] = &cp
	return nil
}

func (r *memLoans) GetForUpdate(_ context.Context, id, userID uuid.UUID) (*loan.Loan, error) {
	l, ok := r.Loans[id]
	if !ok || l.UserID != userID {
		return nil, loan.ErrLoanNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLoans) Update(_ context.Context, l *loan.Loan) error {
	stored, ok := r.Loans[l.ID]
	if !ok {
		return loan.ErrLoanNotFound
	}
	stored.AmountPaid = l.AmountPaid
	stored.Status = l.Status
	return nil
}

func (r *memLoans) ListByUser(_ context.Context, userID uuid.UUID) ([]*loan.Loan, error) {
	var out []*loan.Loan
	for _, l := range r.Loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memLoans) ActiveDebt(_ context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	debt := decimal.Zero
	for _, l := range r.Loans {
		if l.UserID == userID && l.Status == loan.StatusActive {
			debt = debt.Add(l.Remaining())
		}
	}
	return debt, nil
}

type memLots MemoryUoW

func (r *memLots) Create(_ context.Context, l *stock.Lot) error {
	cp := *l
	r.Lots = append(r.Lots, &cp)
	return nil
}

func (r *memLots) list(userID uuid.UUID, symbol string) []*stock.Lot {
	var out []*stock.Lot
	for _, l := range r.Lots {
		if l.UserID == userID && (symbol == "" || l.Symbol == symbol) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out
}

func (r *memLots) ListBySymbolForUpdate(_ context.Context, userID uuid.UUID, symbol string) ([]*stock.Lot, error) {
	return r.list(userID, symbol), nil
}

func (r *memLots) ListByUser(_ context.Context, userID uuid.UUID) ([]*stock.Lot, error) {
	return r.list(userID, ""), nil
}

func (r *memLots) UpdateShares(_ context.Context, id uuid.UUID, shares int64) error {
	for _, l := range r.Lots {
		if l.ID == id {
			l.Shares = shares
			return nil
		}
	}
	return stock.ErrInsufficientShares
}

func (r *memLots) Delete(_ context.Context, id uuid.UUID) error {
	for i, l := range r.Lots {
		if l.ID == id {
			r.Lots = append(r.Lots[:i], r.Lots[i+1:]...)
			return nil
		}
	}
	return stock.ErrInsufficientShares
}

type memGames MemoryUoW

func (r *memGames) CreateSession(_ context.Context, s *game.Session) error {
	cp := *s
	r.Sessions = append(r.Sessions, &cp)
	return nil
}

func (r *memGames) UpsertStat(_ context.Context, userID uuid.UUID, gameType game.Type, wagered, wonDelta decimal.Decimal) error {
	key := StatKey{UserID: userID, GameType: gameType}
	st, ok := r.Stats[key]
	if !ok {
		st = &game.Stat{UserID: userID, GameType: gameType, TotalWagered: decimal.Zero, TotalWon: decimal.Zero}
		r.Stats[key] = st
	}
	st.TotalWagered = st.TotalWagered.Add(wagered)
	st.TotalWon = st.TotalWon.Add(wonDelta)
	st.GamesPlayed++
	return nil
}

func (r *memGames) ListStats(_ context.Context, userID uuid.UUID) ([]*game.Stat, error) {
	var out []*game.Stat
	for _, st := range r.Stats {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

type memPrices MemoryUoW

func (r *memPrices) Append(_ context.Context, symbol string, price, changePercent decimal.Decimal) error {
	r.Prices = append(r.Prices, PriceRow{Symbol: symbol, Price: price, ChangePercent: changePercent})
	return nil
}
