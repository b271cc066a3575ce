package lending_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagerdome/wagerdome/internal/fixtures"
	"github.com/wagerdome/wagerdome/pkg/domain/account"
	"github.com/wagerdome/wagerdome/pkg/domain/common"
	"github.com/wagerdome/wagerdome/pkg/domain/ledger"
	"github.com/wagerdome/wagerdome/pkg/domain/loan"
	"github.com/wagerdome/wagerdome/pkg/service/lending"
)

type capturedNote struct {
	UserID  string
	Subject string
	Body    string
}

// captureNotifier records notifications and signals delivery through a
// WaitGroup, since the service dispatches them on a separate goroutine.
type captureNotifier struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	notes []capturedNote
}

func (n *captureNotifier) Notify(_ context.Context, userID, subject, body string) {
	n.mu.Lock()
	n.notes = append(n.notes, capturedNote{UserID: userID, Subject: subject, Body: body})
	n.mu.Unlock()
	n.wg.Done()
}

func newService(uow *fixtures.MemoryUoW) *lending.Service {
	return lending.NewService(uow, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBorrow(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(500), 720)
	svc := newService(uow)

	result, err := svc.Borrow(context.Background(), userID, decimal.NewFromInt(1000), loan.TypeStandard)
	require.NoError(err)
	assert.Equal(8, result.InterestRate, "score 720 should land on the 8%% tier")
	assert.True(result.TotalAmount.Equal(decimal.NewFromFloat(1080.00)))
	assert.True(result.NewBalance.Equal(decimal.NewFromInt(1500)), "principal should be credited to the balance")

	acct := uow.Accounts[userID]
	assert.Equal(710, acct.CreditScore, "origination should cost the penalty")

	require.Len(uow.Loans, 1)
	for _, l := range uow.Loans {
		assert.Equal(loan.StatusActive, l.Status)
		assert.True(l.Principal.Equal(decimal.NewFromInt(1000)))
	}

	require.Len(uow.Transactions, 1)
	tx := uow.Transactions[0]
	assert.Equal(ledger.TypeLoan, tx.Type)
	assert.Equal("standard loan borrowed", tx.Description)
}

func TestBorrowInvalidInput(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(500), 720)
	svc := newService(uow)

	_, err := svc.Borrow(context.Background(), userID, decimal.Zero, loan.TypeQuick)
	require.ErrorIs(err, common.ErrAmountMustBePositive)

	_, err = svc.Borrow(context.Background(), userID, decimal.NewFromInt(100), loan.Type("payday"))
	require.ErrorIs(err, loan.ErrInvalidLoanType)

	_, err = svc.Borrow(context.Background(), uuid.New(), decimal.NewFromInt(100), loan.TypeQuick)
	require.ErrorIs(err, account.ErrUserNotFound)
}

func TestBorrowNotifiesAfterCommit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(500), 760)

	notifier := &captureNotifier{}
	notifier.wg.Add(1)
	svc := lending.NewService(uow, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Borrow(context.Background(), userID, decimal.NewFromInt(200), loan.TypeQuick)
	require.NoError(err)
	notifier.wg.Wait()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(notifier.notes, 1)
	assert.Equal(userID.String(), notifier.notes[0].UserID)
	assert.Equal("Loan confirmation", notifier.notes[0].Subject)
	assert.Contains(notifier.notes[0].Body, "5% interest", "score 760 should price at the lowest tier")
}

func TestRepayLoanPartial(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(2000), 720)
	svc := newService(uow)

	borrowed, err := svc.Borrow(context.Background(), userID, decimal.NewFromInt(1000), loan.TypeStandard)
	require.NoError(err)
	var loanID uuid.UUID
	for id := range uow.Loans {
		loanID = id
	}

	result, err := svc.RepayLoan(context.Background(), userID, loanID, decimal.NewFromInt(500))
	require.NoError(err)
	assert.False(result.LoanPaidOff)
	assert.True(result.NewBalance.Equal(borrowed.NewBalance.Sub(decimal.NewFromInt(500))))

	acct := uow.Accounts[userID]
	assert.Equal(715, acct.CreditScore, "partial repayment should award the small bonus")

	l := uow.Loans[loanID]
	assert.Equal(loan.StatusActive, l.Status)
	assert.True(l.Remaining().Equal(decimal.NewFromFloat(580.00)))

	last := uow.Transactions[len(uow.Transactions)-1]
	assert.Equal(ledger.TypeLoanPayment, last.Type)
	assert.Equal("Loan repayment", last.Description)
}

func TestRepayLoanPayoff(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(2000), 845)
	svc := newService(uow)

	_, err := svc.Borrow(context.Background(), userID, decimal.NewFromInt(1000), loan.TypeQuick)
	require.NoError(err)
	var loanID uuid.UUID
	var total decimal.Decimal
	for id, l := range uow.Loans {
		loanID = id
		total = l.TotalAmount
	}

	result, err := svc.RepayLoan(context.Background(), userID, loanID, total)
	require.NoError(err)
	assert.True(result.LoanPaidOff, "paying the full total should retire the loan")

	acct := uow.Accounts[userID]
	assert.Equal(account.MaxCreditScore, acct.CreditScore, "payoff bonus should clamp at the ceiling")

	l := uow.Loans[loanID]
	assert.Equal(loan.StatusPaid, l.Status)
	assert.True(l.Remaining().IsZero())
}

func TestRepayLoanAlreadyPaid(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(2000), 720)
	svc := newService(uow)

	ctx := context.Background()
	_, err := svc.Borrow(ctx, userID, decimal.NewFromInt(100), loan.TypeQuick)
	require.NoError(err)
	var loanID uuid.UUID
	var total decimal.Decimal
	for id, l := range uow.Loans {
		loanID = id
		total = l.TotalAmount
	}

	result, err := svc.RepayLoan(ctx, userID, loanID, total)
	require.NoError(err)
	require.True(result.LoanPaidOff)
	balance := uow.Accounts[userID].Balance
	score := uow.Accounts[userID].CreditScore

	// A retired loan has no remainder, so any further payment is an
	// overpayment and the terminal status never reverts.
	_, err = svc.RepayLoan(ctx, userID, loanID, decimal.NewFromInt(1))
	require.ErrorIs(err, loan.ErrOverpayment)

	l := uow.Loans[loanID]
	assert.Equal(loan.StatusPaid, l.Status, "paid is terminal")
	assert.True(l.AmountPaid.Equal(total))
	assert.True(uow.Accounts[userID].Balance.Equal(balance), "rejected repayment should not touch the balance")
	assert.Equal(score, uow.Accounts[userID].CreditScore)
}

func TestRepayLoanOverpaymentBeforeBalanceCheck(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(10), 720)
	svc := newService(uow)

	_, err := svc.Borrow(context.Background(), userID, decimal.NewFromInt(100), loan.TypeQuick)
	require.NoError(err)
	var loanID uuid.UUID
	var total decimal.Decimal
	for id, l := range uow.Loans {
		loanID = id
		total = l.TotalAmount
	}

	// The amount both exceeds the remaining debt and the balance; the
	// overpayment rejection wins.
	_, err = svc.RepayLoan(context.Background(), userID, loanID, total.Add(decimal.NewFromInt(1000)))
	require.ErrorIs(err, loan.ErrOverpayment)

	l := uow.Loans[loanID]
	assert.True(l.AmountPaid.IsZero(), "rejected repayment should not mutate the loan")
}

func TestRepayLoanInsufficientFunds(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(100), 720)
	svc := newService(uow)

	_, err := svc.Borrow(context.Background(), userID, decimal.NewFromInt(500), loan.TypeQuick)
	require.NoError(err)
	var loanID uuid.UUID
	for id := range uow.Loans {
		loanID = id
	}

	// Drain the balance below the attempted repayment.
	acct := uow.Accounts[userID]
	acct.Balance = decimal.NewFromInt(50)

	_, err = svc.RepayLoan(context.Background(), userID, loanID, decimal.NewFromInt(200))
	require.ErrorIs(err, account.ErrInsufficientFunds)

	l := uow.Loans[loanID]
	assert.True(l.AmountPaid.IsZero())
	assert.True(uow.Accounts[userID].Balance.Equal(decimal.NewFromInt(50)))
}

func TestRepayLoanNotFound(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	otherID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(1000), 720)
	uow.SeedAccount(otherID, decimal.NewFromInt(1000), 720)
	svc := newService(uow)

	_, err := svc.Borrow(context.Background(), userID, decimal.NewFromInt(100), loan.TypeQuick)
	require.NoError(err)
	var loanID uuid.UUID
	for id := range uow.Loans {
		loanID = id
	}

	_, err = svc.RepayLoan(context.Background(), otherID, loanID, decimal.NewFromInt(10))
	require.ErrorIs(err, loan.ErrLoanNotFound, "another user's loan should be invisible")

	_, err = svc.RepayLoan(context.Background(), userID, uuid.New(), decimal.NewFromInt(10))
	require.ErrorIs(err, loan.ErrLoanNotFound)
}

func TestGetCredit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(5000), 720)
	svc := newService(uow)

	ctx := context.Background()
	_, err := svc.Borrow(ctx, userID, decimal.NewFromInt(1000), loan.TypeStandard)
	require.NoError(err)
	_, err = svc.Borrow(ctx, userID, decimal.NewFromInt(200), loan.TypeQuick)
	require.NoError(err)

	info, err := svc.GetCredit(ctx, userID)
	require.NoError(err)
	assert.Equal(700, info.CreditScore, "two originations should cost two penalties")
	// 1000 at 8% plus 200 at 8% (score 710 at second origination).
	assert.True(info.TotalDebt.Equal(decimal.NewFromFloat(1296.00)), "debt should sum active remainders, got %s", info.TotalDebt)
}

func TestListLoans(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	uow := fixtures.NewMemoryUoW()
	userID := uuid.New()
	uow.SeedAccount(userID, decimal.NewFromInt(5000), 720)
	svc := newService(uow)

	ctx := context.Background()
	_, err := svc.Borrow(ctx, userID, decimal.NewFromInt(300), loan.TypeExtended)
	require.NoError(err)

	views, err := svc.ListLoans(ctx, userID)
	require.NoError(err)
	require.Len(views, 1)
	assert.True(views[0].Remaining.Equal(views[0].TotalAmount), "nothing repaid yet")
}
