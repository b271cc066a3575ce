// Package lending provides business logic for loan origination and
// repayment. Interest is priced from the borrower's credit score, due dates
// follow the loan type, and every mutation runs in a single transaction
// boundary so the loan ledger, balance and credit score always move together.
package lending

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/domain/account"
	"github.com/wagerdome/wagerdome/pkg/domain/common"
	"github.com/wagerdome/wagerdome/pkg/domain/ledger"
	"github.com/wagerdome/wagerdome/pkg/domain/loan"
	"github.com/wagerdome/wagerdome/pkg/provider"
	"github.com/wagerdome/wagerdome/pkg/repository"
)

// Service originates and amortizes loans.
type Service struct {
	uow      repository.UnitOfWork
	notifier provider.Notifier
	logger   *slog.Logger
}

// NewService creates a lending service. The notifier is invoked outside the
// transaction boundary and may be nil.
func NewService(uow repository.UnitOfWork, notifier provider.Notifier, logger *slog.Logger) *Service {
	return &Service{uow: uow, notifier: notifier, logger: logger}
}

// BorrowResult reports the terms of an originated loan.
type BorrowResult struct {
	Amount       decimal.Decimal
	InterestRate int
	TotalAmount  decimal.Decimal
	NewBalance   decimal.Decimal
}

// RepayResult reports the effect of a repayment.
type RepayResult struct {
	NewBalance  decimal.Decimal
	LoanPaidOff bool
}

// CreditInfo is the user's credit score together with outstanding debt
// across active loans.
type CreditInfo struct {
	CreditScore int
	TotalDebt   decimal.Decimal
}

// LoanView is a loan as listed to the user, with the remaining amount owed
// computed.
type LoanView struct {
	*loan.Loan
	Remaining decimal.Decimal
}

// Borrow originates a loan of amount for userID. The rate comes from the
// user's current credit score; the total owed is principal plus interest
// rounded to two decimals. Atomically the loan is inserted, the balance
// credited with the principal and the credit score reduced by the
// origination penalty. There is no ceiling on loan size or count.
func (s *Service) Borrow(
	ctx context.Context,
	userID uuid.UUID,
	amount decimal.Decimal,
	loanType loan.Type,
) (result *BorrowResult, err error) {
	logger := s.logger.With("userID", userID, "loanType", loanType)
	if !amount.IsPositive() {
		return nil, common.ErrAmountMustBePositive
	}
	if !loan.ValidType(loanType) {
		return nil, loan.ErrInvalidLoanType
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

		l := loan.Originate(userID, amount, loanType, acct.CreditScore, time.Now())
		loans, err := uow.LoanRepository()
		if err != nil {
			return err
		}
		if err = loans.Create(ctx, l); err != nil {
			return fmt.Errorf("create loan: %w", err)
		}

		acct.Balance = acct.Balance.Add(amount)
		acct.AdjustCreditScore(-loan.BorrowPenalty)
		if err = accounts.Update(ctx, acct); err != nil {
			return fmt.Errorf("update account: %w", err)
		}

		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		entry := ledger.New(userID, ledger.TypeLoan, amount, fmt.Sprintf("%s loan borrowed", loanType))
		if err = txs.Create(ctx, entry); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}

		result = &BorrowResult{
			Amount:       amount,
			InterestRate: l.InterestRate,
			TotalAmount:  l.TotalAmount,
			NewBalance:   acct.Balance,
		}
		return nil
	})
	if err != nil {
		logger.Error("borrow failed", "error", err)
		return nil, err
	}
	logger.Info("loan originated", "amount", amount, "rate", result.InterestRate, "total", result.TotalAmount)

	if s.notifier != nil {
		subject := "Loan confirmation"
		body := fmt.Sprintf("Your %s loan of %s was approved at %d%% interest. Total owed: %s.",
			loanType, amount.StringFixed(2), result.InterestRate, result.TotalAmount.StringFixed(2))
		go s.notifier.Notify(context.WithoutCancel(ctx), userID.String(), subject, body)
	}
	return result, nil
}

// RepayLoan applies a repayment of amount to the user's loan. Overpayment is
// rejected before the balance check, both before any mutation. Paying the
// final remainder flips the loan to its terminal paid status and awards the
// larger credit bonus; either bonus is clamped at the score ceiling.
func (s *Service) RepayLoan(
	ctx context.Context,
	userID, loanID uuid.UUID,
	amount decimal.Decimal,
) (result *RepayResult, err error) {
	logger := s.logger.With("userID", userID, "loanID", loanID)
	if !amount.IsPositive() {
		return nil, common.ErrAmountMustBePositive
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		loans, err := uow.LoanRepository()
		if err != nil {
			return err
		}
		l, err := loans.GetForUpdate(ctx, loanID, userID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(l.Remaining()) {
			return loan.ErrOverpayment
		}

		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if !acct.CanAfford(amount) {
			return account.ErrInsufficientFunds
		}

		paidOff, err := l.ApplyPayment(amount)
		if err != nil {
			return err
		}
		if err = loans.Update(ctx, l); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}

		acct.Balance = acct.Balance.Sub(amount)
		bonus := loan.RepayBonus
		if paidOff {
			bonus = loan.PayoffBonus
		}
		acct.AdjustCreditScore(bonus)
		if err = accounts.Update(ctx, acct); err != nil {
			return fmt.Errorf("update account: %w", err)
		}

		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		entry := ledger.New(userID, ledger.TypeLoanPayment, amount, "Loan repayment")
		if err = txs.Create(ctx, entry); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}

		result = &RepayResult{NewBalance: acct.Balance, LoanPaidOff: paidOff}
		return nil
	})
	if err != nil {
		logger.Error("loan repayment failed", "error", err)
		return nil, err
	}
	logger.Info("loan repayment applied", "amount", amount, "paidOff", result.LoanPaidOff)
	return result, nil
}

// GetCredit returns the user's credit score and total outstanding debt.
func (s *Service) GetCredit(ctx context.Context, userID uuid.UUID) (*CreditInfo, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err := accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	loans, err := s.uow.LoanRepository()
	if err != nil {
		return nil, err
	}
	debt, err := loans.ActiveDebt(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CreditInfo{CreditScore: acct.CreditScore, TotalDebt: debt}, nil
}

// ListTransactions returns the user's audit trail, newest first. Entries
// cover every balance-changing operation, not just lending.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error) {
	txs, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txs.ListByUser(ctx, userID)
}

// ListLoans returns the user's loans, newest first, with remaining amounts.
func (s *Service) ListLoans(ctx context.Context, userID uuid.UUID) ([]LoanView, error) {
	loans, err := s.uow.LoanRepository()
	if err != nil {
		return nil, err
	}
	list, err := loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]LoanView, 0, len(list))
	for _, l := range list {
		views = append(views, LoanView{Loan: l, Remaining: l.Remaining()})
	}
	return views, nil
}
