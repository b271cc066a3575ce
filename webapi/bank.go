package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wagerdome/wagerdome/pkg/config"
	"github.com/wagerdome/wagerdome/pkg/domain/loan"
	"github.com/wagerdome/wagerdome/pkg/service/lending"
)

// BorrowRequest is the body of POST /bank/borrow.
type BorrowRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	LoanType string          `json:"loanType" validate:"required,oneof=quick standard extended"`
}

// RepayRequest is the body of POST /bank/repay/:loanId.
type RepayRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// BankRoutes registers HTTP routes for the credit and lending operations.
//
//   - GET  /bank/credit         : credit score and outstanding debt.
//   - GET  /bank/loans          : all loans, newest first.
//   - GET  /bank/transactions   : the full audit trail, newest first.
//   - POST /bank/borrow         : originate a loan.
//   - POST /bank/repay/:loanId  : repay part or all of a loan.
func BankRoutes(app *fiber.App, svc *lending.Service, jwtCfg config.Jwt) {
	app.Get("/bank/credit", Protected(jwtCfg), GetCredit(svc))
	app.Get("/bank/loans", Protected(jwtCfg), ListLoans(svc))
	app.Get("/bank/transactions", Protected(jwtCfg), ListTransactions(svc))
	app.Post("/bank/borrow", Protected(jwtCfg), Borrow(svc))
	app.Post("/bank/repay/:loanId", Protected(jwtCfg), RepayLoan(svc))
}

// ListTransactions returns a handler listing the user's audit trail.
func ListTransactions(svc *lending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		txs, err := svc.ListTransactions(c.UserContext(), userID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to get transactions", err)
		}
		out := make([]fiber.Map, 0, len(txs))
		for _, tx := range txs {
			out = append(out, fiber.Map{
				"id":          tx.ID,
				"type":        tx.Type,
				"amount":      tx.Amount,
				"description": tx.Description,
				"createdAt":   tx.CreatedAt,
			})
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions", out)
	}
}

// GetCredit returns a handler reporting credit score and total active debt.
func GetCredit(svc *lending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		info, err := svc.GetCredit(c.UserContext(), userID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to get credit info", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Credit info", fiber.Map{
			"creditScore": info.CreditScore,
			"totalDebt":   info.TotalDebt,
		})
	}
}

// ListLoans returns a handler listing the user's loans with remaining amounts.
func ListLoans(svc *lending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		loans, err := svc.ListLoans(c.UserContext(), userID)
		if err != nil {
			return DomainErrorJSON(c, "Failed to get loans", err)
		}
		out := make([]fiber.Map, 0, len(loans))
		for _, l := range loans {
			out = append(out, fiber.Map{
				"id":           l.ID,
				"principal":    l.Principal,
				"interestRate": l.InterestRate,
				"totalAmount":  l.TotalAmount,
				"amountPaid":   l.AmountPaid,
				"remaining":    l.Remaining,
				"loanType":     l.LoanType,
				"status":       l.Status,
				"createdAt":    l.CreatedAt,
				"dueDate":      l.DueDate,
			})
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Loans", out)
	}
}

// Borrow returns a handler that originates a loan.
func Borrow(svc *lending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		input, err := BindAndValidate[BorrowRequest](c)
		if input == nil {
			return err
		}
		result, err := svc.Borrow(c.UserContext(), userID, input.Amount, loan.Type(input.LoanType))
		if err != nil {
			return DomainErrorJSON(c, "Failed to process loan", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Loan approved", fiber.Map{
			"amount":       result.Amount,
			"interestRate": result.InterestRate,
			"totalAmount":  result.TotalAmount,
			"newBalance":   result.NewBalance,
		})
	}
}

// RepayLoan returns a handler that applies a repayment to a loan.
func RepayLoan(svc *lending.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		loanID, err := uuid.Parse(c.Params("loanId"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid loan ID", "Loan ID must be a valid UUID")
		}
		input, err := BindAndValidate[RepayRequest](c)
		if input == nil {
			return err
		}
		result, err := svc.RepayLoan(c.UserContext(), userID, loanID, input.Amount)
		if err != nil {
			return DomainErrorJSON(c, "Failed to repay loan", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Repayment applied", fiber.Map{
			"newBalance":  result.NewBalance,
			"loanPaidOff": result.LoanPaidOff,
		})
	}
}
