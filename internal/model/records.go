package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Record is the behavior shared by every canonical record kind.
type Record interface {
	RecordID() string
	RecordKind() Kind
	RecordDate() civil.Date
	// Category returns the grouping label used by category filters.
	Category() string
	// SearchText returns the fields matched by free-text search.
	SearchText() []string
}

// ExpenseRecord is one normalized row of the expenses sheet.
type ExpenseRecord struct {
	ID            string          `json:"id"`
	Date          civil.Date      `json:"date"`
	Time          string          `json:"time,omitempty"` // "HH:MM"
	Product       string          `json:"product"`
	CategoryName  string          `json:"category"`
	Price         decimal.Decimal `json:"price"` // always > 0
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
}

func (r ExpenseRecord) RecordID() string       { return r.ID }
func (r ExpenseRecord) RecordKind() Kind       { return KindExpenses }
func (r ExpenseRecord) RecordDate() civil.Date { return r.Date }
func (r ExpenseRecord) Category() string       { return r.CategoryName }

func (r ExpenseRecord) SearchText() []string {
	return []string{r.Product, r.CategoryName, r.PaymentMethod, r.Notes}
}

// IncomeRecord is one normalized row of the income sheet.
type IncomeRecord struct {
	ID            string          `json:"id"`
	Date          civil.Date      `json:"date"`
	Entity        string          `json:"entity"`
	Amount        decimal.Decimal `json:"amount"` // always > 0
	PaymentMethod string          `json:"paymentMethod"`
	Time          string          `json:"time,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

func (r IncomeRecord) RecordID() string       { return r.ID }
func (r IncomeRecord) RecordKind() Kind       { return KindIncome }
func (r IncomeRecord) RecordDate() civil.Date { return r.Date }
func (r IncomeRecord) Category() string       { return r.PaymentMethod }

func (r IncomeRecord) SearchText() []string {
	return []string{r.Entity, r.PaymentMethod, r.Notes}
}

// DebtRecord is one normalized row of the debts sheet.
type DebtRecord struct {
	ID             string          `json:"id"`
	Date           civil.Date      `json:"date"`
	Entity         string          `json:"entity"`
	OriginalAmount decimal.Decimal `json:"originalAmount"` // always > 0
	CurrentBalance decimal.Decimal `json:"currentBalance"` // within [0, OriginalAmount]
	InterestRate   decimal.Decimal `json:"interestRate"`   // percent, >= 0
	DueDate        *civil.Date     `json:"dueDate,omitempty"`
	Time           string          `json:"time,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

func (r DebtRecord) RecordID() string       { return r.ID }
func (r DebtRecord) RecordKind() Kind       { return KindDebts }
func (r DebtRecord) RecordDate() civil.Date { return r.Date }
func (r DebtRecord) Category() string       { return r.Entity }

func (r DebtRecord) SearchText() []string {
	return []string{r.Entity, r.Notes}
}

// Paid returns how much of the original amount has been repaid.
func (r DebtRecord) Paid() decimal.Decimal {
	return r.OriginalAmount.Sub(r.CurrentBalance)
}

// ProgressPercent returns the repaid share of the original amount, 0-100.
func (r DebtRecord) ProgressPercent() decimal.Decimal {
	if !r.OriginalAmount.IsPositive() {
		return decimal.Zero
	}
	return r.Paid().Div(r.OriginalAmount).Mul(decimal.NewFromInt(100))
}

// CapitalMovementRecord is one normalized capital movement.
type CapitalMovementRecord struct {
	ID           string          `json:"id"`
	Date         civil.Date      `json:"date"`
	Type         CapitalType     `json:"type"`
	Description  string          `json:"description"`
	CategoryName string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"` // positive = inflow, negative = outflow
	Notes        string          `json:"notes,omitempty"`
}

func (r CapitalMovementRecord) RecordID() string       { return r.ID }
func (r CapitalMovementRecord) RecordKind() Kind       { return KindCapital }
func (r CapitalMovementRecord) RecordDate() civil.Date { return r.Date }
func (r CapitalMovementRecord) Category() string       { return r.CategoryName }

func (r CapitalMovementRecord) SearchText() []string {
	return []string{string(r.Type), r.Type.Label(), r.Description, r.CategoryName, r.Notes}
}

// Inflow reports whether the movement adds to capital.
func (r CapitalMovementRecord) Inflow() bool {
	return !r.Amount.IsNegative()
}

// InvestmentRecord is one normalized investment position.
type InvestmentRecord struct {
	ID            string          `json:"id"`
	Date          civil.Date      `json:"date"`
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	CategoryName  string          `json:"category"`
	InitialAmount decimal.Decimal `json:"initialAmount"` // always > 0
	CurrentValue  decimal.Decimal `json:"currentValue"`  // >= 0
	Notes         string          `json:"notes,omitempty"`
}

func (r InvestmentRecord) RecordID() string       { return r.ID }
func (r InvestmentRecord) RecordKind() Kind       { return KindInvestments }
func (r InvestmentRecord) RecordDate() civil.Date { return r.Date }
func (r InvestmentRecord) Category() string       { return r.CategoryName }

func (r InvestmentRecord) SearchText() []string {
	return []string{r.Type, r.Description, r.CategoryName, r.Notes}
}

// Return is the absolute gain or loss of the position.
func (r InvestmentRecord) Return() decimal.Decimal {
	return r.CurrentValue.Sub(r.InitialAmount)
}

// ROIPercent is the return relative to the initial amount, in percent.
func (r InvestmentRecord) ROIPercent() decimal.Decimal {
	if !r.InitialAmount.IsPositive() {
		return decimal.Zero
	}
	return r.Return().Div(r.InitialAmount).Mul(decimal.NewFromInt(100))
}
