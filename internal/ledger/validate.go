package ledger

import (
	"fmt"
	"strings"

	"github.com/profinance-crm/profinance/internal/model"
)

// ValidationError describes one rejected form field.
type ValidationError struct {
	RecordID    string
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Field, e.RecordID, e.Description)
}

// ValidationErrors is returned by Save when a record is rejected.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validator checks a record before it enters a store.
type Validator[T model.Record] func(T) []ValidationError

// Save validates rec and then updates the record with its id, or adds it
// when none exists. A rejected record leaves the store untouched.
func Save[T model.Record](s *Store[T], rec T, validate Validator[T]) error {
	if errs := validate(rec); len(errs) > 0 {
		return ValidationErrors(errs)
	}
	if _, ok := s.Get(rec.RecordID()); ok {
		return s.Update(rec)
	}
	return s.Add(rec)
}

type checker struct {
	id   string
	errs []ValidationError
}

func (c *checker) require(ok bool, field, description string) {
	if !ok {
		c.errs = append(c.errs, ValidationError{RecordID: c.id, Field: field, Description: description})
	}
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

// ValidateExpense checks a hand-entered expense.
func ValidateExpense(r model.ExpenseRecord) []ValidationError {
	c := checker{id: r.ID}
	c.require(present(r.Product), "product", "El producto/servicio es requerido")
	c.require(present(r.CategoryName), "category", "La categoría es requerida")
	c.require(r.Price.IsPositive(), "price", "El precio debe ser mayor a 0")
	c.require(present(r.PaymentMethod), "paymentMethod", "La forma de pago es requerida")
	return c.errs
}

// ValidateIncome checks a hand-entered income record.
func ValidateIncome(r model.IncomeRecord) []ValidationError {
	c := checker{id: r.ID}
	c.require(present(r.Entity), "entity", "La entidad es requerida")
	c.require(r.Amount.IsPositive(), "amount", "El monto debe ser mayor a 0")
	c.require(present(r.PaymentMethod), "paymentMethod", "La forma de pago es requerida")
	return c.errs
}

// ValidateDebt checks a hand-entered debt.
func ValidateDebt(r model.DebtRecord) []ValidationError {
	c := checker{id: r.ID}
	c.require(present(r.Entity), "entity", "La entidad es requerida")
	c.require(present(r.Time), "time", "La hora es requerida")
	c.require(r.OriginalAmount.IsPositive(), "originalAmount", "El monto original debe ser mayor a 0")
	c.require(!r.CurrentBalance.IsNegative(), "currentBalance", "El saldo actual debe ser mayor o igual a 0")
	c.require(r.CurrentBalance.LessThanOrEqual(r.OriginalAmount), "currentBalance", "El saldo actual no puede ser mayor al monto original")
	c.require(!r.InterestRate.IsNegative(), "interestRate", "La tasa de interés debe ser mayor o igual a 0")
	c.require(r.DueDate != nil && r.DueDate.IsValid(), "dueDate", "La fecha de vencimiento es requerida")
	return c.errs
}

// ValidateCapital checks a hand-entered capital movement. The sign of the
// amount comes from the type, so only its magnitude is checked.
func ValidateCapital(r model.CapitalMovementRecord) []ValidationError {
	c := checker{id: r.ID}
	c.require(present(r.Description), "description", "La descripción es requerida")
	c.require(r.Type.Valid(), "type", "El tipo de movimiento es requerido")
	c.require(present(r.CategoryName), "category", "La categoría es requerida")
	c.require(!r.Amount.IsZero(), "amount", "El monto debe ser mayor a 0")
	return c.errs
}

// ValidateInvestment checks a hand-entered investment.
func ValidateInvestment(r model.InvestmentRecord) []ValidationError {
	c := checker{id: r.ID}
	c.require(present(r.Description), "description", "La descripción es requerida")
	c.require(present(r.Type), "type", "El tipo de inversión es requerido")
	c.require(present(r.CategoryName), "category", "La categoría es requerida")
	c.require(r.InitialAmount.IsPositive(), "initialAmount", "El monto inicial debe ser mayor a 0")
	c.require(!r.CurrentValue.IsNegative(), "currentValue", "El valor actual debe ser mayor o igual a 0")
	return c.errs
}
