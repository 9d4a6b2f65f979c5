// Package normalize maps header-keyed sheet rows onto canonical records.
package normalize

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/id"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/money"
	"github.com/profinance-crm/profinance/internal/sheet"
)

// Env carries the values a normalizer needs beyond the rows themselves.
type Env struct {
	Today civil.Date
	NewID func() string
}

// Normalizer converts rows of one kind into canonical records. It never
// fails on row content: bad values degrade to defaults and rows breaking
// the kind's invariant are dropped.
type Normalizer interface {
	Kind() model.Kind
	Normalize(env Env, rows []sheet.Row) model.Dataset
}

// Registry holds one normalizer per kind.
type Registry struct {
	normalizers map[model.Kind]Normalizer
	now         func() time.Time
	newID       func() string
}

// NewRegistry creates an empty registry using the wall clock and random IDs.
func NewRegistry() *Registry {
	return &Registry{
		normalizers: make(map[model.Kind]Normalizer),
		now:         time.Now,
		newID:       id.New,
	}
}

// Register adds a normalizer. Panics on duplicate kind.
func (r *Registry) Register(n Normalizer) {
	if _, ok := r.normalizers[n.Kind()]; ok {
		panic("duplicate normalizer kind: " + string(n.Kind()))
	}
	r.normalizers[n.Kind()] = n
}

// Get returns the normalizer for kind, or nil.
func (r *Registry) Get(kind model.Kind) Normalizer {
	return r.normalizers[kind]
}

// SetClock replaces the clock used for the default date.
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

// SetIDFunc replaces the generator used for rows without an id.
func (r *Registry) SetIDFunc(newID func() string) {
	r.newID = newID
}

// Normalize converts rows of kind into a dataset holding only that kind.
func (r *Registry) Normalize(kind model.Kind, rows []sheet.Row) (model.Dataset, error) {
	n := r.Get(kind)
	if n == nil {
		return model.Dataset{}, fmt.Errorf("no normalizer for kind %q", kind)
	}
	env := Env{Today: dates.Today(r.now()), NewID: r.newID}
	return n.Normalize(env, rows), nil
}

// DefaultRegistry returns a registry with every built-in normalizer.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ExpenseNormalizer{})
	r.Register(IncomeNormalizer{})
	r.Register(DebtNormalizer{})
	r.Register(CapitalNormalizer{})
	r.Register(InvestmentNormalizer{})
	return r
}

// fields resolves canonical fields of one row against a table.
type fields struct {
	row   sheet.Row
	table AliasTable
	env   Env
}

func (f fields) lookup(name string) (string, bool) {
	return Resolve(f.row, f.table.Field(name))
}

func (f fields) text(name string) string {
	v, _ := f.lookup(name)
	return v
}

func (f fields) amount(name string) decimal.Decimal {
	v, ok := f.lookup(name)
	if !ok {
		return decimal.Zero
	}
	return money.ParseAmount(v)
}

// date resolves a date field, falling back to today when absent or unparseable.
func (f fields) date(name string) civil.Date {
	if v, ok := f.lookup(name); ok {
		if d, ok := dates.Parse(v); ok {
			return d
		}
	}
	return f.env.Today
}

func (f fields) id() string {
	if v, ok := f.lookup(FieldID); ok {
		return v
	}
	return f.env.NewID()
}

// clock normalizes "9:05", "09:05:00" or "9:05 PM" to "HH:MM". Values it
// cannot read are kept as written.
func (f fields) clock(name string) string {
	v := f.text(name)
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04 pm"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04")
		}
	}
	return v
}

func newFields(row sheet.Row, table AliasTable, env Env) fields {
	return fields{row: row, table: table, env: env}
}

// ExpenseNormalizer keeps rows with a positive price.
type ExpenseNormalizer struct{}

func (ExpenseNormalizer) Kind() model.Kind { return model.KindExpenses }

func (ExpenseNormalizer) Normalize(env Env, rows []sheet.Row) model.Dataset {
	var out []model.ExpenseRecord
	for _, row := range rows {
		f := newFields(row, ExpenseAliases, env)
		rec := model.ExpenseRecord{
			ID:            f.id(),
			Date:          f.date(FieldDate),
			Time:          f.clock(FieldTime),
			Product:       f.text(FieldProduct),
			CategoryName:  f.text(FieldCategory),
			Price:         f.amount(FieldPrice),
			PaymentMethod: f.text(FieldPaymentMethod),
			Notes:         f.text(FieldNotes),
		}
		if !rec.Price.IsPositive() {
			continue
		}
		out = append(out, rec)
	}
	return model.Dataset{Expenses: out}
}

// IncomeNormalizer keeps rows with a positive amount.
type IncomeNormalizer struct{}

func (IncomeNormalizer) Kind() model.Kind { return model.KindIncome }

func (IncomeNormalizer) Normalize(env Env, rows []sheet.Row) model.Dataset {
	var out []model.IncomeRecord
	for _, row := range rows {
		f := newFields(row, IncomeAliases, env)
		rec := model.IncomeRecord{
			ID:            f.id(),
			Date:          f.date(FieldDate),
			Entity:        f.text(FieldEntity),
			Amount:        f.amount(FieldAmount),
			PaymentMethod: f.text(FieldPaymentMethod),
			Time:          f.clock(FieldTime),
			Notes:         f.text(FieldNotes),
		}
		if !rec.Amount.IsPositive() {
			continue
		}
		out = append(out, rec)
	}
	return model.Dataset{Income: out}
}

// DebtNormalizer keeps rows with a positive original amount. A missing
// balance means nothing has been repaid; a balance outside
// [0, original] is clamped into it. Negative interest reads as zero.
type DebtNormalizer struct{}

func (DebtNormalizer) Kind() model.Kind { return model.KindDebts }

func (DebtNormalizer) Normalize(env Env, rows []sheet.Row) model.Dataset {
	var out []model.DebtRecord
	for _, row := range rows {
		f := newFields(row, DebtAliases, env)
		original := f.amount(FieldOriginalAmount)
		if !original.IsPositive() {
			continue
		}

		balance := original
		if _, ok := f.lookup(FieldCurrentBalance); ok {
			balance = clamp(f.amount(FieldCurrentBalance), decimal.Zero, original)
		}

		rec := model.DebtRecord{
			ID:             f.id(),
			Date:           f.date(FieldDate),
			Entity:         f.text(FieldEntity),
			OriginalAmount: original,
			CurrentBalance: balance,
			InterestRate:   decimal.Max(f.amount(FieldInterestRate), decimal.Zero),
			Time:           f.clock(FieldTime),
			Notes:          f.text(FieldNotes),
		}
		if v, ok := f.lookup(FieldDueDate); ok {
			if d, ok := dates.Parse(v); ok {
				rec.DueDate = &d
			}
		}
		out = append(out, rec)
	}
	return model.Dataset{Debts: out}
}

// CapitalNormalizer keeps non-zero movements. Expense and payment movements
// are always outflows. Unrecognized types read as income, or as an expense
// when the amount is negative.
type CapitalNormalizer struct{}

func (CapitalNormalizer) Kind() model.Kind { return model.KindCapital }

func (CapitalNormalizer) Normalize(env Env, rows []sheet.Row) model.Dataset {
	var out []model.CapitalMovementRecord
	for _, row := range rows {
		f := newFields(row, CapitalAliases, env)
		amount := f.amount(FieldAmount)
		if amount.IsZero() {
			continue
		}

		typ, ok := model.ParseCapitalType(f.text(FieldType))
		if !ok {
			typ = model.CapitalIncome
			if amount.IsNegative() {
				typ = model.CapitalExpense
			}
		}
		if typ.Outflow() {
			amount = amount.Abs().Neg()
		}

		out = append(out, model.CapitalMovementRecord{
			ID:           f.id(),
			Date:         f.date(FieldDate),
			Type:         typ,
			Description:  f.text(FieldDescription),
			CategoryName: f.text(FieldCategory),
			Amount:       amount,
			Notes:        f.text(FieldNotes),
		})
	}
	return model.Dataset{Capital: out}
}

// InvestmentNormalizer keeps positions with a positive initial amount. The
// current value comes from its own column, else from a return percentage,
// else equals the initial amount. It never goes below zero.
type InvestmentNormalizer struct{}

func (InvestmentNormalizer) Kind() model.Kind { return model.KindInvestments }

var hundred = decimal.NewFromInt(100)

func (InvestmentNormalizer) Normalize(env Env, rows []sheet.Row) model.Dataset {
	var out []model.InvestmentRecord
	for _, row := range rows {
		f := newFields(row, InvestmentAliases, env)
		initial := f.amount(FieldInitialAmount)
		if !initial.IsPositive() {
			continue
		}

		current := initial
		if _, ok := f.lookup(FieldCurrentValue); ok {
			current = f.amount(FieldCurrentValue)
		} else if _, ok := f.lookup(FieldReturnPercent); ok {
			r := f.amount(FieldReturnPercent)
			current = initial.Mul(hundred.Add(r)).Div(hundred)
		}

		out = append(out, model.InvestmentRecord{
			ID:            f.id(),
			Date:          f.date(FieldDate),
			Type:          f.text(FieldType),
			Description:   f.text(FieldDescription),
			CategoryName:  f.text(FieldCategory),
			InitialAmount: initial,
			CurrentValue:  decimal.Max(current, decimal.Zero),
			Notes:         f.text(FieldNotes),
		})
	}
	return model.Dataset{Investments: out}
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, lo), hi)
}
