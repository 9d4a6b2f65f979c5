package commands

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/profinance-crm/profinance/internal/dates"
	"github.com/profinance-crm/profinance/internal/id"
	"github.com/profinance-crm/profinance/internal/ledger"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/money"
)

// errSampleRecord is returned when an edit targets generated sample data.
var errSampleRecord = errors.New("sample records are regenerated on every refresh and cannot be edited")

// session holds the records a command shows, one store per kind. Hand edits
// live until the next Replace.
type session struct {
	expenses    *ledger.Store[model.ExpenseRecord]
	income      *ledger.Store[model.IncomeRecord]
	debts       *ledger.Store[model.DebtRecord]
	capital     *ledger.Store[model.CapitalMovementRecord]
	investments *ledger.Store[model.InvestmentRecord]

	today func() civil.Date
	clock func() string
}

func newSession(d model.Dataset) *session {
	return &session{
		expenses:    ledger.NewStore(d.Expenses),
		income:      ledger.NewStore(d.Income),
		debts:       ledger.NewStore(d.Debts),
		capital:     ledger.NewStore(d.Capital),
		investments: ledger.NewStore(d.Investments),
	}
}

// Replace swaps every store for the records of d.
func (s *session) Replace(d model.Dataset) {
	s.expenses.Replace(d.Expenses)
	s.income.Replace(d.Income)
	s.debts.Replace(d.Debts)
	s.capital.Replace(d.Capital)
	s.investments.Replace(d.Investments)
}

// Dataset returns the current contents of every store.
func (s *session) Dataset() model.Dataset {
	return model.Dataset{
		Expenses:    s.expenses.All(),
		Income:      s.income.All(),
		Debts:       s.debts.All(),
		Capital:     s.capital.All(),
		Investments: s.investments.All(),
	}
}

// Filter returns kind's records matching search and category. Empty
// values match everything.
func (s *session) Filter(kind model.Kind, search, category string) model.Dataset {
	switch kind {
	case model.KindExpenses:
		return model.Dataset{Expenses: narrow(s.expenses, search, category)}
	case model.KindIncome:
		return model.Dataset{Income: narrow(s.income, search, category)}
	case model.KindDebts:
		return model.Dataset{Debts: narrow(s.debts, search, category)}
	case model.KindCapital:
		return model.Dataset{Capital: narrow(s.capital, search, category)}
	case model.KindInvestments:
		return model.Dataset{Investments: narrow(s.investments, search, category)}
	}
	return model.Dataset{}
}

func narrow[T model.Record](store *ledger.Store[T], search, category string) []T {
	return ledger.NewStore(store.Search(search)).FilterCategory(category)
}

// Add validates a new record of kind built from f and returns its id.
func (s *session) Add(kind model.Kind, f form) (string, error) {
	recID := id.New()
	return recID, s.save(kind, recID, f, true)
}

// Edit applies f to the record recID of kind.
func (s *session) Edit(kind model.Kind, recID string, f form) error {
	if id.IsSample(recID) {
		return errSampleRecord
	}
	return s.save(kind, recID, f, false)
}

// Delete removes the record recID of kind.
func (s *session) Delete(kind model.Kind, recID string) error {
	if id.IsSample(recID) {
		return errSampleRecord
	}
	switch kind {
	case model.KindExpenses:
		return s.expenses.Delete(recID)
	case model.KindIncome:
		return s.income.Delete(recID)
	case model.KindDebts:
		return s.debts.Delete(recID)
	case model.KindCapital:
		return s.capital.Delete(recID)
	case model.KindInvestments:
		return s.investments.Delete(recID)
	}
	return fmt.Errorf("unknown dataset kind %q", kind)
}

func (s *session) save(kind model.Kind, recID string, f form, create bool) error {
	today, clock := s.now()
	switch kind {
	case model.KindExpenses:
		blank := model.ExpenseRecord{ID: recID, Date: today, Time: clock}
		return saveForm(s.expenses, blank, create, f, applyExpense, ledger.ValidateExpense)
	case model.KindIncome:
		blank := model.IncomeRecord{ID: recID, Date: today, Time: clock}
		return saveForm(s.income, blank, create, f, applyIncome, ledger.ValidateIncome)
	case model.KindDebts:
		blank := model.DebtRecord{ID: recID, Date: today, Time: clock}
		return saveForm(s.debts, blank, create, f, applyDebt, ledger.ValidateDebt)
	case model.KindCapital:
		blank := model.CapitalMovementRecord{ID: recID, Date: today}
		return saveForm(s.capital, blank, create, f, applyCapital, ledger.ValidateCapital)
	case model.KindInvestments:
		blank := model.InvestmentRecord{ID: recID, Date: today}
		return saveForm(s.investments, blank, create, f, applyInvestment, ledger.ValidateInvestment)
	}
	return fmt.Errorf("unknown dataset kind %q", kind)
}

func (s *session) now() (civil.Date, string) {
	var today civil.Date
	var clock string
	if s.today != nil {
		today = s.today()
	}
	if s.clock != nil {
		clock = s.clock()
	}
	return today, clock
}

// saveForm starts from blank, or from the stored record when editing,
// applies f and saves through validate.
func saveForm[T model.Record](store *ledger.Store[T], blank T, create bool, f form, apply func(*T, form) error, validate ledger.Validator[T]) error {
	rec := blank
	if !create {
		cur, ok := store.Get(blank.RecordID())
		if !ok {
			return fmt.Errorf("editing %s: %w", blank.RecordID(), ledger.ErrNotFound)
		}
		rec = cur
	}
	if err := apply(&rec, f); err != nil {
		return err
	}
	return ledger.Save(store, rec, validate)
}

// formKeys maps the field names accepted on input, English or Spanish, to
// form fields.
var formKeys = map[string]string{
	"date": "date", "fecha": "date",
	"time": "time", "hora": "time",
	"product": "product", "producto": "product",
	"category": "category", "categoria": "category", "categoría": "category",
	"price": "price", "precio": "price",
	"payment": "payment", "pago": "payment", "forma": "payment",
	"notes": "notes", "notas": "notes",
	"entity": "entity", "entidad": "entity",
	"amount": "amount", "monto": "amount",
	"balance": "balance", "saldo": "balance",
	"interest": "interest", "interes": "interest", "interés": "interest",
	"due": "due", "vencimiento": "due",
	"type": "type", "tipo": "type",
	"description": "description", "descripcion": "description", "descripción": "description",
	"initial": "initial", "inicial": "initial",
	"value": "value", "valor": "value",
}

// form is a parsed list of field=value pairs.
type form map[string]string

// parseForm reads tokens such as `producto=Pizza grande precio=47.500`. A
// token without '=' continues the previous value.
func parseForm(tokens []string) (form, error) {
	f := form{}
	last := ""
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			if last == "" {
				return nil, fmt.Errorf("expected field=value, got %q", tok)
			}
			f[last] += " " + tok
			continue
		}
		name, known := formKeys[strings.ToLower(key)]
		if !known {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		f[name] = value
		last = name
	}
	return f, nil
}

func (f form) text(name string, dst *string) {
	if v, ok := f[name]; ok {
		*dst = strings.TrimSpace(v)
	}
}

func (f form) amount(name string, dst *decimal.Decimal) {
	if v, ok := f[name]; ok {
		*dst = money.ParseAmount(v)
	}
}

func (f form) date(name string, dst *civil.Date) error {
	v, ok := f[name]
	if !ok {
		return nil
	}
	d, ok := dates.Parse(v)
	if !ok {
		return fmt.Errorf("invalid %s %q", name, v)
	}
	*dst = d
	return nil
}

func applyExpense(r *model.ExpenseRecord, f form) error {
	f.text("time", &r.Time)
	f.text("product", &r.Product)
	f.text("category", &r.CategoryName)
	f.amount("price", &r.Price)
	f.text("payment", &r.PaymentMethod)
	f.text("notes", &r.Notes)
	return f.date("date", &r.Date)
}

func applyIncome(r *model.IncomeRecord, f form) error {
	f.text("time", &r.Time)
	f.text("entity", &r.Entity)
	f.amount("amount", &r.Amount)
	f.text("payment", &r.PaymentMethod)
	f.text("notes", &r.Notes)
	return f.date("date", &r.Date)
}

func applyDebt(r *model.DebtRecord, f form) error {
	f.text("time", &r.Time)
	f.text("entity", &r.Entity)
	f.amount("amount", &r.OriginalAmount)
	f.amount("balance", &r.CurrentBalance)
	f.amount("interest", &r.InterestRate)
	f.text("notes", &r.Notes)
	if _, ok := f["due"]; ok {
		var due civil.Date
		if err := f.date("due", &due); err != nil {
			return err
		}
		r.DueDate = &due
	}
	return f.date("date", &r.Date)
}

func applyCapital(r *model.CapitalMovementRecord, f form) error {
	if v, ok := f["type"]; ok {
		// An unknown label leaves the type empty for validation to reject.
		r.Type, _ = model.ParseCapitalType(v)
	}
	f.text("description", &r.Description)
	f.text("category", &r.CategoryName)
	f.amount("amount", &r.Amount)
	f.text("notes", &r.Notes)
	if r.Type.Outflow() {
		r.Amount = r.Amount.Abs().Neg()
	}
	return f.date("date", &r.Date)
}

func applyInvestment(r *model.InvestmentRecord, f form) error {
	f.text("type", &r.Type)
	f.text("description", &r.Description)
	f.text("category", &r.CategoryName)
	f.amount("initial", &r.InitialAmount)
	f.amount("value", &r.CurrentValue)
	f.text("notes", &r.Notes)
	return f.date("date", &r.Date)
}
