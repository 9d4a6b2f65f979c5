package ledger

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profinance-crm/profinance/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(id, product, category, price string) model.ExpenseRecord {
	return model.ExpenseRecord{
		ID:            id,
		Date:          civil.Date{Year: 2024, Month: time.December, Day: 19},
		Product:       product,
		CategoryName:  category,
		Price:         dec(price),
		PaymentMethod: "Efectivo",
	}
}

func testStore() *Store[model.ExpenseRecord] {
	return NewStore([]model.ExpenseRecord{
		expense("e1", "Pizza", "Alimentos", "47500"),
		expense("e2", "Uber al centro", "Transporte", "25000"),
		expense("e3", "Supermercado", "Alimentos", "310000"),
	})
}

func ids(recs []model.ExpenseRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestStore_GetAndAll(t *testing.T) {
	s := testStore()
	assert.Equal(t, 3, s.Len())

	got, ok := s.Get("e2")
	require.True(t, ok)
	assert.Equal(t, "Uber al centro", got.Product)

	_, ok = s.Get("nope")
	assert.False(t, ok)

	all := s.All()
	all[0].Product = "mutated"
	got, _ = s.Get("e1")
	assert.Equal(t, "Pizza", got.Product, "All returns a copy")
}

func TestStore_AddPrepends(t *testing.T) {
	s := testStore()
	require.NoError(t, s.Add(expense("e4", "Café", "Alimentos", "12000")))
	assert.Equal(t, []string{"e4", "e1", "e2", "e3"}, ids(s.All()))

	err := s.Add(expense("e1", "Otra", "Otros", "1"))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 4, s.Len())
}

func TestStore_UpdateAndDelete(t *testing.T) {
	s := testStore()
	require.NoError(t, s.Update(expense("e2", "Taxi", "Transporte", "30000")))
	got, _ := s.Get("e2")
	assert.Equal(t, "Taxi", got.Product)
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(s.All()), "update keeps position")

	assert.ErrorIs(t, s.Update(expense("zz", "x", "y", "1")), ErrNotFound)

	require.NoError(t, s.Delete("e1"))
	assert.Equal(t, []string{"e2", "e3"}, ids(s.All()))
	assert.ErrorIs(t, s.Delete("e1"), ErrNotFound)
}

func TestStore_Replace(t *testing.T) {
	s := testStore()
	s.Replace([]model.ExpenseRecord{expense("n1", "Netflix", "Entretenimiento", "45000")})
	assert.Equal(t, []string{"n1"}, ids(s.All()))

	s.Replace(nil)
	assert.Zero(t, s.Len())
}

func TestStore_Search(t *testing.T) {
	s := testStore()
	tests := []struct {
		query string
		want  []string
	}{
		{"pizza", []string{"e1"}},
		{"  UBER ", []string{"e2"}},
		{"alimentos", []string{"e1", "e3"}},
		{"efectivo", []string{"e1", "e2", "e3"}},
		{"", []string{"e1", "e2", "e3"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := s.Search(tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestStore_FilterCategory(t *testing.T) {
	s := testStore()
	assert.Equal(t, []string{"e1", "e3"}, ids(s.FilterCategory("alimentos")))
	assert.Len(t, s.FilterCategory(""), 3)
	assert.Empty(t, s.FilterCategory("Salud"))
	assert.Equal(t, []string{"Alimentos", "Transporte"}, s.Categories())
}

func TestStore_Filter(t *testing.T) {
	s := testStore()
	cheap := s.Filter(func(r model.ExpenseRecord) bool {
		return r.Price.LessThan(decimal.NewFromInt(50_000))
	})
	assert.Equal(t, []string{"e1", "e2"}, ids(cheap))
}

func TestValidateExpense(t *testing.T) {
	assert.Empty(t, ValidateExpense(expense("e1", "Pizza", "Alimentos", "1")))

	errs := ValidateExpense(model.ExpenseRecord{ID: "bad", Price: dec("0")})
	require.Len(t, errs, 4)
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
		assert.Equal(t, "bad", e.RecordID)
	}
	assert.Equal(t, []string{"product", "category", "price", "paymentMethod"}, fields)
	assert.Contains(t, errs[2].Error(), "El precio debe ser mayor a 0")
}

func TestValidateDebt(t *testing.T) {
	due := civil.Date{Year: 2025, Month: time.June, Day: 1}
	valid := model.DebtRecord{
		ID: "d1", Entity: "Banco", Time: "00:00",
		OriginalAmount: dec("1000"), CurrentBalance: dec("400"), InterestRate: dec("12"), DueDate: &due,
	}
	assert.Empty(t, ValidateDebt(valid))

	over := valid
	over.CurrentBalance = dec("1500")
	errs := ValidateDebt(over)
	require.Len(t, errs, 1)
	assert.Equal(t, "currentBalance", errs[0].Field)

	noDue := valid
	noDue.DueDate = nil
	noDue.InterestRate = dec("-1")
	assert.Len(t, ValidateDebt(noDue), 2)
}

func TestValidateOtherKinds(t *testing.T) {
	assert.Empty(t, ValidateIncome(model.IncomeRecord{Entity: "Empresa", Amount: dec("10"), PaymentMethod: "Transferencia"}))
	assert.Len(t, ValidateIncome(model.IncomeRecord{}), 3)

	assert.Empty(t, ValidateCapital(model.CapitalMovementRecord{
		Description: "Salario", Type: model.CapitalIncome, CategoryName: "Salario", Amount: dec("100"),
	}))
	errs := ValidateCapital(model.CapitalMovementRecord{Description: "x", Type: "Gift", CategoryName: "y", Amount: dec("-5")})
	require.Len(t, errs, 1)
	assert.Equal(t, "type", errs[0].Field)

	assert.Empty(t, ValidateInvestment(model.InvestmentRecord{
		Description: "Apple", Type: "Acciones", CategoryName: "Renta Variable", InitialAmount: dec("10"), CurrentValue: dec("0"),
	}))
	assert.Len(t, ValidateInvestment(model.InvestmentRecord{CurrentValue: dec("-1")}), 5)
}

func TestSave_RejectsWithoutTouchingStore(t *testing.T) {
	s := testStore()
	err := Save(s, model.ExpenseRecord{ID: "e9"}, ValidateExpense)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 4)
	assert.Equal(t, 3, s.Len())
}

func TestSave_AddsOrUpdates(t *testing.T) {
	s := testStore()
	require.NoError(t, Save(s, expense("e9", "Libro", "Educación", "90000"), ValidateExpense))
	assert.Equal(t, "e9", s.All()[0].ID)

	require.NoError(t, Save(s, expense("e1", "Pizza grande", "Alimentos", "60000"), ValidateExpense))
	got, _ := s.Get("e1")
	assert.Equal(t, "Pizza grande", got.Product)
	assert.Equal(t, 4, s.Len())
}
