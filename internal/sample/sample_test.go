package sample

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profinance-crm/profinance/internal/id"
	"github.com/profinance-crm/profinance/internal/model"
)

var today = civil.Date{Year: 2024, Month: time.December, Day: 19}

func TestDeterministic(t *testing.T) {
	a := New(DefaultSeed, today).All()
	b := New(DefaultSeed, today).All()
	assert.Equal(t, a, b)

	c := New(DefaultSeed+1, today).Expenses()
	assert.NotEqual(t, a.Expenses, c)
}

func TestKindsIndependentOfOrder(t *testing.T) {
	g := New(DefaultSeed, today)
	first := g.Debts()
	g.Expenses()
	assert.Equal(t, first, g.Debts())
}

func TestCounts(t *testing.T) {
	d := New(DefaultSeed, today).All()
	assert.Len(t, d.Expenses, ExpenseCount)
	assert.Len(t, d.Income, IncomeCount)
	assert.Len(t, d.Debts, DebtCount)
	assert.Len(t, d.Capital, CapitalCount)
	assert.Len(t, d.Investments, InvestmentCount)

	only := New(DefaultSeed, today).Dataset(model.KindCapital)
	assert.Equal(t, CapitalCount, only.Len(model.KindCapital))
	assert.Equal(t, 0, only.Len(model.KindExpenses))
	assert.True(t, New(DefaultSeed, today).Dataset(model.Kind("x")).Empty())
}

func TestExpensesInvariants(t *testing.T) {
	min, max := decimal.NewFromInt(10_000), decimal.NewFromInt(510_000)
	exp := New(DefaultSeed, today).Expenses()
	for i, e := range exp {
		assert.True(t, e.Price.GreaterThanOrEqual(min) && e.Price.LessThan(max), "price %s", e.Price)
		assert.LessOrEqual(t, today.DaysSince(e.Date), 365)
		assert.GreaterOrEqual(t, today.DaysSince(e.Date), 0)
		assert.True(t, id.IsSample(e.ID))
		assert.Len(t, e.Time, 5)
		if i > 0 {
			assert.False(t, e.Date.After(exp[i-1].Date), "newest first")
		}
	}
}

func TestDebtsInvariants(t *testing.T) {
	debts := New(DefaultSeed, today).Debts()
	for i, d := range debts {
		assert.True(t, d.OriginalAmount.IsPositive())
		assert.False(t, d.CurrentBalance.IsNegative())
		assert.True(t, d.CurrentBalance.LessThanOrEqual(d.OriginalAmount))
		assert.True(t, d.CurrentBalance.GreaterThanOrEqual(d.OriginalAmount.Mul(decimal.NewFromFloat(0.2)).Floor()))
		assert.True(t, d.InterestRate.GreaterThanOrEqual(decimal.NewFromInt(5)))
		assert.True(t, d.InterestRate.LessThanOrEqual(decimal.NewFromInt(35)))
		require.NotNil(t, d.DueDate)
		assert.False(t, d.DueDate.Before(today))
		if i > 0 {
			assert.False(t, d.DueDate.Before(*debts[i-1].DueDate), "soonest due first")
		}
	}
}

func TestCapitalSigns(t *testing.T) {
	for _, c := range New(DefaultSeed, today).Capital() {
		assert.False(t, c.Amount.IsZero())
		if c.Type == model.CapitalIncome {
			assert.True(t, c.Amount.IsPositive())
		} else {
			assert.True(t, c.Amount.IsNegative(), "%s should be an outflow", c.Type)
		}
	}
}

func TestInvestmentsFloor(t *testing.T) {
	for _, inv := range New(DefaultSeed, today).Investments() {
		assert.True(t, inv.InitialAmount.IsPositive())
		assert.True(t, inv.CurrentValue.GreaterThanOrEqual(inv.InitialAmount.Mul(decimal.NewFromFloat(0.1)).Floor()))
	}
}
