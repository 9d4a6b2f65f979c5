package summary

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profinance-crm/profinance/internal/model"
)

var today = civil.Date{Year: 2024, Month: time.December, Day: 19}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(offset int) civil.Date { return today.AddDays(offset) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestExpenses(t *testing.T) {
	recs := []model.ExpenseRecord{
		{Date: day(0), CategoryName: "Alimentos", Price: dec("30000")},
		{Date: day(-5), CategoryName: "Transporte", Price: dec("60000")},
		{Date: day(-30), CategoryName: "Alimentos", Price: dec("210000")},
		{Date: day(-31), CategoryName: "Salud", Price: dec("999000")},
	}
	s := Expenses(recs, today)
	assertDec(t, "1299000", s.Total, "total")
	assertDec(t, "90000", s.CurrentMonth, "current month")
	assertDec(t, "10000", s.DailyAverage, "daily average over 30 days")
	assert.Equal(t, 3, s.Categories)

	empty := Expenses(nil, today)
	assert.True(t, empty.Total.IsZero())
	assert.True(t, empty.DailyAverage.IsZero())
}

func TestTopCategories(t *testing.T) {
	recs := []model.ExpenseRecord{
		{Date: day(-1), CategoryName: "Alimentos", Price: dec("100")},
		{Date: day(-2), CategoryName: "Alimentos", Price: dec("150")},
		{Date: day(-3), CategoryName: "Transporte", Price: dec("200")},
		{Date: day(-3), CategoryName: "Ocio", Price: dec("200")},
		{Date: day(-40), CategoryName: "Vivienda", Price: dec("5000")},
	}
	got := TopCategories(recs, today, 30, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Alimentos", got[0].Category)
	assertDec(t, "250", got[0].Total, "alimentos")
	assert.Equal(t, "Ocio", got[1].Category, "ties sort by name")

	assert.Len(t, TopCategories(recs, today, 365, 0), 4)
}

func TestDebts(t *testing.T) {
	soon := day(10)
	later := day(90)
	past := day(-3)
	recs := []model.DebtRecord{
		{OriginalAmount: dec("1000"), CurrentBalance: dec("600"), InterestRate: dec("10"), DueDate: &later},
		{OriginalAmount: dec("3000"), CurrentBalance: dec("200"), InterestRate: dec("30"), DueDate: &soon},
		{OriginalAmount: dec("1000"), CurrentBalance: dec("0"), InterestRate: dec("20"), DueDate: &past},
	}
	s := Debts(recs, today)
	assertDec(t, "5000", s.Original, "original")
	assertDec(t, "800", s.Balance, "balance")
	assertDec(t, "4200", s.Paid, "paid")
	assertDec(t, "84", s.ProgressPercent, "progress")
	assertDec(t, "20", s.AverageInterest, "average interest")
	assertDec(t, "15", s.WeightedInterest, "weighted interest")
	require.NotNil(t, s.NextDue)
	assert.Equal(t, soon, *s.NextDue)

	empty := Debts(nil, today)
	assert.Nil(t, empty.NextDue)
	assert.True(t, empty.ProgressPercent.IsZero())
	assert.True(t, empty.WeightedInterest.IsZero())
}

func TestInvestments(t *testing.T) {
	s := Investments([]model.InvestmentRecord{
		{InitialAmount: dec("1000"), CurrentValue: dec("1500")},
		{InitialAmount: dec("1000"), CurrentValue: dec("700")},
	})
	assertDec(t, "2000", s.Initial, "initial")
	assertDec(t, "2200", s.Current, "current")
	assertDec(t, "200", s.Return, "return")
	assertDec(t, "10", s.ROIPercent, "roi")

	assert.True(t, Investments(nil).ROIPercent.IsZero())
}

func TestCapital(t *testing.T) {
	s := Capital([]model.CapitalMovementRecord{
		{Date: day(0), Amount: dec("5000000")},
		{Date: day(-60), Amount: dec("1000000")},
		{Date: day(-1), Amount: dec("-750000")},
		{Date: day(-60), Amount: dec("-250000")},
		{Date: day(0), Amount: dec("0")},
	}, today)
	assertDec(t, "6000000", s.Inflow, "inflow")
	assertDec(t, "1000000", s.Outflow, "outflow")
	assertDec(t, "5000000", s.Net, "net")
	assertDec(t, "5000000", s.MonthlyInflow, "monthly inflow")
	assertDec(t, "750000", s.MonthlyOutflow, "monthly outflow")
}

func TestDashboardOf(t *testing.T) {
	d := model.Dataset{
		Income:      []model.IncomeRecord{{Amount: dec("10000000")}},
		Expenses:    []model.ExpenseRecord{{Price: dec("2500000")}, {Price: dec("500000")}},
		Debts:       []model.DebtRecord{{OriginalAmount: dec("9000000"), CurrentBalance: dec("4000000")}},
		Investments: []model.InvestmentRecord{{InitialAmount: dec("1000000"), CurrentValue: dec("1200000")}},
	}
	m := DashboardOf(d)
	assertDec(t, "7000000", m.Liquid, "liquid")
	assertDec(t, "3000000", m.TotalCapital, "total capital")
	assertDec(t, "4000000", m.Debts, "debts")
	assertDec(t, "1200000", m.Investments, "investments")
}

func TestRecent(t *testing.T) {
	var d model.Dataset
	for i := range 8 {
		d.Expenses = append(d.Expenses, model.ExpenseRecord{Product: "gasto", Date: day(-i * 2), Price: dec("1")})
	}
	d.Income = []model.IncomeRecord{{Entity: "Empresa", Date: day(0), Time: "09:00", Amount: dec("100")}}
	d.Debts = []model.DebtRecord{{Entity: "Banco", Date: day(-1), CurrentBalance: dec("50"), InterestRate: dec("12.5")}}
	d.Expenses[0].Time = "18:30"

	got := Recent(d)
	require.Len(t, got, RecentLimit)
	assert.Equal(t, model.KindExpenses, got[0].Kind, "later time on the same day first")
	assert.Equal(t, model.KindIncome, got[1].Kind)
	assert.Equal(t, model.KindDebts, got[2].Kind)
	assert.Equal(t, "Interés: 12.5%", got[2].Description)
	assert.True(t, got[0].Amount.IsNegative())
	assert.True(t, got[1].Amount.IsPositive())
	assert.True(t, got[2].Amount.IsNegative())
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.After(got[i-1].Date))
	}
}
