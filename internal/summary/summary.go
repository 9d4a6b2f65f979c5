// Package summary computes the totals shown on the overview screens.
package summary

import (
	"cmp"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/profinance-crm/profinance/internal/model"
)

// RecentLimit is the number of entries in the recent activity feed.
const RecentLimit = 10

var hundred = decimal.NewFromInt(100)

// ExpenseSummary totals the expenses screen.
type ExpenseSummary struct {
	Total        decimal.Decimal
	CurrentMonth decimal.Decimal
	DailyAverage decimal.Decimal // last 30 days, divided by 30
	Categories   int
}

// Expenses summarizes expenses as of today.
func Expenses(recs []model.ExpenseRecord, today civil.Date) ExpenseSummary {
	var s ExpenseSummary
	last30 := decimal.Zero
	cutoff := today.AddDays(-30)
	categories := make(map[string]bool)
	for _, r := range recs {
		s.Total = s.Total.Add(r.Price)
		if sameMonth(r.Date, today) {
			s.CurrentMonth = s.CurrentMonth.Add(r.Price)
		}
		if !r.Date.Before(cutoff) {
			last30 = last30.Add(r.Price)
		}
		categories[r.CategoryName] = true
	}
	s.DailyAverage = last30.Div(decimal.NewFromInt(30))
	s.Categories = len(categories)
	return s
}

// CategoryTotal is the spend of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// TopCategories returns up to limit categories by spend over the last
// days days, largest first. Ties keep alphabetical order.
func TopCategories(recs []model.ExpenseRecord, today civil.Date, days, limit int) []CategoryTotal {
	cutoff := today.AddDays(-days)
	totals := make(map[string]decimal.Decimal)
	for _, r := range recs {
		if r.Date.Before(cutoff) {
			continue
		}
		totals[r.CategoryName] = totals[r.CategoryName].Add(r.Price)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for c, t := range totals {
		out = append(out, CategoryTotal{Category: c, Total: t})
	}
	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DebtSummary totals the debts screen.
type DebtSummary struct {
	Original         decimal.Decimal
	Balance          decimal.Decimal
	Paid             decimal.Decimal
	ProgressPercent  decimal.Decimal
	AverageInterest  decimal.Decimal
	WeightedInterest decimal.Decimal // by outstanding balance
	NextDue          *civil.Date     // earliest due date after today
}

// Debts summarizes debts as of today.
func Debts(recs []model.DebtRecord, today civil.Date) DebtSummary {
	var s DebtSummary
	rates := decimal.Zero
	weighted := decimal.Zero
	for _, r := range recs {
		s.Original = s.Original.Add(r.OriginalAmount)
		s.Balance = s.Balance.Add(r.CurrentBalance)
		rates = rates.Add(r.InterestRate)
		weighted = weighted.Add(r.InterestRate.Mul(r.CurrentBalance))
		if r.DueDate != nil && r.DueDate.After(today) && (s.NextDue == nil || r.DueDate.Before(*s.NextDue)) {
			due := *r.DueDate
			s.NextDue = &due
		}
	}
	s.Paid = s.Original.Sub(s.Balance)
	if s.Original.IsPositive() {
		s.ProgressPercent = s.Paid.Div(s.Original).Mul(hundred)
	}
	if len(recs) > 0 {
		s.AverageInterest = rates.Div(decimal.NewFromInt(int64(len(recs))))
	}
	if s.Balance.IsPositive() {
		s.WeightedInterest = weighted.Div(s.Balance)
	}
	return s
}

// InvestmentSummary totals the investments screen.
type InvestmentSummary struct {
	Initial    decimal.Decimal
	Current    decimal.Decimal
	Return     decimal.Decimal
	ROIPercent decimal.Decimal
}

// Investments summarizes investment positions.
func Investments(recs []model.InvestmentRecord) InvestmentSummary {
	var s InvestmentSummary
	for _, r := range recs {
		s.Initial = s.Initial.Add(r.InitialAmount)
		s.Current = s.Current.Add(r.CurrentValue)
	}
	s.Return = s.Current.Sub(s.Initial)
	if s.Initial.IsPositive() {
		s.ROIPercent = s.Return.Div(s.Initial).Mul(hundred)
	}
	return s
}

// CapitalSummary totals capital movements. Outflow is a magnitude.
type CapitalSummary struct {
	Inflow         decimal.Decimal
	Outflow        decimal.Decimal
	Net            decimal.Decimal
	MonthlyInflow  decimal.Decimal
	MonthlyOutflow decimal.Decimal
}

// Capital summarizes capital movements as of today.
func Capital(recs []model.CapitalMovementRecord, today civil.Date) CapitalSummary {
	var s CapitalSummary
	for _, r := range recs {
		month := sameMonth(r.Date, today)
		switch {
		case r.Amount.IsPositive():
			s.Inflow = s.Inflow.Add(r.Amount)
			if month {
				s.MonthlyInflow = s.MonthlyInflow.Add(r.Amount)
			}
		case r.Amount.IsNegative():
			s.Outflow = s.Outflow.Add(r.Amount.Abs())
			if month {
				s.MonthlyOutflow = s.MonthlyOutflow.Add(r.Amount.Abs())
			}
		}
	}
	s.Net = s.Inflow.Sub(s.Outflow)
	return s
}

// Dashboard holds the headline figures of the main screen.
type Dashboard struct {
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Debts        decimal.Decimal // outstanding balances
	Investments  decimal.Decimal // current value
	TotalCapital decimal.Decimal // income - expenses - debts
	Liquid       decimal.Decimal // income - expenses
}

// DashboardOf computes the headline figures of d.
func DashboardOf(d model.Dataset) Dashboard {
	var m Dashboard
	for _, r := range d.Income {
		m.Income = m.Income.Add(r.Amount)
	}
	for _, r := range d.Expenses {
		m.Expenses = m.Expenses.Add(r.Price)
	}
	for _, r := range d.Debts {
		m.Debts = m.Debts.Add(r.CurrentBalance)
	}
	m.Investments = Investments(d.Investments).Current
	m.Liquid = m.Income.Sub(m.Expenses)
	m.TotalCapital = m.Liquid.Sub(m.Debts)
	return m
}

// Activity is one entry of the recent activity feed. Amount is signed:
// income positive, expenses and debts negative.
type Activity struct {
	Kind        model.Kind
	Title       string
	Description string
	Amount      decimal.Decimal
	Date        civil.Date
	Time        string
}

// Recent returns the RecentLimit most recent expenses, income and debts,
// newest first.
func Recent(d model.Dataset) []Activity {
	var out []Activity
	for _, r := range d.Expenses {
		out = append(out, Activity{
			Kind: model.KindExpenses, Title: r.Product, Description: r.CategoryName,
			Amount: r.Price.Neg(), Date: r.Date, Time: r.Time,
		})
	}
	for _, r := range d.Income {
		out = append(out, Activity{
			Kind: model.KindIncome, Title: r.Entity, Description: r.PaymentMethod,
			Amount: r.Amount, Date: r.Date, Time: r.Time,
		})
	}
	for _, r := range d.Debts {
		out = append(out, Activity{
			Kind: model.KindDebts, Title: r.Entity, Description: "Interés: " + r.InterestRate.String() + "%",
			Amount: r.CurrentBalance.Neg(), Date: r.Date, Time: r.Time,
		})
	}

	slices.SortStableFunc(out, func(a, b Activity) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.Time, a.Time)
	})
	if len(out) > RecentLimit {
		out = out[:RecentLimit]
	}
	return out
}

func sameMonth(d, today civil.Date) bool {
	return d.Year == today.Year && d.Month == today.Month
}
