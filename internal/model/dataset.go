package model

import "time"

// Dataset is the aggregate of every kind's records plus the last sync time.
type Dataset struct {
	Expenses    []ExpenseRecord         `json:"expenses"`
	Income      []IncomeRecord          `json:"income"`
	Debts       []DebtRecord            `json:"debts"`
	Capital     []CapitalMovementRecord `json:"capital"`
	Investments []InvestmentRecord      `json:"investments"`
	LastSync    time.Time               `json:"lastSync,omitzero"`
}

// Len returns the number of records held for kind.
func (d Dataset) Len(kind Kind) int {
	switch kind {
	case KindExpenses:
		return len(d.Expenses)
	case KindIncome:
		return len(d.Income)
	case KindDebts:
		return len(d.Debts)
	case KindCapital:
		return len(d.Capital)
	case KindInvestments:
		return len(d.Investments)
	default:
		return 0
	}
}

// Empty reports whether no kind holds any record.
func (d Dataset) Empty() bool {
	for _, k := range Kinds {
		if d.Len(k) > 0 {
			return false
		}
	}
	return true
}

// Records returns kind's records behind the Record interface.
func (d Dataset) Records(kind Kind) []Record {
	var out []Record
	switch kind {
	case KindExpenses:
		out = toRecords(d.Expenses)
	case KindIncome:
		out = toRecords(d.Income)
	case KindDebts:
		out = toRecords(d.Debts)
	case KindCapital:
		out = toRecords(d.Capital)
	case KindInvestments:
		out = toRecords(d.Investments)
	}
	return out
}

// Only returns a dataset holding just kind's records from d.
func (d Dataset) Only(kind Kind) Dataset {
	out := Dataset{LastSync: d.LastSync}
	out.Merge(kind, d)
	return out
}

// Merge copies kind's slice from src into d, replacing what d held for it.
func (d *Dataset) Merge(kind Kind, src Dataset) {
	switch kind {
	case KindExpenses:
		d.Expenses = src.Expenses
	case KindIncome:
		d.Income = src.Income
	case KindDebts:
		d.Debts = src.Debts
	case KindCapital:
		d.Capital = src.Capital
	case KindInvestments:
		d.Investments = src.Investments
	}
}

func toRecords[T Record](in []T) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
