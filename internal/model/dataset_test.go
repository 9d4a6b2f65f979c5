package model

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"expenses", KindExpenses},
		{"  Income ", KindIncome},
		{"gastos", KindExpenses},
		{"DEUDAS", KindDebts},
		{"capital", KindCapital},
		{"inversiones", KindInvestments},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, "ParseKind(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseKind("budgets")
	assert.Error(t, err)
	assert.False(t, Kind("budgets").Valid())
}

func TestDatasetMergeAndOnly(t *testing.T) {
	src := Dataset{
		Expenses: []ExpenseRecord{{ID: "e1", Price: decimal.NewFromInt(10)}},
		Debts:    []DebtRecord{{ID: "d1"}},
	}

	var agg Dataset
	assert.True(t, agg.Empty())
	agg.Merge(KindExpenses, src)
	assert.Equal(t, 1, agg.Len(KindExpenses))
	assert.Equal(t, 0, agg.Len(KindDebts), "merge copies only the requested kind")

	only := src.Only(KindDebts)
	assert.Equal(t, 1, only.Len(KindDebts))
	assert.Equal(t, 0, only.Len(KindExpenses))
}

func TestDatasetRecords(t *testing.T) {
	d := Dataset{Capital: []CapitalMovementRecord{
		{ID: "c1", Type: CapitalIncome, Date: civil.Date{Year: 2024, Month: 12, Day: 19}},
	}}
	recs := d.Records(KindCapital)
	require.Len(t, recs, 1)
	assert.Equal(t, "c1", recs[0].RecordID())
	assert.Equal(t, KindCapital, recs[0].RecordKind())
	assert.Equal(t, 19, recs[0].RecordDate().Day)
	assert.Empty(t, d.Records(KindIncome))
}

func TestDebtProgress(t *testing.T) {
	d := DebtRecord{OriginalAmount: decimal.NewFromInt(1000), CurrentBalance: decimal.NewFromInt(250)}
	assert.Equal(t, "750", d.Paid().String())
	assert.Equal(t, "75", d.ProgressPercent().String())

	assert.True(t, DebtRecord{}.ProgressPercent().IsZero())
}

func TestInvestmentROI(t *testing.T) {
	inv := InvestmentRecord{InitialAmount: decimal.NewFromInt(200), CurrentValue: decimal.NewFromInt(250)}
	assert.Equal(t, "50", inv.Return().String())
	assert.Equal(t, "25", inv.ROIPercent().String())
}

func TestParseCapitalType(t *testing.T) {
	tests := []struct {
		in   string
		want CapitalType
	}{
		{"Ingreso", CapitalIncome},
		{"Gasto", CapitalExpense},
		{"egreso", CapitalExpense},
		{"Inversión", CapitalInvestment},
		{"Préstamo", CapitalLoan},
		{"Pago", CapitalPayment},
		{"Transfer", CapitalTransfer},
	}
	for _, tt := range tests {
		got, ok := ParseCapitalType(tt.in)
		assert.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, ok := ParseCapitalType("Freelance")
	assert.False(t, ok)

	assert.True(t, CapitalExpense.Outflow())
	assert.True(t, CapitalPayment.Outflow())
	assert.False(t, CapitalLoan.Outflow())
	assert.Equal(t, "Egreso", CapitalExpense.Label())
}
