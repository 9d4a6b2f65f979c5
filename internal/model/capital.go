package model

import "strings"

// CapitalType classifies a capital movement.
type CapitalType string

const (
	CapitalIncome     CapitalType = "Income"
	CapitalExpense    CapitalType = "Expense"
	CapitalTransfer   CapitalType = "Transfer"
	CapitalInvestment CapitalType = "Investment"
	CapitalLoan       CapitalType = "Loan"
	CapitalPayment    CapitalType = "Payment"
)

// CapitalTypes lists every movement type.
var CapitalTypes = []CapitalType{
	CapitalIncome, CapitalExpense, CapitalTransfer, CapitalInvestment, CapitalLoan, CapitalPayment,
}

// capitalLabels maps sheet spellings (lower-cased, accents kept) to types.
var capitalLabels = map[string]CapitalType{
	"income":        CapitalIncome,
	"ingreso":       CapitalIncome,
	"ingresos":      CapitalIncome,
	"expense":       CapitalExpense,
	"egreso":        CapitalExpense,
	"egresos":       CapitalExpense,
	"gasto":         CapitalExpense,
	"gastos":        CapitalExpense,
	"transfer":      CapitalTransfer,
	"transferencia": CapitalTransfer,
	"investment":    CapitalInvestment,
	"inversión":     CapitalInvestment,
	"inversion":     CapitalInvestment,
	"loan":          CapitalLoan,
	"préstamo":      CapitalLoan,
	"prestamo":      CapitalLoan,
	"payment":       CapitalPayment,
	"pago":          CapitalPayment,
}

// ParseCapitalType resolves an English or Spanish label. ok is false for unknown labels.
func ParseCapitalType(s string) (CapitalType, bool) {
	t, ok := capitalLabels[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// Outflow reports whether movements of this type always reduce capital.
func (t CapitalType) Outflow() bool {
	return t == CapitalExpense || t == CapitalPayment
}

// Label returns the Spanish label shown in exports.
func (t CapitalType) Label() string {
	switch t {
	case CapitalIncome:
		return "Ingreso"
	case CapitalExpense:
		return "Egreso"
	case CapitalTransfer:
		return "Transferencia"
	case CapitalInvestment:
		return "Inversión"
	case CapitalLoan:
		return "Préstamo"
	case CapitalPayment:
		return "Pago"
	default:
		return string(t)
	}
}

// Valid reports whether t is one of CapitalTypes.
func (t CapitalType) Valid() bool {
	for _, known := range CapitalTypes {
		if t == known {
			return true
		}
	}
	return false
}
