package model

import (
	"fmt"
	"strings"
)

// Kind identifies one of the dataset collections.
type Kind string

const (
	KindExpenses    Kind = "expenses"
	KindIncome      Kind = "income"
	KindDebts       Kind = "debts"
	KindCapital     Kind = "capital"
	KindInvestments Kind = "investments"
)

// Kinds lists every dataset kind in display order.
var Kinds = []Kind{KindExpenses, KindIncome, KindDebts, KindCapital, KindInvestments}

// kindAliases maps the Spanish page names to kinds.
var kindAliases = map[string]Kind{
	"gastos":      KindExpenses,
	"ingresos":    KindIncome,
	"deudas":      KindDebts,
	"inversiones": KindInvestments,
}

// ParseKind resolves a kind from its name (English or Spanish, any case).
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown dataset kind %q (available: %v)", s, Kinds)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Label returns the Spanish page title for the kind.
func (k Kind) Label() string {
	switch k {
	case KindExpenses:
		return "Gastos"
	case KindIncome:
		return "Ingresos"
	case KindDebts:
		return "Deudas"
	case KindCapital:
		return "Capital"
	case KindInvestments:
		return "Inversiones"
	default:
		return string(k)
	}
}
