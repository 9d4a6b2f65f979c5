// Package sample generates synthetic records shown when no real data is reachable.
package sample

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/profinance-crm/profinance/internal/id"
	"github.com/profinance-crm/profinance/internal/model"
)

// DefaultSeed is used when no seed is configured.
const DefaultSeed uint64 = 20241219

// Record counts per kind.
const (
	ExpenseCount    = 50
	IncomeCount     = 20
	DebtCount       = 15
	CapitalCount    = 30
	InvestmentCount = 20
)

const sampleNote = "Nota de muestra"

var (
	expenseProducts   = []string{"Supermercado", "Restaurante", "Gasolina", "Uber", "Netflix", "Medicamentos", "Libros", "Alquiler", "Luz", "Agua", "Camisa", "Laptop", "Café", "Pan"}
	expenseCategories = []string{"Alimentos", "Transporte", "Entretenimiento", "Salud", "Educación", "Vivienda", "Servicios", "Ropa", "Tecnología", "Otros"}
	paymentMethods    = []string{"Efectivo", "Débito", "Crédito", "Transferencia", "Pago Móvil"}

	incomeEntities = []string{"Empresa Principal", "Cliente Freelance", "Banco Familiar", "Alquiler Departamento", "Ventas Online", "Dividendos"}

	debtEntities = []string{"Visa Banco Central", "Mastercard Itaú", "Préstamo Personal Banco Familiar", "Hipoteca Casa Principal", "Préstamo Auto Toyota", "Préstamo Universidad", "Línea de Crédito Comercial", "Tarjeta de Crédito Shopping", "Préstamo Renovación"}

	capitalCategories   = []string{"Salario", "Freelance", "Inversiones", "Ventas", "Gastos Personales", "Gastos de Negocio", "Transferencias", "Otros"}
	capitalDescriptions = []string{"Salario Mensual", "Pago por Proyecto", "Dividendos", "Venta de Productos", "Gastos de Alimentación", "Pago de Servicios", "Transferencia Bancaria", "Inversión en Acciones", "Préstamo Personal", "Pago de Deuda", "Comisión por Venta"}

	investmentTypes        = []string{"Acciones", "Bonos", "Fondos Mutuos", "Criptomonedas", "Bienes Raíces", "Oro", "Plata", "Forex"}
	investmentCategories   = []string{"Renta Variable", "Renta Fija", "Commodities", "Bienes Raíces", "Criptomonedas", "Metales Preciosos", "Otros"}
	investmentDescriptions = []string{"Apple Inc.", "Microsoft Corp.", "Tesla Inc.", "Amazon.com", "Google LLC", "Bitcoin", "Ethereum", "Fondo S&P 500", "Bono del Tesoro", "Oro Físico", "Apartamento Centro", "Terreno Residencial", "Oficina Comercial"}
)

// Generator produces structurally valid records from a seeded source. The
// same seed, kind and day always produce the same records.
type Generator struct {
	seed  uint64
	today civil.Date
}

// New creates a generator anchored at today.
func New(seed uint64, today civil.Date) *Generator {
	return &Generator{seed: seed, today: today}
}

// Dataset returns sample records for kind only.
func (g *Generator) Dataset(kind model.Kind) model.Dataset {
	switch kind {
	case model.KindExpenses:
		return model.Dataset{Expenses: g.Expenses()}
	case model.KindIncome:
		return model.Dataset{Income: g.Income()}
	case model.KindDebts:
		return model.Dataset{Debts: g.Debts()}
	case model.KindCapital:
		return model.Dataset{Capital: g.Capital()}
	case model.KindInvestments:
		return model.Dataset{Investments: g.Investments()}
	default:
		return model.Dataset{}
	}
}

// All returns sample records for every kind.
func (g *Generator) All() model.Dataset {
	var d model.Dataset
	for _, k := range model.Kinds {
		d.Merge(k, g.Dataset(k))
	}
	return d
}

// rng returns a source private to kind so kinds do not shift each other.
func (g *Generator) rng(kind model.Kind) *rand.Rand {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s/%s", kind, g.today)
	return rand.New(rand.NewPCG(g.seed, h.Sum64()))
}

func pick(r *rand.Rand, from []string) string {
	return from[r.IntN(len(from))]
}

// between returns an integer amount in [lo, hi).
func between(r *rand.Rand, lo, hi int64) decimal.Decimal {
	return decimal.NewFromInt(lo + r.Int64N(hi-lo))
}

func note(r *rand.Rand) string {
	if r.Float64() > 0.7 {
		return sampleNote
	}
	return ""
}

func (g *Generator) daysAgo(r *rand.Rand, window int) civil.Date {
	return g.today.AddDays(-r.IntN(window))
}

// Expenses returns ExpenseCount expenses from the last year, newest first.
func (g *Generator) Expenses() []model.ExpenseRecord {
	r := g.rng(model.KindExpenses)
	out := make([]model.ExpenseRecord, ExpenseCount)
	for i := range out {
		out[i] = model.ExpenseRecord{
			ID:            id.FormatSampleID(model.KindExpenses, i+1),
			Date:          g.daysAgo(r, 365),
			Time:          fmt.Sprintf("%02d:%02d", r.IntN(24), r.IntN(60)),
			Product:       pick(r, expenseProducts),
			CategoryName:  pick(r, expenseCategories),
			Price:         between(r, 10_000, 510_000),
			PaymentMethod: pick(r, paymentMethods),
			Notes:         note(r),
		}
	}
	newestFirst(out)
	return out
}

// Income returns IncomeCount income records from the last year, newest first.
func (g *Generator) Income() []model.IncomeRecord {
	r := g.rng(model.KindIncome)
	out := make([]model.IncomeRecord, IncomeCount)
	for i := range out {
		out[i] = model.IncomeRecord{
			ID:            id.FormatSampleID(model.KindIncome, i+1),
			Date:          g.daysAgo(r, 365),
			Entity:        pick(r, incomeEntities),
			Amount:        between(r, 500_000, 15_000_000),
			PaymentMethod: pick(r, paymentMethods),
			Time:          fmt.Sprintf("%02d:%02d", r.IntN(24), r.IntN(60)),
			Notes:         note(r),
		}
	}
	newestFirst(out)
	return out
}

// Debts returns DebtCount debts opened within three years, 0-80% repaid,
// 5-35% interest, due within five years, soonest due first.
func (g *Generator) Debts() []model.DebtRecord {
	r := g.rng(model.KindDebts)
	out := make([]model.DebtRecord, DebtCount)
	for i := range out {
		original := between(r, 1_000_000, 51_000_000)
		paid := decimal.NewFromFloat(r.Float64() * 0.8)
		due := g.today.AddDays(r.IntN(1825))
		out[i] = model.DebtRecord{
			ID:             id.FormatSampleID(model.KindDebts, i+1),
			Date:           g.daysAgo(r, 1095),
			Entity:         pick(r, debtEntities),
			OriginalAmount: original,
			CurrentBalance: original.Mul(decimal.NewFromInt(1).Sub(paid)).Floor(),
			InterestRate:   decimal.NewFromFloat(r.Float64()*30 + 5).Round(2),
			DueDate:        &due,
			Time:           "00:00",
			Notes:          note(r),
		}
	}
	slices.SortStableFunc(out, func(a, b model.DebtRecord) int {
		return a.DueDate.Compare(*b.DueDate)
	})
	return out
}

// Capital returns CapitalCount movements from the last year, newest first.
// Inflows range 100K-10M and outflows -50K to -5M.
func (g *Generator) Capital() []model.CapitalMovementRecord {
	r := g.rng(model.KindCapital)
	out := make([]model.CapitalMovementRecord, CapitalCount)
	for i := range out {
		typ := model.CapitalTypes[r.IntN(len(model.CapitalTypes))]
		amount := between(r, 100_000, 10_100_000)
		if typ != model.CapitalIncome {
			amount = between(r, 50_000, 5_050_000).Neg()
		}
		out[i] = model.CapitalMovementRecord{
			ID:           id.FormatSampleID(model.KindCapital, i+1),
			Date:         g.daysAgo(r, 365),
			Type:         typ,
			Description:  pick(r, capitalDescriptions),
			CategoryName: pick(r, capitalCategories),
			Amount:       amount,
			Notes:        note(r),
		}
	}
	newestFirst(out)
	return out
}

// Investments returns InvestmentCount positions opened within three years,
// performing between -30% and +170% but never below 10% of the initial amount.
func (g *Generator) Investments() []model.InvestmentRecord {
	r := g.rng(model.KindInvestments)
	out := make([]model.InvestmentRecord, InvestmentCount)
	for i := range out {
		initial := between(r, 1_000_000, 51_000_000)
		performance := decimal.NewFromFloat((r.Float64() - 0.3) * 2)
		current := decimal.Max(
			initial.Mul(decimal.NewFromInt(1).Add(performance)),
			initial.Mul(decimal.NewFromFloat(0.1)),
		).Floor()
		out[i] = model.InvestmentRecord{
			ID:            id.FormatSampleID(model.KindInvestments, i+1),
			Date:          g.daysAgo(r, 1095),
			Type:          pick(r, investmentTypes),
			Description:   pick(r, investmentDescriptions),
			CategoryName:  pick(r, investmentCategories),
			InitialAmount: initial,
			CurrentValue:  current,
			Notes:         note(r),
		}
	}
	newestFirst(out)
	return out
}

func newestFirst[T model.Record](recs []T) {
	slices.SortStableFunc(recs, func(a, b T) int {
		return b.RecordDate().Compare(a.RecordDate())
	})
}
