package normalize

import (
	"strings"

	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/sheet"
)

// Field lists the source keys that may carry one canonical field, in
// priority order: English canonical name, Spanish camelCase name, sheet
// header spellings, then the bare column letter.
type Field struct {
	Name    string
	Keys    []string
	Default string
}

// AliasTable holds every canonical field of one dataset kind.
type AliasTable struct {
	Kind   model.Kind
	Fields []Field
}

// Field returns the named field. Unknown names yield a field with no keys.
func (t AliasTable) Field(name string) Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return Field{Name: name}
}

// Resolve returns the first candidate value of f present in row with
// non-blank content, trimmed. When none is present it returns f.Default and false.
func Resolve(row sheet.Row, f Field) (string, bool) {
	for _, key := range f.Keys {
		if v := strings.TrimSpace(row[key]); v != "" {
			return v, true
		}
	}
	return f.Default, false
}

// Canonical field names shared across tables.
const (
	FieldID             = "id"
	FieldDate           = "date"
	FieldTime           = "time"
	FieldProduct        = "product"
	FieldCategory       = "category"
	FieldPrice          = "price"
	FieldPaymentMethod  = "paymentMethod"
	FieldNotes          = "notes"
	FieldEntity         = "entity"
	FieldAmount         = "amount"
	FieldOriginalAmount = "originalAmount"
	FieldCurrentBalance = "currentBalance"
	FieldInterestRate   = "interestRate"
	FieldDueDate        = "dueDate"
	FieldType           = "type"
	FieldDescription    = "description"
	FieldInitialAmount  = "initialAmount"
	FieldCurrentValue   = "currentValue"
	FieldReturnPercent  = "returnPercent"
)

// Placeholders for absent text fields.
const (
	NoDescription    = "Sin descripción"
	NoEntity         = "Sin entidad"
	DefaultCategory  = "Otros"
	DefaultPayment   = "Efectivo"
	DefaultCapital   = "Ingreso"
	DefaultInvesting = "Acciones"
	ExpenseTime      = "12:00"
	MidnightTime     = "00:00"
)

var idField = Field{Name: FieldID, Keys: []string{"id", "ID", "Id"}}

var notesField = Field{Name: FieldNotes, Keys: []string{"notes", "notas", "Notas", "Notes"}}

// ExpenseAliases maps the expenses sheet (columns A-F: producto, fecha,
// precio, forma de pago, hora, categoría).
var ExpenseAliases = AliasTable{
	Kind: model.KindExpenses,
	Fields: []Field{
		idField,
		{Name: FieldDate, Keys: []string{"date", "fecha", "Fecha", "FECHA", "B"}},
		{Name: FieldTime, Keys: []string{"time", "hora", "Hora", "E"}, Default: ExpenseTime},
		{Name: FieldProduct, Keys: []string{"product", "producto", "Producto", "Descripción", "Descripcion", "A"}, Default: NoDescription},
		{Name: FieldCategory, Keys: []string{"category", "categoria", "Categoría", "Categoria", "F"}, Default: DefaultCategory},
		{Name: FieldPrice, Keys: []string{"price", "precio", "Precio", "Precio-Gs", "Precio Gs", "Precio (Gs)", "Monto", "C"}},
		{Name: FieldPaymentMethod, Keys: []string{"paymentMethod", "formaPago", "Forma de Pago", "Forma de pago", "forma de pago", "Método de Pago", "D"}, Default: DefaultPayment},
		notesField,
	},
}

// IncomeAliases maps the income sheet (columns A-E: fecha, entidad, monto,
// forma de pago, hora).
var IncomeAliases = AliasTable{
	Kind: model.KindIncome,
	Fields: []Field{
		idField,
		{Name: FieldDate, Keys: []string{"date", "fecha", "Fecha", "FECHA", "A"}},
		{Name: FieldEntity, Keys: []string{"entity", "entidad", "Entidad", "Fuente", "B"}, Default: NoEntity},
		{Name: FieldAmount, Keys: []string{"amount", "monto", "Monto", "Monto-Gs", "Monto Gs", "Monto (Gs)", "C"}},
		{Name: FieldPaymentMethod, Keys: []string{"paymentMethod", "formaPago", "Forma de Pago", "Forma de pago", "forma de pago", "Método de Pago", "D"}, Default: DefaultPayment},
		{Name: FieldTime, Keys: []string{"time", "hora", "Hora", "E"}, Default: MidnightTime},
		notesField,
	},
}

// DebtAliases maps the debts sheet (columns A-F: fecha, entidad, monto,
// interés, vencimiento, hora). The balance shares column C with the amount.
var DebtAliases = AliasTable{
	Kind: model.KindDebts,
	Fields: []Field{
		idField,
		{Name: FieldDate, Keys: []string{"date", "fecha", "Fecha", "FECHA", "A"}},
		{Name: FieldEntity, Keys: []string{"entity", "entidad", "Entidad", "Acreedor", "B"}, Default: NoEntity},
		{Name: FieldOriginalAmount, Keys: []string{"originalAmount", "monto", "amount", "Monto", "Monto Original", "Monto-Gs", "C"}},
		{Name: FieldCurrentBalance, Keys: []string{"currentBalance", "saldoActual", "Saldo Actual", "Saldo", "C"}},
		{Name: FieldInterestRate, Keys: []string{"interestRate", "tasaInteres", "interest", "interes", "Interés", "Interes", "Tasa", "D"}},
		{Name: FieldDueDate, Keys: []string{"dueDate", "fechaVencimiento", "vencimiento", "Vencimiento", "Fecha de Vencimiento", "E"}},
		{Name: FieldTime, Keys: []string{"time", "hora", "Hora", "F"}, Default: MidnightTime},
		notesField,
	},
}

// CapitalAliases maps capital movements. The sheet has no lettered layout.
var CapitalAliases = AliasTable{
	Kind: model.KindCapital,
	Fields: []Field{
		idField,
		{Name: FieldDate, Keys: []string{"date", "fecha", "Fecha", "FECHA"}},
		{Name: FieldType, Keys: []string{"type", "tipo", "Tipo", "Tipo de Movimiento"}, Default: DefaultCapital},
		{Name: FieldDescription, Keys: []string{"description", "descripcion", "Descripción", "Descripcion", "Concepto"}, Default: NoDescription},
		{Name: FieldCategory, Keys: []string{"category", "categoria", "Categoría", "Categoria"}, Default: DefaultCategory},
		{Name: FieldAmount, Keys: []string{"amount", "monto", "Monto", "Monto-Gs"}},
		notesField,
	},
}

// InvestmentAliases maps investment positions. The sheet has no lettered layout.
var InvestmentAliases = AliasTable{
	Kind: model.KindInvestments,
	Fields: []Field{
		idField,
		{Name: FieldDate, Keys: []string{"date", "fecha", "Fecha", "FECHA"}},
		{Name: FieldType, Keys: []string{"type", "tipo", "Tipo"}, Default: DefaultInvesting},
		{Name: FieldDescription, Keys: []string{"description", "descripcion", "Descripción", "Descripcion"}, Default: NoDescription},
		{Name: FieldCategory, Keys: []string{"category", "categoria", "Categoría", "Categoria"}, Default: DefaultCategory},
		{Name: FieldInitialAmount, Keys: []string{"initialAmount", "montoInicial", "Monto Inicial", "Inversión", "Monto"}},
		{Name: FieldCurrentValue, Keys: []string{"currentValue", "valorActual", "Valor Actual"}},
		{Name: FieldReturnPercent, Keys: []string{"returnPercent", "rendimiento", "Rendimiento", "Rendimiento %"}},
		notesField,
	},
}

// Tables returns the alias table of every kind.
func Tables() []AliasTable {
	return []AliasTable{ExpenseAliases, IncomeAliases, DebtAliases, CapitalAliases, InvestmentAliases}
}
