package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCode is the currency used when none is configured.
const DefaultCode = "PYG"

// Currency formats amounts for display.
type Currency struct {
	Code    string // "PYG", "USD", "EUR"
	unit    currency.Unit
	scale   int
	printer *message.Printer
}

// symbolOverrides provides symbols where x/text defaults aren't ideal.
var symbolOverrides = map[string]string{
	"PYG": "₲",
}

// defaultLocaleForCurrency provides the formatting locale for each currency.
var defaultLocaleForCurrency = map[string]language.Tag{
	"PYG": language.Spanish,
	"USD": language.AmericanEnglish,
	"EUR": language.Spanish,
	"BRL": language.BrazilianPortuguese,
	"ARS": language.Spanish,
}

// New returns the Currency for an ISO code. Unknown codes keep the code as
// their symbol and format numbers the Spanish way.
func New(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCode
	}

	tag, ok := defaultLocaleForCurrency[code]
	if !ok {
		tag = language.Spanish
	}
	return NewWithLocale(code, tag)
}

// NewWithLocale returns a Currency formatting numbers for tag.
func NewWithLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(code)

	c := Currency{Code: code, printer: message.NewPrinter(tag)}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return c
	}
	c.unit = unit
	c.scale, _ = currency.Standard.Rounding(unit)
	return c
}

// Default returns the guaraní formatter.
func Default() Currency {
	return New(DefaultCode)
}

// Symbol returns the currency symbol.
func (c Currency) Symbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	if c.unit == (currency.Unit{}) {
		return c.Code
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// FormatNumber formats d with locale grouping and the currency's standard
// number of fraction digits, without a symbol.
func (c Currency) FormatNumber(d decimal.Decimal) string {
	v := d.Round(int32(c.scale)).InexactFloat64()
	return c.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(c.scale),
		number.MaxFractionDigits(c.scale),
	))
}

// Format formats d with the currency symbol in front, e.g. "₲ 1.500.000".
// Negative amounts render as "-₲ 50.000".
func (c Currency) Format(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + c.Symbol() + " " + c.FormatNumber(d.Neg())
	}
	return c.Symbol() + " " + c.FormatNumber(d)
}

// FormatPercent formats d as a percentage with the given fraction digits, e.g. "12,5%".
func (c Currency) FormatPercent(d decimal.Decimal, digits int) string {
	v := d.Round(int32(digits)).InexactFloat64()
	return c.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	)) + "%"
}
