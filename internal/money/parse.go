package money

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// symbolStripper removes currency markers before separators are interpreted.
// "Gs." goes before "Gs" so the abbreviation dot is not read as a separator.
var symbolStripper = strings.NewReplacer(
	"₲", "",
	"Gs.", "",
	"Gs", "",
	"gs.", "",
	"gs", "",
	"PYG", "",
	"$", "",
	"€", "",
	"%", "",
)

// ParseAmount converts sheet text such as "₲1.500,50", "Gs. 47.500" or
// "-120000" into a decimal. The Paraguayan convention applies: '.' groups
// thousands and ',' marks decimals. A lone '.' followed by anything other
// than exactly three digits is read as a decimal point so "1500.5" survives.
// Unparseable input, exponent notation included, yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = symbolStripper.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return decimal.Zero
	}

	s = canonicalSeparators(s)
	if !plainNumber(s) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		d = d.Neg()
	}
	return d
}

// canonicalSeparators rewrites s so the only separator left is a decimal point.
func canonicalSeparators(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		// The right-most separator marks decimals.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		return strings.Replace(s, ",", ".", 1)
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	case dots == 1:
		frac := s[strings.Index(s, ".")+1:]
		if len(frac) == 3 && isDigits(frac) {
			return strings.Replace(s, ".", "", 1)
		}
		return s
	default:
		return s
	}
}

// plainNumber reports whether s is an optional sign, digits and at most
// one decimal point. Exponents are refused: "1e99999999" would render as a
// hundred million digits.
func plainNumber(s string) bool {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return false
	}
	return (whole == "" || isDigits(whole)) && (frac == "" || isDigits(frac))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// FormatPlain renders d without grouping and with a decimal comma, the form
// written into exported sheets. ParseAmount reads it back unchanged.
func FormatPlain(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}
