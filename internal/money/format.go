// Package money formats minor-unit amounts for display.
package money

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MinorUnitExponent is the power of ten between minor and major units (paise to rupees).
const MinorUnitExponent = 2

// Formatter renders amounts with locale-aware digit grouping and a currency prefix.
type Formatter struct {
	printer *message.Printer
	prefix  string
	point   string
}

// NewFormatter creates a formatter for a BCP 47 locale such as "en" or "en-IN".
func NewFormatter(locale, prefix string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	printer := message.NewPrinter(tag)
	return &Formatter{
		printer: printer,
		prefix:  prefix,
		point:   decimalSeparator(printer),
	}, nil
}

// decimalSeparator is whatever the locale prints between the digits of 1.5.
func decimalSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	_, first := utf8.DecodeRuneInString(s)
	_, last := utf8.DecodeLastRuneInString(s)
	if first+last >= len(s) {
		return "."
	}
	return s[first : len(s)-last]
}

// ToMajor converts a minor-unit amount to major units without rounding.
func ToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// Amount formats a unit price or line subtotal: grouped, with only the
// fraction digits the amount needs ("Rs. 1,000", "Rs. 499.5").
func (f *Formatter) Amount(minor int64) string {
	return f.withPrefix(f.format(minor, true))
}

// Total formats a summary figure with exactly two fraction digits ("Rs. 1,000.00").
func (f *Formatter) Total(minor int64) string {
	return f.withPrefix(f.format(minor, false))
}

// format groups the integer part through the locale printer and appends the
// fraction digits taken from the decimal itself, so no amount goes through
// a float64.
func (f *Formatter) format(minor int64, trim bool) string {
	d := ToMajor(minor)
	whole := d.IntPart()
	frac := d.Sub(decimal.NewFromInt(whole)).Abs().StringFixed(MinorUnitExponent)[2:]
	if trim {
		frac = strings.TrimRight(frac, "0")
	}

	s := f.printer.Sprint(number.Decimal(whole))
	if whole == 0 && d.IsNegative() {
		s = "-" + s
	}
	if frac == "" {
		return s
	}
	return s + f.point + frac
}

func (f *Formatter) withPrefix(s string) string {
	if f.prefix == "" {
		return s
	}
	return f.prefix + " " + s
}
