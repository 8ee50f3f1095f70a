// Package currency formats amounts as money for one fixed locale and currency.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "fr-FR"

// Formatter errors.
var (
	ErrUnknownLocale   = errors.New("unknown locale")
	ErrUnknownCurrency = errors.New("unknown currency")
)

const (
	noBreakSpace       = "\u00a0"
	narrowNoBreakSpace = "\u202f"
)

// profile describes how a locale writes money.
type profile struct {
	currency    string
	decimalSep  string
	groupSep    string
	symbolSep   string
	symbolAfter bool
}

// Supported locales. A locale whose language has no entry here uses the
// first one; region and script alone never select a profile.
var (
	supportedTags = []language.Tag{
		language.MustParse("fr-FR"),
		language.MustParse("en-US"),
		language.MustParse("en-GB"),
		language.MustParse("de-DE"),
		language.MustParse("es-ES"),
		language.MustParse("it-IT"),
		language.MustParse("pt-BR"),
		language.MustParse("ja-JP"),
	}

	profiles = []profile{
		{currency: "EUR", decimalSep: ",", groupSep: narrowNoBreakSpace, symbolSep: noBreakSpace, symbolAfter: true},
		{currency: "USD", decimalSep: ".", groupSep: ","},
		{currency: "GBP", decimalSep: ".", groupSep: ","},
		{currency: "EUR", decimalSep: ",", groupSep: ".", symbolSep: noBreakSpace, symbolAfter: true},
		{currency: "EUR", decimalSep: ",", groupSep: ".", symbolSep: noBreakSpace, symbolAfter: true},
		{currency: "EUR", decimalSep: ",", groupSep: ".", symbolSep: noBreakSpace, symbolAfter: true},
		{currency: "BRL", decimalSep: ",", groupSep: ".", symbolSep: noBreakSpace},
		{currency: "JPY", decimalSep: ".", groupSep: ","},
	}

	matcher = language.NewMatcher(supportedTags)
)

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"BRL": "R$",
	"CHF": "CHF",
	"AUD": "$",
	"CAD": "$",
}

// Formatter renders decimal amounts as currency text.
type Formatter struct {
	tag     language.Tag
	unit    xcurrency.Unit
	symbol  string
	profile profile
	scale   int32
}

// New creates a formatter for a locale such as "fr-FR". An empty code uses
// the currency of the locale's region; otherwise code is an ISO 4217 code
// like "EUR". The locale picks separators and symbol placement from the
// closest supported locale of the same language, or from fr-FR when the
// language is not supported.
func New(locale, code string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownLocale, locale, err)
	}

	index := profileIndex(tag)
	p := profiles[index]

	if code == "" {
		code = p.currency
		if u, conf := xcurrency.FromTag(tag); conf != language.No {
			code = u.String()
		}
	}
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownCurrency, code, err)
	}

	scale, _ := xcurrency.Standard.Rounding(unit)

	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String()
	}

	return &Formatter{
		tag:     supportedTags[index],
		unit:    unit,
		symbol:  symbol,
		profile: p,
		scale:   int32(scale), // #nosec G115 -- currency scales are single digits
	}, nil
}

// profileIndex returns the supported locale for tag, or 0 when the matcher
// found nothing in tag's language.
func profileIndex(tag language.Tag) int {
	_, index, conf := matcher.Match(tag)
	if conf == language.No {
		return 0
	}

	want, _ := tag.Base()
	got, _ := supportedTags[index].Base()
	if want != got {
		return 0
	}
	return index
}

// Default returns the euro formatter for the default locale.
func Default() *Formatter {
	f, err := New(DefaultLocale, "")
	if err != nil {
		panic(err)
	}
	return f
}

// Format rounds amount half-to-even to the currency's minor unit and renders
// it with the locale's separators and symbol placement.
func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.RoundBank(f.scale)
	negative := rounded.IsNegative()

	digits := rounded.Abs().StringFixed(f.scale)
	intPart, fracPart, _ := strings.Cut(digits, ".")

	number := groupThousands(intPart, f.profile.groupSep)
	if fracPart != "" {
		number += f.profile.decimalSep + fracPart
	}

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	if f.profile.symbolAfter {
		b.WriteString(number)
		b.WriteString(f.profile.symbolSep)
		b.WriteString(f.symbol)
	} else {
		b.WriteString(f.symbol)
		b.WriteString(f.profile.symbolSep)
		b.WriteString(number)
	}
	return b.String()
}

// Locale returns the matched locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Code returns the ISO 4217 currency code.
func (f *Formatter) Code() string {
	return f.unit.String()
}

// Symbol returns the currency symbol used in output.
func (f *Formatter) Symbol() string {
	return f.symbol
}

// Scale returns the number of fraction digits rendered.
func (f *Formatter) Scale() int32 {
	return f.scale
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
