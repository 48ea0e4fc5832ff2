// Package countries holds the supported-country reference data: currency,
// display symbol, payout support, and fiscal-year boundaries.
package countries

import (
	"fmt"
	"strings"
	"time"
)

// FiscalDate is a recurring month/day boundary of a fiscal year.
type FiscalDate struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// Country describes a supported country.
type Country struct {
	Name                string     `json:"country"`
	Currency            string     `json:"currency"`
	Symbol              string     `json:"symbol"`
	SymbolAfterAmount   bool       `json:"afterCurrency,omitempty"`
	SupportsBankPayouts bool       `json:"supportsBankPayouts"`
	FiscalStart         FiscalDate `json:"fiscalStart"`
	FiscalEnd           FiscalDate `json:"fiscalEnd"`
}

// FiscalYear is the start and end boundary of a country's fiscal year.
type FiscalYear struct {
	Start FiscalDate `json:"start"`
	End   FiscalDate `json:"end"`
}

// Option is a {value,label} pair for selection lists.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var supported = map[string]Country{
	"US": {
		Name: "United States", Currency: "USD", Symbol: "$", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.October, 1}, FiscalEnd: FiscalDate{time.September, 30},
	},
	"GB": {
		Name: "United Kingdom", Currency: "GBP", Symbol: "£", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.April, 6}, FiscalEnd: FiscalDate{time.April, 5},
	},
	"AU": {
		Name: "Australia", Currency: "AUD", Symbol: "$", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.July, 1}, FiscalEnd: FiscalDate{time.June, 30},
	},
	"DK": {
		Name: "Denmark", Currency: "DKK", Symbol: "DKK", SymbolAfterAmount: true, SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"CA": {
		Name: "Canada", Currency: "CAD", Symbol: "$", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.April, 1}, FiscalEnd: FiscalDate{time.March, 31},
	},
	"SE": {
		Name: "Sweden", Currency: "SEK", Symbol: "SEK", SymbolAfterAmount: true, SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"NO": {
		Name: "Norway", Currency: "NOK", Symbol: "NOK", SymbolAfterAmount: true, SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"FR": {
		Name: "France", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"AT": {
		Name: "Austria", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"MX": {
		Name: "Mexico", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"BE": {
		Name: "Belgium", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"IE": {
		Name: "Ireland", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"NE": {
		Name: "Netherlands", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
	"NZ": {
		Name: "New Zealand", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.April, 1}, FiscalEnd: FiscalDate{time.March, 31},
	},
	"ES": {
		Name: "Spain", Currency: "EUR", Symbol: "€", SupportsBankPayouts: true,
		FiscalStart: FiscalDate{time.January, 1}, FiscalEnd: FiscalDate{time.December, 31},
	},
}

// IsSupported reports whether the country code is in the supported set.
func IsSupported(code string) bool {
	_, ok := supported[strings.ToUpper(code)]
	return ok
}

// Get returns the country for a code.
func Get(code string) (Country, bool) {
	c, ok := supported[strings.ToUpper(code)]
	return c, ok
}

// SupportedList returns the supported countries as {value,label} options.
func SupportedList() []Option {
	out := make([]Option, 0, len(supported))
	for code, c := range supported {
		out = append(out, Option{Value: code, Label: c.Name})
	}
	return out
}

// CodeByName returns the country code for a country name (case-insensitive).
func CodeByName(name string) (string, error) {
	for code, c := range supported {
		if strings.EqualFold(c.Name, name) {
			return code, nil
		}
	}
	return "", fmt.Errorf("unsupported country %q", name)
}

// CurrencyByName returns the currency code for a country name.
func CurrencyByName(name string) (string, error) {
	code, err := CodeByName(name)
	if err != nil {
		return "", err
	}
	return supported[code].Currency, nil
}

// SymbolByCurrency returns the display symbol for a currency code.
func SymbolByCurrency(currency string) (string, error) {
	for _, c := range supported {
		if strings.EqualFold(c.Currency, currency) {
			return c.Symbol, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q", currency)
}

// FiscalYearByCode returns the fiscal-year boundaries for a country code.
func FiscalYearByCode(code string) (FiscalYear, error) {
	c, ok := Get(code)
	if !ok {
		return FiscalYear{}, fmt.Errorf("unsupported country %q", code)
	}
	return FiscalYear{Start: c.FiscalStart, End: c.FiscalEnd}, nil
}
