package internal

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats amounts for console reports. The zero value is not usable;
// use GetCurrency or GetCurrencyWithLocale.
type Currency struct {
	Code    string // "USD", "SEK", "EUR"
	unit    currency.Unit
	known   bool
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// prefixCurrencies place the symbol before the amount. x/text does not expose
// CLDR symbol placement, so the list is kept by hand.
var prefixCurrencies = map[string]bool{
	"USD": true, "GBP": true, "JPY": true, "CAD": true, "AUD": true, "MXN": true,
	"HKD": true, "SGD": true, "NZD": true, "ZAR": true, "INR": true,
}

// defaultLocaleForCurrency is the formatting locale used when no system locale applies
var defaultLocaleForCurrency = map[string]language.Tag{
	"USD": language.AmericanEnglish,
	"SEK": language.Swedish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"MXN": language.LatinAmericanSpanish,
	"INR": language.MustParse("en-IN"),
	"PLN": language.Polish,
	"NZD": language.MustParse("en-NZ"),
}

// GetCurrency returns the Currency for a code, formatted with the currency's home locale.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(code)
	tag, ok := defaultLocaleForCurrency[code]
	if !ok {
		tag = language.English
	}
	return GetCurrencyWithLocale(code, tag)
}

// GetCurrencyWithLocale returns a Currency with a specific locale for formatting.
// Unknown codes are formatted with the code as symbol.
func GetCurrencyWithLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(code)
	unit, err := currency.ParseISO(code)
	return Currency{
		Code:    code,
		unit:    unit,
		known:   err == nil,
		printer: message.NewPrinter(tag),
	}
}

// DetectCurrency picks a currency from the locale environment (LC_MONETARY,
// LC_ALL, LANG), falling back to USD.
func DetectCurrency() Currency {
	if code, tag := parseCurrencyFromLocale(systemLocale()); code != "" {
		return GetCurrencyWithLocale(code, tag)
	}
	return GetCurrency("USD")
}

// ResolveCurrency returns the currency for an explicit code, or the detected one when code is empty.
func ResolveCurrency(code string) Currency {
	if code != "" {
		return GetCurrency(code)
	}
	return DetectCurrency()
}

func systemLocale() string {
	for _, envVar := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "sv_SE.UTF-8" -> ("SEK", sv-SE), "pt_BR.UTF-8" -> ("BRL", pt-BR)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	base := locale
	if idx := strings.IndexAny(base, ".@"); idx != -1 {
		base = base[:idx]
	}
	if base == "" {
		return "", language.Und
	}

	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}
	return unit.String(), tag
}

func (c Currency) symbol() string {
	if !c.known {
		return c.Code
	}
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// Format formats an amount with two fraction digits and the currency symbol
func (c Currency) Format(amount float64) string {
	formatted := c.printer.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if prefixCurrencies[c.Code] {
		return c.symbol() + formatted
	}
	return formatted + " " + c.symbol()
}

// FormatDecimal is Format for exact amounts.
func (c Currency) FormatDecimal(d decimal.Decimal) string {
	return c.Format(d.InexactFloat64())
}
