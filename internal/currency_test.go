package internal

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGetCurrency_CaseInsensitive(t *testing.T) {
	tests := []string{"usd", "Usd", "USD", "usD"}
	for _, code := range tests {
		c := GetCurrency(code)
		if c.Code != "USD" {
			t.Errorf("GetCurrency(%q).Code = %q, want USD", code, c.Code)
		}
	}
}

func TestCurrency_Format(t *testing.T) {
	// x/text uses non-breaking space (U+00A0) for Swedish thousand separators
	nbsp := "\u00a0"

	tests := []struct {
		name   string
		code   string
		amount float64
		want   string
	}{
		{"USD cents", "USD", 15.99, "$15.99"},
		{"USD thousands", "USD", 1234.5, "$1,234.50"},
		{"USD whole", "USD", 100, "$100.00"},
		{"GBP", "GBP", 9.99, "£9.99"},
		{"SEK", "SEK", 99, "99,00 kr"},
		{"SEK thousands", "SEK", 1234.5, "1" + nbsp + "234,50 kr"},
		{"EUR", "EUR", 1234, "1.234,00 €"},
		{"Unknown", "XYZ", 100, "100.00 XYZ"},
		{"Unknown thousands", "XYZ", 1234.56, "1,234.56 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetCurrency(tt.code).Format(tt.amount)
			if got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestCurrency_FormatDecimal(t *testing.T) {
	got := GetCurrency("USD").FormatDecimal(decimal.RequireFromString("15.99"))
	if got != "$15.99" {
		t.Errorf("expected $15.99, got %q", got)
	}
}

func TestParseCurrencyFromLocale(t *testing.T) {
	tests := []struct {
		locale       string
		wantCurrency string
		wantTag      string
	}{
		{"sv_SE.UTF-8", "SEK", "sv-SE"},
		{"en_US.UTF-8", "USD", "en-US"},
		{"pt_BR.UTF-8", "BRL", "pt-BR"},
		{"de_DE", "EUR", "de-DE"},
		{"de_DE@euro", "EUR", "de-DE"},
		{"en_GB.UTF-8", "GBP", "en-GB"},
		{"C", "", ""},
		{"en", "", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			gotCurrency, gotTag := parseCurrencyFromLocale(tt.locale)
			if gotCurrency != tt.wantCurrency {
				t.Errorf("parseCurrencyFromLocale(%q) currency = %q, want %q", tt.locale, gotCurrency, tt.wantCurrency)
			}
			if tt.wantTag != "" && gotTag.String() != tt.wantTag {
				t.Errorf("parseCurrencyFromLocale(%q) tag = %q, want %q", tt.locale, gotTag.String(), tt.wantTag)
			}
		})
	}
}

func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		name     string
		monetary string
		all      string
		lang     string
		want     string
	}{
		{"LANG only", "", "", "sv_SE.UTF-8", "SEK"},
		{"LC_MONETARY wins", "en_GB.UTF-8", "", "sv_SE.UTF-8", "GBP"},
		{"LC_ALL before LANG", "", "de_DE.UTF-8", "en_US.UTF-8", "EUR"},
		{"POSIX skipped", "", "POSIX", "en_US.UTF-8", "USD"},
		{"nothing set", "", "", "", "USD"},
		{"no region", "", "", "C", "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_MONETARY", tt.monetary)
			t.Setenv("LC_ALL", tt.all)
			t.Setenv("LANG", tt.lang)

			got := DetectCurrency()
			if got.Code != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Code)
			}
		})
	}
}

func TestResolveCurrency_ExplicitWins(t *testing.T) {
	t.Setenv("LC_MONETARY", "sv_SE.UTF-8")
	if got := ResolveCurrency("eur"); got.Code != "EUR" {
		t.Errorf("expected EUR, got %s", got.Code)
	}
	if got := ResolveCurrency(""); got.Code != "SEK" {
		t.Errorf("expected SEK, got %s", got.Code)
	}
}
