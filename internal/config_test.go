package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
keywords:
  insurance: [lemonade]
  streaming: [mubi]
recurring_vendors:
  - acme cloud
known:
  - pattern: "ACME\\s*CLOUD"
    min_amount: 10
    max_amount: 20
fuzzy_threshold: 90
amount_tolerance: 0.2
confidence_weights:
  time: 0.6
  amount: 0.2
  frequency: 0.2
disabled_sets: [popularity]
chunk_size: 500
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.Matcher("insurance").Match("Lemonade Renters") || !cfg.Matcher("insurance").Match("GEICO") {
		t.Error("expected insurance list to be extended, not replaced")
	}
	if !cfg.Matcher("streaming").Match("MUBI.COM") {
		t.Error("expected streaming list to be extended")
	}
	if cfg.Threshold() != 90 || cfg.Tolerance() != 0.2 || cfg.Weights().Time != 0.6 {
		t.Errorf("unexpected tuning: %d %v %v", cfg.Threshold(), cfg.Tolerance(), cfg.Weights())
	}
	if cfg.SetEnabled("popularity") || !cfg.SetEnabled("intervals") {
		t.Error("unexpected disabled sets")
	}
	if cfg.EffectiveChunkSize(100) != 500 {
		t.Errorf("expected chunk size 500, got %d", cfg.EffectiveChunkSize(100))
	}

	vendors := cfg.FuzzyVendors()
	if vendors[len(vendors)-1] != "acme cloud" {
		t.Errorf("expected configured vendor last, got %v", vendors)
	}

	// Defaults are prepended to the configured rules
	if len(cfg.KnownRules()) != len(DefaultKnownVendors)+1 || len(cfg.Known) != 1 {
		t.Errorf("expected %d known rules from 1 configured, got %d from %d",
			len(DefaultKnownVendors)+1, len(cfg.KnownRules()), len(cfg.Known))
	}
	if k := cfg.MatchesKnown(mkTx("ACME CLOUD", "-15", "2024-01-01")); k == nil || k.Pattern != `ACME\s*CLOUD` {
		t.Errorf("expected the configured rule to match, got %v", k)
	}
	if k := cfg.MatchesKnown(mkTx("ACME CLOUD", "-25", "2024-01-01")); k != nil {
		t.Error("amount above max_amount must not match")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"unknown keyword list", "keywords:\n  groceries: [aldi]\n", "unknown keyword list"},
		{"unknown disabled set", "disabled_sets: [nope]\n", "unknown feature set"},
		{"bad pattern", "known:\n  - pattern: \"([\"\n", "invalid known vendor pattern"},
		{"bad date", "known:\n  - pattern: X\n    before: 01/02/2024\n", "invalid 'before' date"},
		{"bad yaml", "keywords: [", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("expected error containing %q, got %v", tt.errText, err)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigOrDefault_ExplicitMissingPath(t *testing.T) {
	if _, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("an explicit config path that does not exist must fail")
	}
}

func TestConfig_NilDefaults(t *testing.T) {
	var cfg *Config
	if cfg.Threshold() != DefaultFuzzyThreshold || cfg.Tolerance() != DefaultAmountTolerance {
		t.Error("nil config must use defaults")
	}
	if cfg.Weights() != DefaultConfidenceWeights {
		t.Error("nil config must use default weights")
	}
	if !cfg.SetEnabled("popularity") || cfg.EffectiveChunkSize(7) != 7 {
		t.Error("nil config must enable every set")
	}
	if cfg.Matcher("insurance") != InsuranceKeywords {
		t.Error("nil config must use built-in matchers")
	}
	if cfg.MatchesKnown(mkTx("NETFLIX.COM", "1", "2024-01-01")) == nil {
		t.Error("nil config must match the default known vendors")
	}
	if len(cfg.KnownRules()) != len(DefaultKnownVendors) {
		t.Errorf("expected %d default rules, got %d", len(DefaultKnownVendors), len(cfg.KnownRules()))
	}
}

func TestDefaultKnownVendors(t *testing.T) {
	cfg, err := NewDefaultConfig()
	if err != nil {
		t.Fatalf("NewDefaultConfig failed: %v", err)
	}

	tests := []struct {
		name     string
		expected bool
	}{
		{"NETFLIX.COM", true},
		{"Netflix", true},
		{"HBOMAX", true},
		{"HBO MAX", true},
		{"Disney Plus", true},
		{"DISNEY+", true},
		{"APPLE.COM/BILL", true},
		{"YouTube Premium", true},
		{"State Farm Ins", true},
		{"MSFT *STORE", true},
		{"Disneyland Tickets", false},
		{"Corner Bakery", false},
		{"YouTube", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.MatchesKnown(mkTx(tt.name, "-10", "2024-01-01")) != nil
			if got != tt.expected {
				t.Errorf("MatchesKnown(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestConfig_DisableDefaultVendors(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "use_default_vendors: false\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.KnownRules()) != 0 {
		t.Errorf("expected no known vendors, got %d", len(cfg.KnownRules()))
	}
	if cfg.MatchesKnown(mkTx("NETFLIX.COM", "1", "2024-01-01")) != nil {
		t.Error("defaults are disabled")
	}
}

func TestKnownVendor_DateBounds(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
use_default_vendors: false
known:
  - pattern: GYM
    after: 2024-02-01
    before: 2024-04-01
`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	tests := []struct {
		date     string
		expected bool
	}{
		{"2024-01-31", false},
		{"2024-02-01", true},
		{"2024-03-31", true},
		{"2024-04-01", false},
	}
	for _, tt := range tests {
		got := cfg.MatchesKnown(mkTx("City Gym", "30", tt.date)) != nil
		if got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.date, tt.expected, got)
		}
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	useDefaults := false
	cfg := &Config{
		Keywords:          map[string][]string{"fitness": {"climbing"}},
		UseDefaultVendors: &useDefaults,
		Known:             []KnownVendor{{Pattern: "ACME"}},
		FuzzyThreshold:    80,
	}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Threshold() != 80 || len(loaded.Known) != 1 || !loaded.Matcher("fitness").Match("Climbing Hall") {
		t.Errorf("config did not survive a round trip: %+v", loaded)
	}
}

func TestConfig_SaveKeepsDefaultsOut(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "known:\n  - pattern: ACME\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	for i := 0; i < 2; i++ {
		if err := cfg.Save(path); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if cfg, err = LoadConfig(path); err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
	}

	if len(cfg.Known) != 1 {
		t.Errorf("expected 1 configured rule after saving twice, got %d", len(cfg.Known))
	}
	if len(cfg.KnownRules()) != len(DefaultKnownVendors)+1 {
		t.Errorf("expected %d rules, got %d", len(DefaultKnownVendors)+1, len(cfg.KnownRules()))
	}
}
