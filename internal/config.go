package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// KnownVendor marks transactions matching a pattern (and optional bounds) as a
// known recurring vendor, independent of the statistical features.
type KnownVendor struct {
	Pattern   string   `yaml:"pattern"`              // Regex matched against the vendor name (case-insensitive)
	MinAmount *float64 `yaml:"min_amount,omitempty"` // Optional minimum absolute amount
	MaxAmount *float64 `yaml:"max_amount,omitempty"` // Optional maximum absolute amount
	Before    string   `yaml:"before,omitempty"`     // Only match transactions before this date
	After     string   `yaml:"after,omitempty"`      // Only match transactions on or after this date

	// compiled fields
	regex      *regexp.Regexp `yaml:"-"`
	beforeDate time.Time      `yaml:"-"`
	afterDate  time.Time      `yaml:"-"`
}

// DefaultKnownVendors are patterns for vendors that bill on a schedule.
// They are included unless disabled via use_default_vendors: false.
var DefaultKnownVendors = []KnownVendor{
	// Streaming and media
	{Pattern: `NETFLIX`},
	{Pattern: `HULU`},
	{Pattern: `DISNEY\s*(\+|PLUS)`},
	{Pattern: `HBO\s*MAX`},
	{Pattern: `PRIME\s*VIDEO|AMAZON\s*PRIME`},
	{Pattern: `SPOTIFY`},
	{Pattern: `APPLE\.COM/BILL|APPLE\s*(MUSIC|TV)`},
	{Pattern: `YOUTUBE\s*(PREMIUM|TV|MUSIC)`},
	{Pattern: `SIRIUS\s*XM`},
	{Pattern: `PARAMOUNT\s*\+`},
	{Pattern: `PEACOCK`},
	{Pattern: `AUDIBLE`},

	// Software and storage
	{Pattern: `GOOGLE\s*(STORAGE|ONE|WORKSPACE)`},
	{Pattern: `ICLOUD`},
	{Pattern: `DROPBOX`},
	{Pattern: `ADOBE`},
	{Pattern: `MICROSOFT\s*365|MSFT\s*\*`},
	{Pattern: `GITHUB`},
	{Pattern: `OPENAI|CHATGPT`},

	// Fitness
	{Pattern: `PLANET\s*FITNESS`},
	{Pattern: `LA\s*FITNESS`},
	{Pattern: `PELOTON`},

	// Telecom and utilities
	{Pattern: `VERIZON\s*WIRELESS`},
	{Pattern: `T-MOBILE`},
	{Pattern: `COMCAST|XFINITY`},
	{Pattern: `SPECTRUM`},

	// Insurance
	{Pattern: `GEICO`},
	{Pattern: `STATE\s*FARM`},
	{Pattern: `PROGRESSIVE\s*(INS|INSURANCE)`},
}

// Config tunes the feature sets and drivers. A nil *Config means defaults everywhere.
type Config struct {
	// Keywords extends a built-in keyword list, keyed by list name (see KeywordLists)
	Keywords map[string][]string `yaml:"keywords,omitempty"`

	// RecurringVendors extends the vendor list used for fuzzy matching
	RecurringVendors []string `yaml:"recurring_vendors,omitempty"`

	// UseDefaultVendors controls whether DefaultKnownVendors are included. Defaults to true.
	UseDefaultVendors *bool `yaml:"use_default_vendors,omitempty"`

	// Known lists additional known recurring vendor rules
	Known []KnownVendor `yaml:"known,omitempty"`

	FuzzyThreshold    int                `yaml:"fuzzy_threshold,omitempty"`
	AmountTolerance   float64            `yaml:"amount_tolerance,omitempty"`
	ConfidenceWeights *ConfidenceWeights `yaml:"confidence_weights,omitempty"`

	// DisabledSets names feature sets to leave out of extraction
	DisabledSets []string `yaml:"disabled_sets,omitempty"`

	// ChunkSize bounds how many rows the batch runner holds features for at once
	ChunkSize int `yaml:"chunk_size,omitempty"`

	matchers map[string]*KeywordMatcher `yaml:"-"`
	rules    []KnownVendor              `yaml:"-"`
}

// KeywordLists maps list names usable in the keywords config section to the built-in matchers.
var KeywordLists = map[string]*KeywordMatcher{
	"insurance":         InsuranceKeywords,
	"utility":           UtilityKeywords,
	"phone":             PhoneKeywords,
	"always_recurring":  AlwaysRecurringVendors,
	"convenience_store": ConvenienceStoreKeywords,
	"streaming":         StreamingKeywords,
	"fitness":           FitnessKeywords,
	"loan":              LoanKeywords,
}

// DefaultConfigPath returns the default config file path (~/.recurring-features/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".recurring-features", "config.yaml")
}

// NewDefaultConfig creates a config with only the default known vendors compiled.
func NewDefaultConfig() (*Config, error) {
	cfg := &Config{}
	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and compiles a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigOrDefault loads path when set and present, otherwise the defaults.
// An explicitly given path that does not exist is an error.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	if def := DefaultConfigPath(); def != "" {
		if _, err := os.Stat(def); err == nil {
			return LoadConfig(def)
		}
	}
	return NewDefaultConfig()
}

func (c *Config) compile() error {
	for name := range c.Keywords {
		if _, ok := KeywordLists[name]; !ok {
			return fmt.Errorf("unknown keyword list %q", name)
		}
	}
	c.matchers = make(map[string]*KeywordMatcher, len(KeywordLists))
	for name, base := range KeywordLists {
		c.matchers[name] = base.With(c.Keywords[name]...)
	}

	// Defaults come first so they are reported when both match
	var rules []KnownVendor
	if c.UseDefaultVendors == nil || *c.UseDefaultVendors {
		rules = append(rules, DefaultKnownVendors...)
	}
	rules = append(rules, c.Known...)
	if err := compileKnown(rules); err != nil {
		return err
	}
	c.rules = rules

	for _, name := range c.DisabledSets {
		if _, ok := featureSets[name]; !ok {
			return fmt.Errorf("unknown feature set %q in disabled_sets (available: %v)", name, AvailableFeatureSets())
		}
	}
	return nil
}

// compileKnown fills the compiled fields of each rule in place.
func compileKnown(rules []KnownVendor) error {
	for i := range rules {
		re, err := regexp.Compile("(?i)" + rules[i].Pattern)
		if err != nil {
			return fmt.Errorf("invalid known vendor pattern %q: %w", rules[i].Pattern, err)
		}
		rules[i].regex = re

		if rules[i].Before != "" {
			t, err := ParseDate(rules[i].Before)
			if err != nil {
				return fmt.Errorf("invalid 'before' date in known vendor %q: %w", rules[i].Pattern, err)
			}
			rules[i].beforeDate = t
		}
		if rules[i].After != "" {
			t, err := ParseDate(rules[i].After)
			if err != nil {
				return fmt.Errorf("invalid 'after' date in known vendor %q: %w", rules[i].Pattern, err)
			}
			rules[i].afterDate = t
		}
	}
	return nil
}

var defaultRules = sync.OnceValue(func() []KnownVendor {
	rules := append([]KnownVendor(nil), DefaultKnownVendors...)
	if err := compileKnown(rules); err != nil {
		panic(err)
	}
	return rules
})

// KnownRules returns the compiled rules MatchesKnown checks: the defaults
// (unless disabled) followed by the configured ones.
func (c *Config) KnownRules() []KnownVendor {
	if c == nil {
		return defaultRules()
	}
	return c.rules
}

// Save writes the config as YAML. Only configured rules are written; the
// defaults are controlled by use_default_vendors.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Matcher returns the keyword matcher for a list, including configured extensions.
func (c *Config) Matcher(list string) *KeywordMatcher {
	if c != nil && c.matchers != nil {
		if m, ok := c.matchers[list]; ok {
			return m
		}
	}
	return KeywordLists[list]
}

// FuzzyVendors returns the vendor names used for fuzzy matching.
func (c *Config) FuzzyVendors() []string {
	vendors := AlwaysRecurringVendors.Keywords
	if c == nil {
		return vendors
	}
	if m := c.Matcher("always_recurring"); m != nil {
		vendors = m.Keywords
	}
	if len(c.RecurringVendors) == 0 {
		return vendors
	}
	out := make([]string, 0, len(vendors)+len(c.RecurringVendors))
	out = append(out, vendors...)
	return append(out, c.RecurringVendors...)
}

// Threshold returns the fuzzy match threshold.
func (c *Config) Threshold() int {
	if c == nil || c.FuzzyThreshold <= 0 {
		return DefaultFuzzyThreshold
	}
	return c.FuzzyThreshold
}

// Tolerance returns the consecutive amount change tolerance.
func (c *Config) Tolerance() float64 {
	if c == nil || c.AmountTolerance <= 0 {
		return DefaultAmountTolerance
	}
	return c.AmountTolerance
}

// Weights returns the recurring confidence weights.
func (c *Config) Weights() ConfidenceWeights {
	if c == nil || c.ConfidenceWeights == nil {
		return DefaultConfidenceWeights
	}
	return *c.ConfidenceWeights
}

// SetEnabled reports whether a feature set takes part in extraction.
func (c *Config) SetEnabled(name string) bool {
	if c == nil {
		return true
	}
	for _, d := range c.DisabledSets {
		if d == name {
			return false
		}
	}
	return true
}

// EffectiveChunkSize returns the configured chunk size, or def when unset.
func (c *Config) EffectiveChunkSize(def int) int {
	if c == nil || c.ChunkSize <= 0 {
		return def
	}
	return c.ChunkSize
}

// MatchesKnown returns the first known vendor rule matching tx, or nil.
func (c *Config) MatchesKnown(tx Transaction) *KnownVendor {
	rules := c.KnownRules()
	for i := range rules {
		if rules[i].Matches(tx) {
			return &rules[i]
		}
	}
	return nil
}

// Matches returns true if the transaction matches this known vendor rule
func (k *KnownVendor) Matches(tx Transaction) bool {
	if k.regex == nil {
		return false
	}
	if !k.regex.MatchString(tx.Name) {
		return false
	}

	amt := tx.Amount.Abs().InexactFloat64()
	if k.MinAmount != nil && amt < *k.MinAmount {
		return false
	}
	if k.MaxAmount != nil && amt > *k.MaxAmount {
		return false
	}

	if !k.beforeDate.IsZero() && !tx.Date.Before(k.beforeDate) {
		return false
	}
	if !k.afterDate.IsZero() && tx.Date.Before(k.afterDate) {
		return false
	}
	return true
}
