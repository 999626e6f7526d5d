package internal

import (
	"unicode"
	"unicode/utf8"
)

func init() {
	RegisterFeatureSet("vendor", func(cfg *Config) FeatureSet {
		return FeatureSet{Scope: ScopeNone, Compute: VendorFeatures(cfg)}
	})
}

// VendorFeatures classifies the vendor name with the keyword lists, the fuzzy
// vendor list and the known vendor rules of cfg.
func VendorFeatures(cfg *Config) FeatureFunc {
	vendors := cfg.FuzzyVendors()
	threshold := cfg.Threshold()

	return func(tx Transaction, _ *History) Features {
		f := make(Features, len(KeywordLists)+6)
		for list := range KeywordLists {
			f["is_"+list] = boolValue(cfg.Matcher(list).Match(tx.Name))
		}

		score := FuzzyVendorScore(tx.Name, vendors)
		f["fuzzy_score"] = float64(score) / 100
		f["is_fuzzy_recurring"] = boolValue(score > threshold)
		f["is_known_vendor"] = boolValue(cfg.MatchesKnown(tx) != nil)

		digits, words, inWord := 0, 0, false
		for _, r := range tx.Name {
			if unicode.IsDigit(r) {
				digits++
			}
			if unicode.IsSpace(r) {
				inWord = false
			} else if !inWord {
				inWord = true
				words++
			}
		}
		f["name_length"] = float64(utf8.RuneCountInString(tx.Name))
		f["word_count"] = float64(words)
		f["has_digits"] = boolValue(digits > 0)
		return f
	}
}
