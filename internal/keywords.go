package internal

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchMode selects how a keyword list is tested against a vendor name.
type MatchMode string

const (
	MatchWholeWord MatchMode = "word"      // case-insensitive regex with word boundaries at both ends
	MatchSubstring MatchMode = "substring" // folded name contains folded keyword
	MatchExact     MatchMode = "exact"     // folded name equals folded keyword
)

// KeywordMatcher tests vendor names against a static keyword list.
type KeywordMatcher struct {
	Mode     MatchMode
	Keywords []string

	regex  *regexp.Regexp
	folded map[string]bool
}

// NewKeywordMatcher compiles a matcher for the given mode and keywords.
func NewKeywordMatcher(mode MatchMode, keywords ...string) *KeywordMatcher {
	m := &KeywordMatcher{Mode: mode, Keywords: keywords, folded: make(map[string]bool, len(keywords))}
	var quoted []string
	for _, kw := range keywords {
		m.folded[FoldName(kw)] = true
		if kw != "" {
			quoted = append(quoted, wordPattern(kw))
		}
	}
	if mode == MatchWholeWord && len(quoted) > 0 {
		m.regex = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	}
	return m
}

// wordPattern quotes kw and bounds it on each side: \b next to a word
// character, otherwise a non-word character or the end of the name.
func wordPattern(kw string) string {
	start, end := `(?:^|\W)`, `(?:\W|$)`
	if isWordByte(kw[0]) {
		start = `\b`
	}
	if isWordByte(kw[len(kw)-1]) {
		end = `\b`
	}
	return start + regexp.QuoteMeta(kw) + end
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// With returns a new matcher with extra keywords appended.
func (m *KeywordMatcher) With(extra ...string) *KeywordMatcher {
	if len(extra) == 0 {
		return m
	}
	all := make([]string, 0, len(m.Keywords)+len(extra))
	all = append(all, m.Keywords...)
	all = append(all, extra...)
	return NewKeywordMatcher(m.Mode, all...)
}

// Match reports whether name matches any keyword.
func (m *KeywordMatcher) Match(name string) bool {
	if m == nil {
		return false
	}
	switch m.Mode {
	case MatchWholeWord:
		return m.regex != nil && m.regex.MatchString(name)
	case MatchExact:
		return m.folded[FoldName(name)]
	default:
		key := FoldName(name)
		for kw := range m.folded {
			if kw != "" && strings.Contains(key, kw) {
				return true
			}
		}
		return false
	}
}

// Built-in keyword lists.
var (
	InsuranceKeywords = NewKeywordMatcher(MatchWholeWord,
		"insurance", "insur", "insuranc", "geico", "allstate", "progressive", "state farm",
		"liberty mutual", "farmers", "nationwide", "usaa", "metlife", "aflac")

	UtilityKeywords = NewKeywordMatcher(MatchWholeWord,
		"utility", "utilities", "utilit", "energy", "electric", "water", "gas", "power",
		"sewer", "duke energy", "con edison", "pg&e", "xcel")

	PhoneKeywords = NewKeywordMatcher(MatchWholeWord,
		"at&t", "t-mobile", "verizon", "sprint", "cricket", "boost mobile", "mint mobile",
		"metro by t-mobile", "us cellular", "visible", "google fi")

	AlwaysRecurringVendors = NewKeywordMatcher(MatchExact,
		"netflix", "hulu", "spotify", "disney+", "disney plus", "hbo max", "max", "amazon prime",
		"prime video", "apple music", "apple tv", "youtube premium", "paramount+", "peacock",
		"sirius xm", "siriusxm", "audible", "google storage", "icloud", "dropbox", "adobe",
		"microsoft 365", "planet fitness", "la fitness", "github", "patreon", "crunchyroll",
		"duolingo", "match group", "tinder", "bumble", "pandora", "tidal", "xbox game pass",
		"playstation plus", "nintendo online", "nordvpn", "expressvpn")

	ConvenienceStoreKeywords = NewKeywordMatcher(MatchSubstring,
		"7-eleven", "7 eleven", "circle k", "wawa", "sheetz", "quiktrip", "casey's", "speedway",
		"cumberland farms", "kwik trip", "racetrac", "love's", "pilot", "am pm", "ampm")

	StreamingKeywords = NewKeywordMatcher(MatchSubstring,
		"netflix", "hulu", "spotify", "disney", "hbo", "prime video", "youtube", "paramount",
		"peacock", "crunchyroll", "pandora", "sirius", "tidal", "deezer", "twitch")

	FitnessKeywords = NewKeywordMatcher(MatchSubstring,
		"fitness", "gym", "yoga", "crossfit", "peloton", "equinox", "orangetheory", "ymca")

	LoanKeywords = NewKeywordMatcher(MatchWholeWord,
		"loan", "mortgage", "lending", "credit card", "navient", "nelnet", "sallie mae",
		"sofi", "affirm", "klarna", "afterpay", "rent")
)

func IsInsurance(name string) bool        { return InsuranceKeywords.Match(name) }
func IsUtility(name string) bool          { return UtilityKeywords.Match(name) }
func IsPhone(name string) bool            { return PhoneKeywords.Match(name) }
func IsAlwaysRecurring(name string) bool  { return AlwaysRecurringVendors.Match(name) }
func IsConvenienceStore(name string) bool { return ConvenienceStoreKeywords.Match(name) }

// DefaultFuzzyThreshold is the partial-ratio score above which a vendor is
// considered a fuzzy match of a recurring vendor.
const DefaultFuzzyThreshold = 85

// PartialRatio scores the similarity (0-100) of the shorter string against the
// best-aligned window of the longer one, after case folding.
func PartialRatio(a, b string) int {
	a, b = FoldName(a), FoldName(b)
	if a == "" || b == "" {
		return 0
	}
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	best := 0
	for start := 0; start+len(short) <= len(long); start++ {
		window := string(long[start : start+len(short)])
		dist := levenshtein.ComputeDistance(string(short), window)
		score := int(100*(1-float64(dist)/float64(len(short))) + 0.5)
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// FuzzyVendorScore returns the best PartialRatio of name against vendors.
func FuzzyVendorScore(name string, vendors []string) int {
	best := 0
	for _, v := range vendors {
		if s := PartialRatio(name, v); s > best {
			best = s
		}
	}
	return best
}

// IsFuzzyRecurringVendor reports whether any vendor scores above threshold.
func IsFuzzyRecurringVendor(name string, vendors []string, threshold int) bool {
	return FuzzyVendorScore(name, vendors) > threshold
}
