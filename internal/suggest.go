package internal

import (
	"regexp"
	"sort"
	"strings"
)

// FamilySuggestion is a set of vendor names sharing a prefix whose combined
// transactions look recurring for at least one user, although each name alone
// is too rare to show a pattern. Pattern can be added as a known vendor rule.
type FamilySuggestion struct {
	Prefix     string   `json:"prefix"`
	Pattern    string   `json:"pattern"`
	Names      []string `json:"names"`
	Users      int      `json:"users"`
	MonthCount int      `json:"month_count"`
	TxCount    int      `json:"tx_count"`
}

// SuggestVendorFamilies looks for vendor names that appear at most twice per
// user but share a prefix with other names, and keeps the prefix groups that
// form a monthly series with stable amounts for some user.
func SuggestVendorFamilies(txs []Transaction, tolerance float64) []FamilySuggestion {
	perUserName := make(map[vendorKey]int)
	byName := make(map[string][]Transaction)
	for _, tx := range txs {
		perUserName[vendorKey{user: tx.UserID, name: tx.Name}]++
		byName[tx.Name] = append(byName[tx.Name], tx)
	}

	// Names that never reach three transactions for a single user
	frequent := make(map[string]bool)
	for k, n := range perUserName {
		if n > 2 {
			frequent[k.name] = true
		}
	}
	var orphans []string
	for name := range byName {
		if !frequent[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)

	var suggestions []FamilySuggestion
	for _, group := range findPrefixGroups(orphans) {
		var family []Transaction
		for _, name := range group.names {
			family = append(family, byName[name]...)
		}
		users, months := recurringUsers(family, tolerance)
		if users == 0 {
			continue
		}
		suggestions = append(suggestions, FamilySuggestion{
			Prefix:     group.prefix,
			Pattern:    "^" + regexp.QuoteMeta(group.prefix),
			Names:      group.names,
			Users:      users,
			MonthCount: months,
			TxCount:    len(family),
		})
	}

	suggestions = deduplicateSuggestions(suggestions)
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Users != suggestions[j].Users {
			return suggestions[i].Users > suggestions[j].Users
		}
		return suggestions[i].MonthCount > suggestions[j].MonthCount
	})
	return suggestions
}

type prefixGroup struct {
	prefix string
	names  []string
}

// findPrefixGroups groups names by their first word, first two words, or for
// names without spaces a fixed-length character prefix. Groups need 3+ names.
func findPrefixGroups(names []string) []prefixGroup {
	candidates := make(map[string][]string)
	for _, name := range names {
		words := strings.Fields(name)
		if len(words) > 0 && len(words[0]) >= 3 {
			candidates[words[0]] = append(candidates[words[0]], name)
		}
		if len(words) > 1 {
			two := words[0] + " " + words[1]
			candidates[two] = append(candidates[two], name)
		}
		if !strings.Contains(name, " ") {
			for _, n := range []int{6, 8, 10, 12} {
				if len(name) > n {
					candidates[name[:n]] = append(candidates[name[:n]], name)
				}
			}
		}
	}

	prefixes := make([]string, 0, len(candidates))
	for p := range candidates {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) < len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	var groups []prefixGroup
	seen := make(map[string]bool)
	for _, p := range prefixes {
		unique := uniqueStrings(candidates[p])
		if len(unique) < 3 {
			continue
		}
		sorted := append([]string(nil), unique...)
		sort.Strings(sorted)
		key := strings.Join(sorted, "|")
		if seen[key] {
			continue
		}
		seen[key] = true
		groups = append(groups, prefixGroup{prefix: p, names: sorted})
	}
	return groups
}

// recurringUsers counts users whose share of txs is a monthly series with
// amounts within tolerance, and the most months any of them covers.
func recurringUsers(txs []Transaction, tolerance float64) (users, months int) {
	byUser := make(map[string][]Transaction)
	for _, tx := range txs {
		byUser[tx.UserID] = append(byUser[tx.UserID], tx)
	}
	for _, group := range byUser {
		if len(group) < MinPatternHistory {
			continue
		}
		sorted := SortByDate(group)
		if !IsOncePerMonth(sorted) || !ConsecutiveWithinTolerance(sorted, tolerance) {
			continue
		}
		users++
		if len(sorted) > months {
			months = len(sorted)
		}
	}
	return users, months
}

// deduplicateSuggestions drops suggestions whose names are mostly covered by
// an earlier, shorter prefix.
func deduplicateSuggestions(suggestions []FamilySuggestion) []FamilySuggestion {
	if len(suggestions) <= 1 {
		return suggestions
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return len(suggestions[i].Prefix) < len(suggestions[j].Prefix)
	})

	var result []FamilySuggestion
	covered := make(map[string]bool)
	for _, s := range suggestions {
		fresh := 0
		for _, name := range s.Names {
			if !covered[name] {
				fresh++
			}
		}
		if float64(fresh)/float64(len(s.Names)) > 0.5 {
			result = append(result, s)
			for _, name := range s.Names {
				covered[name] = true
			}
		}
	}
	return result
}

func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
