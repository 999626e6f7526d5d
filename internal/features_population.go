package internal

import (
	"math"
)

func init() {
	RegisterFeatureSet("user", func(*Config) FeatureSet {
		return FeatureSet{Scope: ScopeUser, Compute: UserFeatures}
	})
	RegisterFeatureSet("popularity", func(*Config) FeatureSet {
		return FeatureSet{Scope: ScopeAll, Compute: PopularityFeatures}
	})
}

// UserFeatures relates tx to the rest of its user's transactions.
func UserFeatures(tx Transaction, h *History) Features {
	n := h.Len()
	a := math.Abs(tx.AmountFloat())
	atOrBelow := 0
	for _, amt := range h.Amounts() {
		if amt <= a {
			atOrBelow++
		}
	}
	return Features{
		"tx_count":          float64(n),
		"vendor_count":      float64(h.DistinctNames()),
		"vendor_share":      SafeDiv(float64(h.NameCount(tx.Name)), float64(n), 0),
		"amount_percentile": SafeDiv(float64(atOrBelow), float64(n), 0),
	}
}

// PopularityFeatures measures how common the vendor is across all users.
func PopularityFeatures(tx Transaction, h *History) Features {
	count := h.NameCount(tx.Name)
	return Features{
		"name_count": float64(count),
		"name_share": SafeDiv(float64(count), float64(h.Len()), 0),
		"name_users": float64(h.NameUsers(tx.Name)),
	}
}
