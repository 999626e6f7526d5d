package internal

import (
	"sync"
)

// History is an immutable snapshot of the transactions a feature is computed
// against. Derived views are computed once on first use and shared by every
// transaction evaluated against the same History, so one History per group acts
// as the cache for that group. Safe for concurrent readers.
type History struct {
	txs []Transaction

	sortedOnce sync.Once
	sorted     []Transaction
	gaps       []int
	amounts    []float64

	namesOnce sync.Once
	nameCount map[string]int
	nameUsers map[string]map[string]bool
}

// NewHistory wraps txs. The caller must not modify txs afterwards.
func NewHistory(txs []Transaction) *History {
	return &History{txs: txs}
}

// Len returns the number of transactions in the history.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.txs)
}

// Transactions returns the history in its original order.
func (h *History) Transactions() []Transaction {
	if h == nil {
		return nil
	}
	return h.txs
}

func (h *History) derive() {
	h.sortedOnce.Do(func() {
		h.sorted = SortByDate(h.txs)
		h.amounts = absAmounts(h.sorted)
		if len(h.sorted) >= 2 {
			h.gaps = make([]int, 0, len(h.sorted)-1)
			for i := 1; i < len(h.sorted); i++ {
				h.gaps = append(h.gaps, DaysBetween(h.sorted[i-1].Date, h.sorted[i].Date))
			}
		}
	})
}

// Sorted returns the history ordered by date ascending.
func (h *History) Sorted() []Transaction {
	if h == nil {
		return nil
	}
	h.derive()
	return h.sorted
}

// Gaps returns the day gaps between adjacent transactions of the sorted history.
func (h *History) Gaps() []int {
	if h == nil {
		return nil
	}
	h.derive()
	return h.gaps
}

// Amounts returns the absolute amounts in date order.
func (h *History) Amounts() []float64 {
	if h == nil {
		return nil
	}
	h.derive()
	return h.amounts
}

// Recent returns at most n of the most recent transactions, oldest first.
// This is the deterministic replacement for sampling large histories.
func (h *History) Recent(n int) []Transaction {
	sorted := h.Sorted()
	if n <= 0 || len(sorted) <= n {
		return sorted
	}
	return sorted[len(sorted)-n:]
}

func (h *History) deriveNames() {
	h.namesOnce.Do(func() {
		h.nameCount = make(map[string]int)
		h.nameUsers = make(map[string]map[string]bool)
		for _, tx := range h.txs {
			key := tx.NameKey()
			h.nameCount[key]++
			if h.nameUsers[key] == nil {
				h.nameUsers[key] = make(map[string]bool)
			}
			h.nameUsers[key][tx.UserID] = true
		}
	})
}

// NameCount returns how many transactions carry the (folded) vendor name.
func (h *History) NameCount(name string) int {
	if h == nil {
		return 0
	}
	h.deriveNames()
	return h.nameCount[FoldName(name)]
}

// DistinctNames returns the number of distinct folded vendor names.
func (h *History) DistinctNames() int {
	if h == nil {
		return 0
	}
	h.deriveNames()
	return len(h.nameCount)
}

// NameUsers returns how many distinct users transacted with the vendor name.
func (h *History) NameUsers(name string) int {
	if h == nil {
		return 0
	}
	h.deriveNames()
	return len(h.nameUsers[FoldName(name)])
}
