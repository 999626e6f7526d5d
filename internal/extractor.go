package internal

import (
	"fmt"
)

type vendorKey struct {
	user string
	name string
}

// Index groups a snapshot of transactions once and hands out one shared
// History per group, so derived views are computed once per group. It is
// created per batch and dropped with it. Safe for concurrent readers.
type Index struct {
	txs      []Transaction
	all      *History
	byUser   map[string]*History
	byVendor map[vendorKey]*History
}

// NewIndex groups txs by user and by user+vendor.
func NewIndex(txs []Transaction) *Index {
	users := make(map[string][]Transaction)
	vendors := make(map[vendorKey][]Transaction)
	for _, tx := range txs {
		users[tx.UserID] = append(users[tx.UserID], tx)
		k := vendorKey{user: tx.UserID, name: tx.NameKey()}
		vendors[k] = append(vendors[k], tx)
	}

	idx := &Index{
		txs:      txs,
		all:      NewHistory(txs),
		byUser:   make(map[string]*History, len(users)),
		byVendor: make(map[vendorKey]*History, len(vendors)),
	}
	for u, group := range users {
		idx.byUser[u] = NewHistory(group)
	}
	for k, group := range vendors {
		idx.byVendor[k] = NewHistory(group)
	}
	return idx
}

// Transactions returns the indexed snapshot in input order.
func (i *Index) Transactions() []Transaction {
	return i.txs
}

// Groups returns the number of user+vendor groups.
func (i *Index) Groups() int {
	return len(i.byVendor)
}

// History returns the history of tx for the given scope. Transactions that
// are not part of the snapshot get a history holding only themselves.
func (i *Index) History(tx Transaction, scope Scope) *History {
	var h *History
	switch scope {
	case ScopeAll:
		h = i.all
	case ScopeUser:
		h = i.byUser[tx.UserID]
	case ScopeVendor:
		h = i.byVendor[vendorKey{user: tx.UserID, name: tx.NameKey()}]
	}
	if h == nil {
		return NewHistory([]Transaction{tx})
	}
	return h
}

// Extractor merges the enabled feature sets into one flat mapping per transaction.
type Extractor struct {
	sets []FeatureSet
}

// NewExtractor builds an extractor from the named sets, or from every
// registered set not disabled in cfg when names is empty.
func NewExtractor(cfg *Config, names ...string) (*Extractor, error) {
	if len(names) == 0 {
		for _, name := range AvailableFeatureSets() {
			if cfg.SetEnabled(name) {
				names = append(names, name)
			}
		}
	}

	e := &Extractor{}
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		set, err := GetFeatureSet(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("building extractor: %w", err)
		}
		e.sets = append(e.sets, set)
	}
	return e, nil
}

// Sets returns the names of the feature sets in extraction order.
func (e *Extractor) Sets() []string {
	names := make([]string, len(e.sets))
	for i, s := range e.sets {
		names[i] = s.Name
	}
	return names
}

// Extract computes every feature set for tx. Base keys are unprefixed, all
// other keys are prefixed with "<set>_".
func (e *Extractor) Extract(tx Transaction, idx *Index) Features {
	out := make(Features)
	for _, set := range e.sets {
		f := set.Compute(tx, idx.History(tx, set.Scope))
		prefix := set.Name + "_"
		if set.Name == BaseSetName {
			prefix = ""
		}
		for k, v := range f {
			out[prefix+k] = v
		}
	}
	return out
}

// ExtractAll computes features for every transaction of the index, in order.
func (e *Extractor) ExtractAll(idx *Index) []Features {
	out := make([]Features, len(idx.txs))
	for i, tx := range idx.txs {
		out[i] = e.Extract(tx, idx)
	}
	return out
}
