package internal

import (
	"fmt"
	"sort"
)

// Scope selects which slice of the snapshot a feature set is computed against.
type Scope string

const (
	ScopeNone   Scope = "none"   // only the transaction itself
	ScopeVendor Scope = "vendor" // same user, same folded vendor name
	ScopeUser   Scope = "user"   // same user
	ScopeAll    Scope = "all"    // the whole snapshot
)

// FeatureFunc computes features of tx against a history. It must be pure and
// must not fail: short histories yield documented defaults.
type FeatureFunc func(tx Transaction, h *History) Features

// FeatureSet is a named group of features sharing one history scope.
type FeatureSet struct {
	Name    string
	Scope   Scope
	Compute FeatureFunc
}

// FeatureSetBuilder creates a feature set bound to a config. cfg may be nil.
type FeatureSetBuilder func(cfg *Config) FeatureSet

// BaseSetName is the feature set whose keys are emitted without a prefix.
const BaseSetName = "base"

var featureSets = make(map[string]FeatureSetBuilder)

// RegisterFeatureSet adds a feature set to the registry
func RegisterFeatureSet(name string, b FeatureSetBuilder) {
	featureSets[name] = b
}

// GetFeatureSet returns the named feature set bound to cfg
func GetFeatureSet(name string, cfg *Config) (FeatureSet, error) {
	b, ok := featureSets[name]
	if !ok {
		return FeatureSet{}, fmt.Errorf("unknown feature set: %s (available: %v)", name, AvailableFeatureSets())
	}
	set := b(cfg)
	set.Name = name
	return set, nil
}

// AvailableFeatureSets returns the registered feature set names, base first
func AvailableFeatureSets() []string {
	names := make([]string, 0, len(featureSets))
	for name := range featureSets {
		if name != BaseSetName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := featureSets[BaseSetName]; ok {
		names = append([]string{BaseSetName}, names...)
	}
	return names
}

// IsKnownFeatureSet reports whether name is registered
func IsKnownFeatureSet(name string) bool {
	_, ok := featureSets[name]
	return ok
}

func init() {
	RegisterFeatureSet(BaseSetName, func(*Config) FeatureSet {
		return FeatureSet{
			Scope: ScopeVendor,
			Compute: func(tx Transaction, h *History) Features {
				return GetFeatures(tx, h.Transactions())
			},
		}
	})
}
