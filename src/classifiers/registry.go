// Package classifiers provides classification handlers for known
// marketplace and minting contracts. Each handler file registers the
// contracts it understands; everything else falls through to the generic
// rules in the classification package.
package classifiers

import "github.com/username/tezgains/src/classification"

// DefaultRegistry builds a registry with every known contract handler
// installed.
func DefaultRegistry() *classification.Registry {
	registry := classification.NewRegistry()
	registerObjkt(registry)
	registerFxhash(registry)
	registerSkeles(registry)
	return registry
}
