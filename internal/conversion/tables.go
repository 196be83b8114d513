// Package conversion holds the fixed unit tables and resolves spoken
// conversion requests against them.
package conversion

import (
	"sort"

	"unit-converter-skill/internal/common/locale"
)

// Table maps a source unit to destination units and their multiplicative factor.
type Table map[string]map[string]float64

// Metric is keyed by the Spanish unit names users say in es-* locales.
var Metric = Table{
	"centímetros": {"metros": 0.01, "kilómetros": 0.00001},
	"metros":      {"centímetros": 100, "kilómetros": 0.001},
	"kilómetros":  {"centímetros": 100000, "metros": 1000},
}

// Imperial serves every non-Spanish locale.
var Imperial = Table{
	"inches": {"feet": 0.0833333, "yards": 0.0277778, "miles": 0.000015783},
	"feet":   {"inches": 12, "yards": 0.333333, "miles": 0.000189394},
	"yards":  {"inches": 36, "feet": 3, "miles": 0.000568182},
	"miles":  {"inches": 63360, "feet": 5280, "yards": 1760},
}

// TableFor returns the table a locale class may convert with. Cross-system
// requests fall through to an unknown conversion.
func TableFor(class locale.Class) Table {
	if class == locale.Spanish {
		return Metric
	}
	return Imperial
}

// Factor looks up from→to. A missing pair reports false, never zero.
func (t Table) Factor(from, to string) (float64, bool) {
	dests, ok := t[from]
	if !ok {
		return 0, false
	}
	factor, ok := dests[to]
	return factor, ok
}

// Units lists the source units in sorted order.
func (t Table) Units() []string {
	units := make([]string, 0, len(t))
	for u := range t {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// Destinations lists the units from converts to, sorted.
func (t Table) Destinations(from string) []string {
	dests := make([]string, 0, len(t[from]))
	for u := range t[from] {
		dests = append(dests, u)
	}
	sort.Strings(dests)
	return dests
}
