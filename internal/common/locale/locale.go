// Package locale classifies request locale tags into the two response
// languages the skill speaks.
package locale

import "strings"

// Class is the response-language family of a locale tag.
type Class int

const (
	// Other covers every tag that is not Spanish, including empty tags.
	Other Class = iota
	Spanish
)

// SpanishPrefix is matched case-sensitively against the raw tag.
const SpanishPrefix = "es"

// Classify returns Spanish iff tag starts with "es". No normalization is applied.
func Classify(tag string) Class {
	if strings.HasPrefix(tag, SpanishPrefix) {
		return Spanish
	}
	return Other
}

func (c Class) String() string {
	if c == Spanish {
		return "spanish"
	}
	return "other"
}

// Pick returns spanish for the Spanish class and other otherwise.
func (c Class) Pick(spanish, other string) string {
	if c == Spanish {
		return spanish
	}
	return other
}

// Pick classifies tag and selects the matching template.
func Pick(tag, spanish, other string) string {
	return Classify(tag).Pick(spanish, other)
}
