package conversion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "unit-converter-skill/internal/common/errors"
	"unit-converter-skill/internal/common/locale"
)

// Result is a successful conversion.
type Result struct {
	Value     float64
	From      string
	Converted float64
	To        string
}

// FormattedValue renders the spoken input value.
func (r *Result) FormattedValue() string {
	return FormatValue(r.Value)
}

// FormattedConverted renders the spoken converted value with two decimals.
func (r *Result) FormattedConverted() string {
	return FormatConverted(r.Converted)
}

// ParseValue parses a value slot. Empty, malformed and non-finite input
// yields an INVALID_VALUE error.
func ParseValue(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, apperrors.NewInvalidValueError(raw, fmt.Errorf("empty value"))
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, apperrors.NewInvalidValueError(raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.NewInvalidValueError(raw, fmt.Errorf("non-finite value"))
	}
	return v, nil
}

// Resolve converts value from one unit to another using the table of class.
// An absent pair yields UNKNOWN_CONVERSION regardless of value; a non-finite
// value yields INVALID_VALUE.
func Resolve(class locale.Class, from, to string, value float64) (*Result, error) {
	factor, ok := TableFor(class).Factor(from, to)
	if !ok {
		return nil, apperrors.NewUnknownConversionError(from, to)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, apperrors.NewInvalidValueError(FormatValue(value), fmt.Errorf("non-finite value"))
	}

	product := value * factor
	if math.IsInf(product, 0) {
		return nil, apperrors.NewInvalidValueError(FormatValue(value), fmt.Errorf("converted value out of range"))
	}

	return &Result{
		Value:     value,
		From:      from,
		Converted: Round2(product),
		To:        to,
	}, nil
}

// ResolveRaw checks the unit pair before parsing the raw value so an unknown
// pair wins over an unparseable value.
func ResolveRaw(class locale.Class, from, to, raw string) (*Result, error) {
	if _, ok := TableFor(class).Factor(from, to); !ok {
		return nil, apperrors.NewUnknownConversionError(from, to)
	}
	value, err := ParseValue(raw)
	if err != nil {
		return nil, err
	}
	return Resolve(class, from, to, value)
}

// roundLimit is where float64 stops carrying hundredths.
const roundLimit = 1e15

// exponentLimit is the magnitude from which numbers are spoken in exponent form.
const exponentLimit = 1e21

// Round2 rounds half away from zero to two decimal places. Values at or above
// roundLimit are returned unchanged.
func Round2(x float64) float64 {
	if math.Abs(x) >= roundLimit {
		return x
	}
	return math.Round(x*100) / 100
}

// FormatValue renders v in its shortest decimal form ("10", "2.5"), switching
// to exponent form ("1e+307") for very large or very small magnitudes.
func FormatValue(v float64) string {
	if useExponent(v) {
		return formatExponent(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatConverted renders v with exactly two decimals after rounding.
// Magnitudes at or above exponentLimit use exponent form.
func FormatConverted(v float64) string {
	if math.Abs(v) >= exponentLimit {
		return formatExponent(v)
	}
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

func useExponent(v float64) bool {
	abs := math.Abs(v)
	return abs >= exponentLimit || (abs != 0 && abs < 1e-6)
}

// formatExponent prints the shortest mantissa with an unpadded exponent
// ("1e+307", "1.5e-7").
func formatExponent(v float64) string {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
