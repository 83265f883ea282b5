// Package percent implements a simple and straightforward type for percentage values.
package percent

import (
	"math"
	"strconv"
	"strings"
)

// Percent is a percentage value. Values are not clipped, as container
// queries may well ask for `width > 150%`.
type Percent float64

// FromInt creates a percentage of n.
func FromInt(n int) Percent {
	return Percent(n)
}

// FromFloat creates a percentage of f. NaN and infinite values map to 0.
func FromFloat(f float64) Percent {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Percent(0)
	}
	return Percent(f)
}

// FromString parses strings like `80%` or `12.5`.
func FromString(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(s, 64)
	return Percent(f), err
}

// Of resolves p against a reference dimension.
func (p Percent) Of(ref float64) float64 {
	return float64(p) / 100 * ref
}

// Ratio returns p as a ratio, i.e. 50% => 0.5.
func (p Percent) Ratio() float64 {
	return float64(p) / 100
}

func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'g', -1, 64) + "%"
}
