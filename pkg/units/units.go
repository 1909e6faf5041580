// Package units holds the unit conversions shared by the tire model and the
// catalog ingestion code. Geometry is carried in inches, pressure in psi,
// loads in lbf, cord tension in newtons and mass in kilograms; everything
// that crosses those boundaries goes through this package.
package units

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// InchToMeter converts inches to meters.
	InchToMeter = 0.0254
	// PsiToPascal converts psi to pascals.
	PsiToPascal = 6894.757293168
	// LbfToNewton converts pound-force to newtons.
	LbfToNewton = 4.4482216153
	// KnotToMph converts knots to statute miles per hour.
	KnotToMph = 1.1507794480235
	// MmToInch converts millimeters to inches.
	MmToInch = 1.0 / 25.4
	// AtmospherePa is standard atmospheric pressure in pascals.
	AtmospherePa = 101325.0
)

// CubicInchToCubicMeter converts a volume from in^3 to m^3.
func CubicInchToCubicMeter(v float64) float64 {
	return v * InchToMeter * InchToMeter * InchToMeter
}

// PsigToPaAbsolute converts a gauge pressure in psi to an absolute pressure
// in pascals.
func PsigToPaAbsolute(psi float64) float64 {
	return psi*PsiToPascal + AtmospherePa
}

// ConversionPolicy controls how metric-derived ("*" prefix) sizes are
// converted to inch nomenclature. The databooks do not document a single
// rounding convention, so the policy is explicit configuration rather than
// a guess baked into the model.
type ConversionPolicy string

const (
	// PolicyExact converts without rounding.
	PolicyExact ConversionPolicy = "exact"
	// PolicyNearestQuarter rounds the converted value to the nearest 0.25 in,
	// matching the granularity of the bias size tables.
	PolicyNearestQuarter ConversionPolicy = "nearest-quarter"
	// PolicyNearestHalf rounds the converted value to the nearest 0.5 in.
	PolicyNearestHalf ConversionPolicy = "nearest-half"
)

// ParseConversionPolicy parses a policy name from configuration.
func ParseConversionPolicy(s string) (ConversionPolicy, error) {
	switch ConversionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyExact, "":
		return PolicyExact, nil
	case PolicyNearestQuarter:
		return PolicyNearestQuarter, nil
	case PolicyNearestHalf:
		return PolicyNearestHalf, nil
	}
	return "", fmt.Errorf("unknown conversion policy: %q", s)
}

// MetricToInch converts a millimeter dimension to inches under the policy.
func (p ConversionPolicy) MetricToInch(mm float64) float64 {
	in := mm * MmToInch
	switch p {
	case PolicyNearestQuarter:
		return math.Round(in*4) / 4
	case PolicyNearestHalf:
		return math.Round(in*2) / 2
	default:
		return in
	}
}

var speedUnitRe = regexp.MustCompile(`[A-Za-z ]+`)

// ParseSpeedIndex parses a databook speed-index cell into mph. Cells may be
// plain mph numbers, knot ratings such as "195kt" or "195 Kt", or the "LS"
// (low speed) designation, which the databooks treat as a nominal 1 mph.
func ParseSpeedIndex(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, nil
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "ls") {
		return 1, nil
	}
	hasKnots := strings.Contains(lower, "kt") || strings.HasSuffix(lower, "k")
	stripped := strings.TrimSpace(speedUnitRe.ReplaceAllString(s, " "))
	fields := strings.Fields(stripped)
	if len(fields) == 0 {
		return 0, fmt.Errorf("unparseable speed index: %q", cell)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable speed index %q: %w", cell, err)
	}
	if hasKnots {
		return v * KnotToMph, nil
	}
	return v, nil
}
