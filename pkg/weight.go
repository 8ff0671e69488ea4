package pkg

import (
	"fmt"
	"math"
	"strings"
)

// WeightUnit is the display unit for weights (app settings surface).
type WeightUnit string

const (
	WeightUnitKg WeightUnit = "kg"
	WeightUnitLb WeightUnit = "lb"

	kilosPerPound = 0.45359237
)

func (u WeightUnit) IsValid() bool {
	return u == WeightUnitKg || u == WeightUnitLb
}

func KilosToPounds(kilos float64) float64 {
	return kilos / kilosPerPound
}

func PoundsToKilos(pounds float64) float64 {
	return pounds * kilosPerPound
}

// ConvertWeight converts value between kg and lb. Same-unit conversion is a no-op.
func ConvertWeight(value float64, from, to WeightUnit) (float64, error) {
	if !from.IsValid() {
		return 0, fmt.Errorf("invalid weight unit: %s", from)
	}
	if !to.IsValid() {
		return 0, fmt.Errorf("invalid weight unit: %s", to)
	}
	if from == to {
		return value, nil
	}
	if from == WeightUnitKg {
		return KilosToPounds(value), nil
	}
	return PoundsToKilos(value), nil
}

// FormatWeight renders a weight value the way the app displays it:
// rounded to one decimal, trailing ".0" trimmed, unit suffixed.
func FormatWeight(value float64, unit WeightUnit) string {
	rounded := math.Round(value*10) / 10
	s := fmt.Sprintf("%.1f", rounded)
	s = strings.TrimSuffix(s, ".0")
	return fmt.Sprintf("%s %s", s, unit)
}
