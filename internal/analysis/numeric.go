package analysis

import (
	"math"
	"strconv"
	"strings"
)

// NumberFormat controls how view counts are parsed. Zero separators mean
// auto-detect per value.
type NumberFormat struct {
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// ParseNumber coerces a raw cell into a finite float. Blank, NaN, Inf and
// non-numeric values return ok=false.
func (nf NumberFormat) ParseNumber(s string) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := nf.DecimalSeparator
	thou := nf.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0 && isThousandsGrouped(raw, ','):
			// 1,234 is a grouped integer, 1,5 is a decimal comma
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		case dpos >= 0 && isThousandsGrouped(raw, '.'):
			// 1.234 and 1.234.567 are pt-BR grouped integers
			dec, thou = ',', '.'
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isThousandsGrouped reports whether every sep in s is followed by exactly
// three digits, as in "12,345,678".
func isThousandsGrouped(s string, sep byte) bool {
	parts := strings.Split(strings.TrimLeft(s, "+-"), string(sep))
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 || strings.Trim(p, "0123456789") != "" {
			return false
		}
	}
	return true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
