package emission

import "strings"

// Unit is a supported measurement unit for reported activities.
type Unit string

const (
	UnitKG    Unit = "KG"
	UnitG     Unit = "G"
	UnitKM    Unit = "KM"
	UnitKWH   Unit = "KWH"
	UnitLiter Unit = "LITER"
	UnitDozen Unit = "DOZEN"
)

// GramsPerKg converts gram amounts to kilograms.
const GramsPerKg = 1000.0

// knownUnits is the closed set of unit suffix tokens that Rekey rewrites.
var knownUnits = map[Unit]bool{
	UnitKG:    true,
	UnitG:     true,
	UnitKM:    true,
	UnitKWH:   true,
	UnitLiter: true,
	UnitDozen: true,
}

// ParseUnit normalizes a caller-supplied unit token. Unknown tokens are
// returned uppercased so mechanical key construction still produces a
// stable suffix; ok reports whether the token is one of the supported units.
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToUpper(strings.TrimSpace(s)))
	if knownUnits[u] {
		return u, true
	}
	return u, false
}

// Rekey rewrites the unit suffix of a canonical activity key to the target
// unit. Keys end in "_<UNIT>"; if the existing suffix is a known unit it is
// replaced, otherwise the target unit is appended. This replaces the
// open-ended string surgery the synonym maps would otherwise require.
func Rekey(canonicalKey string, target Unit) string {
	idx := strings.LastIndex(canonicalKey, "_")
	if idx >= 0 {
		if suffix := Unit(canonicalKey[idx+1:]); knownUnits[suffix] {
			if suffix == target {
				return canonicalKey
			}
			return canonicalKey[:idx+1] + string(target)
		}
	}
	return canonicalKey + "_" + string(target)
}

// KeyUnit returns the unit suffix of a canonical key, if it carries one.
func KeyUnit(canonicalKey string) (Unit, bool) {
	idx := strings.LastIndex(canonicalKey, "_")
	if idx < 0 {
		return "", false
	}
	suffix := Unit(canonicalKey[idx+1:])
	if !knownUnits[suffix] {
		return "", false
	}
	return suffix, true
}
