package emission

// Category keys carried by the built-in factor table. Categories are open
// string keys; these are the ones the table ships factors for.
const (
	CategoryTransport = "TRANSPORT"
	CategoryFood      = "FOOD"
	CategoryEnergy    = "ENERGY"
	CategoryPackaging = "PACKAGING"
)

// DefaultFactor is the global fallback emission factor in kg CO2e per unit.
// Every lookup that misses the table degrades to this value instead of
// failing, so callers always receive an approximate estimate.
const DefaultFactor = 0.5

// FactorTable maps Category -> canonical activity key -> kg CO2e per unit.
// The table is read-only after construction and safe for concurrent readers.
type FactorTable map[string]map[string]float64

// builtinFactors is the shipped coefficient table.
// Values are kg CO2e per unit of the key's suffix (KM, KG, KWH, LITER, DOZEN).
//
// Sources: UK DEFRA/BEIS conversion factors (transport, energy) and
// Poore & Nemecek 2018 (food), rounded to the precision the product uses.
var builtinFactors = FactorTable{
	CategoryTransport: {
		"PETROL_CAR_KM": 0.192,
		"DIESEL_CAR_KM": 0.171,
		"EV_CAR_KM":     0.053,
		"HYBRID_CAR_KM": 0.109,
		"MOTORBIKE_KM":  0.113,
		"BUS_KM":        0.105,
		"TRAIN_KM":      0.041,
		"FLIGHT_KM":     0.255,
		"BICYCLE_KM":    0.0,
		"WALKING_KM":    0.0,
	},
	CategoryFood: {
		"BEEF_KG":       27.0,
		"LAMB_KG":       24.5,
		"PORK_KG":       12.1,
		"CHICKEN_KG":    6.9,
		"FISH_KG":       6.1,
		"CHEESE_KG":     13.5,
		"RICE_KG":       4.0,
		"VEGETABLES_KG": 2.0,
		"FRUITS_KG":     1.1,
		"MILK_LITER":    1.9,
		"EGGS_DOZEN":    2.7,
	},
	CategoryEnergy: {
		"GRID_ELECTRICITY_KWH":  0.475,
		"SOLAR_ELECTRICITY_KWH": 0.041,
		"WIND_ELECTRICITY_KWH":  0.011,
		"NATURAL_GAS_KWH":       0.185,
		"LPG_LITER":             1.51,
		"HEATING_OIL_LITER":     2.52,
	},
	CategoryPackaging: {
		"PLASTIC_KG":     6.0,
		"BIOPLASTIC_KG":  2.3,
		"CARDBOARD_KG":   0.8,
		"PAPER_KG":       0.9,
		"GLASS_KG":       0.85,
		"ALUMINUM_KG":    11.0,
		"COMPOSTABLE_KG": 1.2,
	},
}

// NewFactorTable returns the built-in coefficient table with the given
// overrides merged on top. Overrides may add categories, add activity keys,
// or replace shipped factors; the result is a fresh table so the built-in
// data is never mutated. Pass nil for the shipped defaults.
func NewFactorTable(overrides map[string]map[string]float64) FactorTable {
	table := make(FactorTable, len(builtinFactors))
	for category, factors := range builtinFactors {
		entry := make(map[string]float64, len(factors))
		for key, factor := range factors {
			entry[key] = factor
		}
		table[category] = entry
	}
	for category, factors := range overrides {
		entry, ok := table[category]
		if !ok {
			entry = make(map[string]float64, len(factors))
			table[category] = entry
		}
		for key, factor := range factors {
			entry[key] = factor
		}
	}
	return table
}
