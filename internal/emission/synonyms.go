package emission

import "strings"

// activitySynonyms maps lowercase free-text activity names to canonical
// keys, per category. Lookup keys are lowercased and trimmed before use.
// A miss falls through to mechanical key construction in the calculator.
var activitySynonyms = map[string]map[string]string{
	CategoryTransport: {
		"car":          "PETROL_CAR_KM",
		"petrol car":   "PETROL_CAR_KM",
		"gasoline car": "PETROL_CAR_KM",
		"diesel car":   "DIESEL_CAR_KM",
		"electric car": "EV_CAR_KM",
		"ev":           "EV_CAR_KM",
		"hybrid car":   "HYBRID_CAR_KM",
		"motorbike":    "MOTORBIKE_KM",
		"motorcycle":   "MOTORBIKE_KM",
		"bus":          "BUS_KM",
		"train":        "TRAIN_KM",
		"metro":        "TRAIN_KM",
		"flight":       "FLIGHT_KM",
		"plane":        "FLIGHT_KM",
		"bicycle":      "BICYCLE_KM",
		"bike":         "BICYCLE_KM",
		"walking":      "WALKING_KM",
	},
	CategoryFood: {
		"beef":       "BEEF_KG",
		"lamb":       "LAMB_KG",
		"pork":       "PORK_KG",
		"chicken":    "CHICKEN_KG",
		"fish":       "FISH_KG",
		"cheese":     "CHEESE_KG",
		"rice":       "RICE_KG",
		"vegetables": "VEGETABLES_KG",
		"fruits":     "FRUITS_KG",
		"fruit":      "FRUITS_KG",
		"milk":       "MILK_LITER",
		"eggs":       "EGGS_DOZEN",
	},
	CategoryEnergy: {
		"electricity":      "GRID_ELECTRICITY_KWH",
		"grid electricity": "GRID_ELECTRICITY_KWH",
		"solar":            "SOLAR_ELECTRICITY_KWH",
		"wind":             "WIND_ELECTRICITY_KWH",
		"natural gas":      "NATURAL_GAS_KWH",
		"gas":              "NATURAL_GAS_KWH",
		"lpg":              "LPG_LITER",
		"heating oil":      "HEATING_OIL_LITER",
	},
	CategoryPackaging: {
		"plastic":     "PLASTIC_KG",
		"bioplastic":  "BIOPLASTIC_KG",
		"cardboard":   "CARDBOARD_KG",
		"paper":       "PAPER_KG",
		"glass":       "GLASS_KG",
		"aluminum":    "ALUMINUM_KG",
		"aluminium":   "ALUMINUM_KG",
		"compostable": "COMPOSTABLE_KG",
	},
}

// foodPhraseRemap rewrites a few loose food phrasings before the local
// recalculation that follows a failed remote estimate.
var foodPhraseRemap = map[string]string{
	"veg meal":     "vegetables",
	"veggie meal":  "vegetables",
	"veggies":      "vegetables",
	"non-veg meal": "chicken",
	"meat meal":    "chicken",
}

// lookupSynonym resolves a free-text activity name to its canonical key.
func lookupSynonym(category, activity string) (string, bool) {
	catalog, ok := activitySynonyms[strings.ToUpper(strings.TrimSpace(category))]
	if !ok {
		return "", false
	}
	key, ok := catalog[strings.ToLower(strings.TrimSpace(activity))]
	return key, ok
}

// remapFoodPhrase normalizes loose food phrasings to catalog terms.
// Returns the input unchanged when no remap applies.
func remapFoodPhrase(activity string) string {
	if mapped, ok := foodPhraseRemap[strings.ToLower(strings.TrimSpace(activity))]; ok {
		return mapped
	}
	return activity
}
