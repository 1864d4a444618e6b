// Package emission converts user-reported activities into CO2-equivalent
// estimates using a static coefficient table with degrade-to-default lookups.
package emission

// ActivityRecord is a single user-reported activity to be converted into
// a CO2e estimate. Constructed per request, never retained.
type ActivityRecord struct {
	// Category is an open string key, e.g. "TRANSPORT", "FOOD".
	Category string `json:"category"`

	// Activity is free text ("electric car") or a canonical key fragment.
	Activity string `json:"activity"`

	// Amount is the reported quantity in Unit. Expected > 0, not enforced.
	Amount float64 `json:"amount"`

	// Unit is the reported unit token, e.g. "KM", "KG", "G".
	Unit string `json:"unit"`
}

// UserProfile carries optional personalization attributes owned by the
// identity collaborator. Read-only to this package.
type UserProfile struct {
	PrimaryVehicleType string `json:"primary_vehicle_type,omitempty"`
	FuelType           string `json:"fuel_type,omitempty"`
	DietType           string `json:"diet_type,omitempty"`
	HomeEnergySource   string `json:"home_energy_source,omitempty"`
}
