// pkg/registry/schema.go
package registry

// City is a city the provider publishes rental-contract forms for.
type City string

const (
	CityMilano City = "milano"
	CityRoma   City = "roma"
	CityTorino City = "torino"
)

// ContractType is a rental-contract template offered for a city.
type ContractType string

const (
	ContractCanone3x2            ContractType = "locazione-3-2-canone"
	ContractTransitoriaCanone    ContractType = "locazione-transitoria-canone"
	ContractStudentiUniversitari ContractType = "locazione-studenti-universitari"
)

// Cities lists every supported city in a stable order.
var Cities = []City{CityMilano, CityRoma, CityTorino}

// ContractTypes lists every supported contract type in a stable order.
var ContractTypes = []ContractType{
	ContractCanone3x2,
	ContractTransitoriaCanone,
	ContractStudentiUniversitari,
}

// FormCatalog maps cities and contract types to provider form slugs.
type FormCatalog struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Forms       []FormEntry `json:"forms"`
	Creation    []FormEntry `json:"creation"`
}

// FormEntry is one provider form. ContractType is empty for Step-4
// (document creation) entries, which are keyed by city only.
type FormEntry struct {
	City         City         `json:"city"`
	ContractType ContractType `json:"contractType,omitempty"`
	Slug         string       `json:"slug"`
}

// IsValidCity reports whether c belongs to the closed city set.
func IsValidCity(c City) bool {
	for _, known := range Cities {
		if c == known {
			return true
		}
	}
	return false
}

// IsValidContractType reports whether ct belongs to the closed contract type set.
func IsValidContractType(ct ContractType) bool {
	for _, known := range ContractTypes {
		if ct == known {
			return true
		}
	}
	return false
}
