// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const catalogVersion = "3.0.0"

// DefaultCatalog returns the form slugs currently published by the provider
// under /api/v3/form.
func DefaultCatalog() *FormCatalog {
	return &FormCatalog{
		Version:     catalogVersion,
		LastUpdated: "2025-10-30",
		Forms: []FormEntry{
			{City: CityMilano, ContractType: ContractCanone3x2, Slug: "locazione-3-2-canone-concordato-milano"},
			{City: CityMilano, ContractType: ContractTransitoriaCanone, Slug: "locazione-transitoria-canone-concordato-milano"},
			{City: CityMilano, ContractType: ContractStudentiUniversitari, Slug: "locazione-studenti-universitari-milano"},

			{City: CityRoma, ContractType: ContractCanone3x2, Slug: "locazione-canone-concordato-roma"},
			{City: CityRoma, ContractType: ContractTransitoriaCanone, Slug: "locazione-transitoria-canone-concordato-roma"},
			{City: CityRoma, ContractType: ContractStudentiUniversitari, Slug: "locazione-studenti-universitari-roma"},

			{City: CityTorino, ContractType: ContractCanone3x2, Slug: "locazione-canone-concordato-torino"},
			{City: CityTorino, ContractType: ContractTransitoriaCanone, Slug: "locazione-transitoria-canone-concordato-torino"},
			{City: CityTorino, ContractType: ContractStudentiUniversitari, Slug: "locazione-studenti-universitari-torino"},
		},
		Creation: []FormEntry{
			{City: CityMilano, Slug: CreationSlug(CityMilano)},
			{City: CityRoma, Slug: CreationSlug(CityRoma)},
			{City: CityTorino, Slug: CreationSlug(CityTorino)},
		},
	}
}

// CreationSlug is the Step-4 document creation form slug for a city.
func CreationSlug(city City) string {
	return "creazione-documenti-canone-concordato-" + string(city)
}

// LoadRegistry reads a catalog from a JSON file.
func LoadRegistry(path string) (*FormCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FormCatalog
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes the catalog as indented JSON.
func SaveRegistry(path string, reg *FormCatalog) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Validate checks that the catalog covers the full City x ContractType cross
// product for Step 3 and every city for Step 4, with no unknown or duplicate
// entries.
func (c *FormCatalog) Validate() error {
	var problems []string

	seen := make(map[string]bool)
	for _, f := range c.Forms {
		key := string(f.City) + "/" + string(f.ContractType)
		switch {
		case !IsValidCity(f.City):
			problems = append(problems, fmt.Sprintf("unknown city %q", f.City))
		case !IsValidContractType(f.ContractType):
			problems = append(problems, fmt.Sprintf("unknown contract type %q for %s", f.ContractType, f.City))
		case strings.TrimSpace(f.Slug) == "":
			problems = append(problems, fmt.Sprintf("empty slug for %s", key))
		case seen[key]:
			problems = append(problems, fmt.Sprintf("duplicate form %s", key))
		}
		seen[key] = true
	}

	seenCreation := make(map[City]bool)
	for _, f := range c.Creation {
		switch {
		case !IsValidCity(f.City):
			problems = append(problems, fmt.Sprintf("unknown creation city %q", f.City))
		case strings.TrimSpace(f.Slug) == "":
			problems = append(problems, fmt.Sprintf("empty creation slug for %s", f.City))
		case seenCreation[f.City]:
			problems = append(problems, fmt.Sprintf("duplicate creation form %s", f.City))
		}
		seenCreation[f.City] = true
	}

	for _, city := range Cities {
		for _, ct := range ContractTypes {
			if !seen[string(city)+"/"+string(ct)] {
				problems = append(problems, fmt.Sprintf("missing form %s/%s", city, ct))
			}
		}
		if !seenCreation[city] {
			problems = append(problems, fmt.Sprintf("missing creation form %s", city))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("catalog incomplete: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Step3Slug returns the slug for a (city, contract type) pair.
func (c *FormCatalog) Step3Slug(city City, ct ContractType) (string, bool) {
	for _, f := range c.Forms {
		if f.City == city && f.ContractType == ct {
			return f.Slug, true
		}
	}
	return "", false
}

// Step4Slug returns the document creation slug for a city.
func (c *FormCatalog) Step4Slug(city City) (string, bool) {
	for _, f := range c.Creation {
		if f.City == city {
			return f.Slug, true
		}
	}
	return "", false
}
