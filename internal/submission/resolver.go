package submission

import (
	"strings"

	"github.com/mojjammil/dokicasa-integration/internal/common/errors"
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
)

const defaultBaseURL = "https://app.dokicasa.it"

// Resolver maps a city and contract type to provider form URLs. It is
// immutable once built.
type Resolver struct {
	baseURL string
	catalog *registry.FormCatalog
}

// NewResolver trims trailing slashes from baseURL. A nil catalog means the
// built-in one.
func NewResolver(baseURL string, catalog *registry.FormCatalog) *Resolver {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if catalog == nil {
		catalog = registry.DefaultCatalog()
	}
	return &Resolver{baseURL: baseURL, catalog: catalog}
}

func (r *Resolver) formURL(slug string) string {
	return r.baseURL + "/api/v3/form/" + slug
}

// Step3URL returns the contract form URL.
func (r *Resolver) Step3URL(city registry.City, ct registry.ContractType) (string, error) {
	if !registry.IsValidCity(city) || !registry.IsValidContractType(ct) {
		return "", errors.NewUnsupportedCombinationError(string(city), string(ct))
	}
	slug, ok := r.catalog.Step3Slug(city, ct)
	if !ok {
		return "", errors.NewUnsupportedCombinationError(string(city), string(ct))
	}
	return r.formURL(slug), nil
}

// Step4URL returns the document creation form URL.
func (r *Resolver) Step4URL(city registry.City) (string, error) {
	if !registry.IsValidCity(city) {
		return "", errors.NewUnsupportedCombinationError(string(city), "")
	}
	slug, ok := r.catalog.Step4Slug(city)
	if !ok {
		return "", errors.NewUnsupportedCombinationError(string(city), "")
	}
	return r.formURL(slug), nil
}
