// Package submission runs the two-step Dokicasa contract submission: the
// Step-3 contract form followed by the dependent Step-4 document creation.
package submission

import (
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
)

// Step3IDField is the Step-4 form key carrying the Step-3 identifier.
const Step3IDField = "step3_id"

// DefaultExternalID is attached to submissions that carry no external id.
const DefaultExternalID = "32727_4"

// Request is one client submission.
type Request struct {
	City           registry.City          `json:"city"`
	ContractType   registry.ContractType  `json:"contract_type"`
	ExternalID     string                 `json:"external_id,omitempty"`
	Fields         map[string]interface{} `json:"fields"`
	CreationFields map[string]interface{} `json:"creation_fields,omitempty"`
}

// FieldSchema is a provider form schema: per field-id metadata in the order
// the provider declared the fields.
type FieldSchema struct {
	Order  []string
	Fields map[string]map[string]interface{}
}

// MergedForm is a schema with a "value" set on every field.
type MergedForm map[string]map[string]interface{}

// Outcome is returned only when both steps succeeded.
type Outcome struct {
	OK           bool                  `json:"ok"`
	City         registry.City         `json:"city"`
	ContractType registry.ContractType `json:"contract_type"`
	Step3        interface{}           `json:"step3"`
	Step4        interface{}           `json:"step4"`
}

// Config is the process-wide, read-only input of an Orchestrator.
type Config struct {
	BaseURL     string
	Token       string
	ExternalIDs map[registry.City]string
	Catalog     *registry.FormCatalog
}

func (c Config) externalID(req *Request) string {
	if req.ExternalID != "" {
		return req.ExternalID
	}
	if id := c.ExternalIDs[req.City]; id != "" {
		return id
	}
	return DefaultExternalID
}

// State is a stage of a submission run.
type State string

const (
	StateInit            State = "init"
	StateStep3Resolving  State = "step3_resolving"
	StateStep3Validating State = "step3_validating"
	StateStep3Submitting State = "step3_submitting"
	StateStep4Resolving  State = "step4_resolving"
	StateStep4Validating State = "step4_validating"
	StateStep4Submitting State = "step4_submitting"
	StateDone            State = "done"
	StateFailed          State = "failed"
)
