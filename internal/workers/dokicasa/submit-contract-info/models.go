package submitcontractinfo

import (
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
)

type Input struct {
	City           registry.City          `json:"city"`
	ContractType   registry.ContractType  `json:"contractType"`
	Fields         map[string]interface{} `json:"fields"`
	CreationFields map[string]interface{} `json:"creationFields,omitempty"`
	ExternalID     string                 `json:"externalId,omitempty"`
}

type Output struct {
	ContractSubmitted bool        `json:"contractSubmitted"`
	Step3             interface{} `json:"step3"`
	Step4             interface{} `json:"step4"`
	Step3ID           interface{} `json:"step3Id,omitempty"`
}

// Variables returns the process variables set when the job completes.
func (o *Output) Variables() map[string]interface{} {
	vars := map[string]interface{}{
		"contractSubmitted": o.ContractSubmitted,
		"step3":             o.Step3,
		"step4":             o.Step4,
	}
	if o.Step3ID != nil {
		vars["step3Id"] = o.Step3ID
	}
	return vars
}
