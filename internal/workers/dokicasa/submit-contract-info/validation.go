package submitcontractinfo

import (
	"strings"

	"github.com/mojjammil/dokicasa-integration/internal/common/errors"
	"github.com/mojjammil/dokicasa-integration/internal/common/validation"
)

var inputValidator *validation.Validator

func init() {
	v, err := validation.NewSubmissionValidator(validation.JobFieldNames)
	if err != nil {
		panic("submit-contract-info: invalid input schema: " + err.Error())
	}
	inputValidator = v
}

// validateInput checks the job variables before they are turned into an Input.
func validateInput(variables map[string]interface{}) error {
	result, err := inputValidator.Validate(variables)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Valid {
		messages := result.GetErrorMessages()
		return errors.NewInvalidRequestError(strings.Join(messages, "; "), messages)
	}
	return nil
}
