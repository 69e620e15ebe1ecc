// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// KeyReport is the structured outcome of a required-keys check on an LLM
// response. Missing keys are warnings, never hard failures: downstream scoring
// treats absent fields as empty-equivalents.
type KeyReport struct {
	Missing []string
	Present []string
}

func (r *KeyReport) Complete() bool {
	return len(r.Missing) == 0
}

// Fields returns the report as structured log fields.
func (r *KeyReport) Fields() map[string]interface{} {
	return map[string]interface{}{
		"missingKeys": r.Missing,
		"presentKeys": r.Present,
	}
}

// CheckRequiredKeys reports which of the required keys are absent from an LLM
// JSON payload.
func CheckRequiredKeys(payload map[string]interface{}, required []string) *KeyReport {
	report := &KeyReport{}
	for _, key := range required {
		if _, ok := payload[key]; ok {
			report.Present = append(report.Present, key)
		} else {
			report.Missing = append(report.Missing, key)
		}
	}
	return report
}

// ValidateAgainstSchema validates a payload against a JSON schema expressed as
// a Go map. Used for strict contracts (queue messages, index documents) where
// a violation is an error rather than a warning.
func ValidateAgainstSchema(payload map[string]interface{}, schema map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msg := "payload failed schema validation:"
		for _, desc := range result.Errors() {
			msg += fmt.Sprintf(" %s;", desc.String())
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
