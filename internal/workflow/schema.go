package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const summarySchemaRaw = `{
	"type": "object",
	"required": ["case_id", "summary", "key_findings", "risk_level", "recommended_action"],
	"properties": {
		"case_id": { "type": "string", "minLength": 1 },
		"summary": { "type": "string", "minLength": 1 },
		"key_findings": {
			"type": "array",
			"items": { "type": "string" }
		},
		"risk_level": { "enum": ["LOW", "MEDIUM", "HIGH"] },
		"recommended_action": { "type": "string", "minLength": 1 }
	}
}`

var summarySchema = jsonschema.MustCompileString("summary.json", summarySchemaRaw)

// ValidateSummary checks a parsed summary against the summary contract. The
// record round-trips through JSON so the schema sees the same shape clients
// receive.
func ValidateSummary(record SummaryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal summary: %w", err)
	}

	if err := summarySchema.Validate(v); err != nil {
		return fmt.Errorf("validate summary: %w", err)
	}

	return nil
}
