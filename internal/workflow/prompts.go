package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// System prompts for the two model stages.
const (
	entitySystemPrompt  = "You extract structured fraud investigation entities."
	summarySystemPrompt = "You produce fraud investigation summaries."
)

const entityInstructions = `Extract ONLY the following entities. Return STRICT JSON.
Applicant Name
Customer ID
Branch Code
Requested Amount
Sanctioned Amount

Use null for any entity not present in the sources.`

const summaryInstructions = `You are a senior bank fraud investigation officer.
Using ONLY the data below, generate a clear investigation summary.`

const summaryContract = `Return STRICT JSON with:
- case_id
- summary (3-4 sentences)
- key_findings (bullet list)
- risk_level (LOW / MEDIUM / HIGH)
- recommended_action (single sentence)
No markdown. No explanations.`

// ComposeEntityPrompt builds the entity extraction prompt from the case
// email description and the concatenated OCR text.
func ComposeEntityPrompt(emailDescription, ocrText string) string {
	var sb strings.Builder
	sb.WriteString(entityInstructions)
	sb.WriteString("\n\nEMAIL:\n")
	sb.WriteString(emailDescription)
	sb.WriteString("\n\nDOCUMENT TEXT:\n")
	sb.WriteString(ocrText)
	return sb.String()
}

// ComposeSummaryPrompt builds the summary synthesis prompt from the case id,
// the pretty-printed extracted entities, and the OCR text.
func ComposeSummaryPrompt(caseID string, entities Entities, ocrText string) (string, error) {
	entityJSON, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize entities: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(summaryInstructions)
	sb.WriteString("\n\nCASE ID: ")
	sb.WriteString(caseID)
	sb.WriteString("\n\nEXTRACTED ENTITIES:\n")
	sb.Write(entityJSON)
	sb.WriteString("\n\nOCR DOCUMENT TEXT:\n")
	sb.WriteString(ocrText)
	sb.WriteString("\n\n")
	sb.WriteString(summaryContract)
	return sb.String(), nil
}
