package workflow

import "time"

// State bag keys shared across pipeline nodes.
const (
	KeyCaseID      = "case_id"
	KeyMetadata    = "case_metadata"
	KeyAttachments = "attachments"
	KeyOCRText     = "ocr_text"
	KeyEntities    = "entities"
	KeySummary     = "summary"
)

// RiskLevel is the categorical fraud risk assessment produced by the summary stage.
type RiskLevel string

// Valid risk levels.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Attachment is a case file retrieved from blob storage, tagged with its
// base filename.
type Attachment struct {
	Filename string
	Data     []byte
}

// CaseEmail describes the triggering alert or complaint email for a case.
type CaseEmail struct {
	From        string `json:"from"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	ReceivedOn  string `json:"received_on"`
}

// CaseCustomer identifies the customer under investigation.
type CaseCustomer struct {
	Name        string `json:"name"`
	CustomerID  string `json:"customer_id"`
	AccountType string `json:"account_type"`
}

// CaseMetadata carries the investigation context supplied with a request.
// All fields are optional; only the email description feeds the entity
// extraction prompt.
type CaseMetadata struct {
	CaseType      string       `json:"case_type"`
	FraudCategory string       `json:"fraud_category"`
	Priority      string       `json:"priority"`
	Email         CaseEmail    `json:"email"`
	Customer      CaseCustomer `json:"customer"`
}

// Entities is the opaque mapping produced by the entity extraction stage.
// Values are whatever the model returned for each requested label; no schema
// is enforced beyond valid JSON.
type Entities map[string]any

// SummaryRecord is the structured investigation summary produced by the
// synthesis stage.
type SummaryRecord struct {
	CaseID            string    `json:"case_id"`
	Summary           string    `json:"summary"`
	KeyFindings       []string  `json:"key_findings"`
	RiskLevel         RiskLevel `json:"risk_level"`
	RecommendedAction string    `json:"recommended_action"`
}

// PipelineResult is the final output of a pipeline execution, ready for
// persistence.
type PipelineResult struct {
	CaseID          string
	AttachmentCount int
	OCRText         string
	Entities        Entities
	Summary         SummaryRecord
	CompletedAt     time.Time
}
