package engine

import (
	"encoding/json"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
)

// RunRequest describes one generation pass. Config takes precedence over
// ConfigName.
type RunRequest struct {
	ConfigName string                `json:"configName,omitempty"`
	Config     *domain.Configuration `json:"config,omitempty"`
	Record     *model.OrderRecord    `json:"record"`
	Country    string                `json:"country"`
	// Expected, when set, is compared with the generated payload.
	Expected map[string]any `json:"expected,omitempty"`
}

type RunReport struct {
	RunID        string                  `json:"runId"`
	Country      string                  `json:"country"`
	Success      bool                    `json:"success"`
	Payload      map[string]any          `json:"payload"`
	Errors       []FieldError            `json:"errors"`
	ExecutionLog []ExecutionStep         `json:"executionLog"`
	GuardsHit    []domain.GuardViolation `json:"guardsHit"`
	Delta        json.RawMessage         `json:"delta,omitempty"`
	Matches      *bool                   `json:"matchesExpected,omitempty"`
}

type ValidationRequest struct {
	ConfigName string                `json:"configName,omitempty"`
	Config     *domain.Configuration `json:"config,omitempty"`
	// Vocabulary overrides the loaded one when set.
	Vocabulary *domain.Vocabulary `json:"vocabulary,omitempty"`
	// Previous diagnostics to compare against.
	Previous []domain.ValidationError `json:"previous,omitempty"`
}

type ValidationReport struct {
	RunID       string                   `json:"runId"`
	Diagnostics []domain.ValidationError `json:"diagnostics"`
	Summary     domain.ValidationSummary `json:"summary"`
	Delta       *domain.DiagnosticsDelta `json:"delta,omitempty"`
}
