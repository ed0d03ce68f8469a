package engine

// EvaluationResult is the outcome of evaluating one expression.
type EvaluationResult struct {
	Success bool   `json:"success"`
	Value   any    `json:"value"`
	Error   string `json:"error,omitempty"`
}

type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type Condition struct {
	ConditionType  string `json:"conditionType"`
	ConditionValue string `json:"conditionValue"`
}

// PayloadGenerationResult carries a best-effort payload. It is provisional
// until Success is checked.
type PayloadGenerationResult struct {
	Success bool           `json:"success"`
	Payload map[string]any `json:"payload"`
	Errors  []FieldError   `json:"errors"`
}
