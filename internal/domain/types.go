package domain

import (
	"errors"
	"strings"
)

// --- Configuration ---

type FieldType string

const (
	FieldTypeString                FieldType = "string"
	FieldTypeOptionalString        FieldType = "optional_string"
	FieldTypeDouble                FieldType = "double"
	FieldTypeLocalDateTime         FieldType = "local_date_time"
	FieldTypeOptionalLocalDateTime FieldType = "optional_local_date_time"
	FieldTypeArray                 FieldType = "array"
)

// FieldTypes lists every declared field type in documentation order.
var FieldTypes = []FieldType{
	FieldTypeString,
	FieldTypeOptionalString,
	FieldTypeDouble,
	FieldTypeLocalDateTime,
	FieldTypeOptionalLocalDateTime,
	FieldTypeArray,
}

func (t FieldType) IsValid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t FieldType) IsDateTime() bool {
	return t == FieldTypeLocalDateTime || t == FieldTypeOptionalLocalDateTime
}

func (t FieldType) IsOptional() bool {
	return strings.HasPrefix(string(t), "optional_")
}

// Configuration is the mapping document: output fields plus pricing conditions.
type Configuration struct {
	FieldMappings     FieldMappings      `yaml:"fieldMappings" json:"fieldMappings"`
	ConditionMappings []ConditionMapping `yaml:"conditionMappings" json:"conditionMappings"`
}

type FieldMapping struct {
	Type                 FieldType           `yaml:"type" json:"type"`
	Format               string              `yaml:"format,omitempty" json:"format,omitempty"`
	ExpressionsByCountry []CountryExpression `yaml:"expressionsByCountry" json:"expressionsByCountry"`
	ItemsMappings        *FieldMappings      `yaml:"itemsMappings,omitempty" json:"itemsMappings,omitempty"`
}

type CountryExpression struct {
	Countries  []string `yaml:"countries" json:"countries"`
	Expression string   `yaml:"expression" json:"expression"`
}

// Contains reports whether the entry covers the country. Matching is exact.
func (c CountryExpression) Contains(country string) bool {
	for _, code := range c.Countries {
		if code == country {
			return true
		}
	}
	return false
}

type ConditionMapping struct {
	ConditionType        string              `yaml:"conditionType" json:"conditionType"`
	ExpressionsByCountry []CountryExpression `yaml:"expressionsByCountry" json:"expressionsByCountry"`
}

// --- Vocabularies ---

type InvoicingItem struct {
	Name        string `json:"name"`
	SourceType  string `json:"sourceType"`
	From        string `json:"from"`
	To          string `json:"to"`
	Issuer      string `json:"issuer"`
	Recipient   string `json:"recipient"`
	AmountType  string `json:"amountType"`
	Taxation    string `json:"taxation"`
	Description string `json:"description"`
}

type MetadataVariable struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// Vocabulary groups the names expressions are checked against.
type Vocabulary struct {
	InvoicingItems    []InvoicingItem    `json:"invoicingItems"`
	MetadataVariables []MetadataVariable `json:"metadataVariables"`
}

// --- Diagnostics ---

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Location struct {
	FieldName     string `json:"fieldName,omitempty"`
	ConditionType string `json:"conditionType,omitempty"`
	Country       string `json:"country,omitempty"`
}

type ValidationError struct {
	ID       string    `json:"id"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Field    string    `json:"field,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// ExpressionValidationResult is the static analysis outcome for one expression.
type ExpressionValidationResult struct {
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
	Variables []string `json:"variables"`
}

type ValidationSummary struct {
	Valid        bool `json:"valid"`
	ErrorCount   int  `json:"errorCount"`
	WarningCount int  `json:"warningCount"`
	InfoCount    int  `json:"infoCount"`
}

// Summarize counts diagnostics by severity. Only errors make a configuration invalid.
func Summarize(diags []ValidationError) ValidationSummary {
	var s ValidationSummary
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			s.ErrorCount++
		case SeverityWarning:
			s.WarningCount++
		case SeverityInfo:
			s.InfoCount++
		}
	}
	s.Valid = s.ErrorCount == 0
	return s
}

// DiagnosticsDelta lists what changed between two validation passes.
type DiagnosticsDelta struct {
	Added    []ValidationError `json:"added"`
	Resolved []ValidationError `json:"resolved"`
}

func (d DiagnosticsDelta) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Resolved) == 0
}

// --- Guards ---

// GuardRule is a JsonLogic rule checked against a generated payload.
type GuardRule struct {
	ID           string         `json:"id" yaml:"id"`
	Logic        map[string]any `json:"logic" yaml:"logic"`
	ErrorMessage string         `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

type GuardPack struct {
	Version     string      `json:"version" yaml:"version"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Guards      []GuardRule `json:"guards" yaml:"guards"`
}

type GuardViolation struct {
	RuleID  string `json:"ruleId"`
	Reason  string `json:"reason"`
	Context string `json:"context"`
}

// --- Errors ---
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrUnknownBinding       = errors.New("unknown context binding")
	ErrGuardExecutionFailed = errors.New("guard execution failed")
)
