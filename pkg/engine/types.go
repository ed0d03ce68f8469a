package engine

import (
	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
	"github.com/Victor-armando18/payload-mapper/internal/interfaces"
)

type (
	Configuration     = domain.Configuration
	FieldMappings     = domain.FieldMappings
	FieldMapping      = domain.FieldMapping
	FieldType         = domain.FieldType
	CountryExpression = domain.CountryExpression
	ConditionMapping  = domain.ConditionMapping

	OrderRecord = model.OrderRecord

	Vocabulary                 = domain.Vocabulary
	InvoicingItem              = domain.InvoicingItem
	MetadataVariable           = domain.MetadataVariable
	ValidationError            = domain.ValidationError
	ValidationSummary          = domain.ValidationSummary
	ExpressionValidationResult = domain.ExpressionValidationResult

	GuardRule      = domain.GuardRule
	GuardPack      = domain.GuardPack
	GuardViolation = domain.GuardViolation

	PayloadGenerationResult = engine.PayloadGenerationResult
	FieldError              = engine.FieldError
	Condition               = engine.Condition
	ExecutionStep           = engine.ExecutionStep
	RunRequest              = engine.RunRequest
	RunReport               = engine.RunReport
	ValidationRequest       = engine.ValidationRequest
	ValidationReport        = engine.ValidationReport

	// Service generates and validates against configurations loaded by name.
	Service = interfaces.EngineFacade
)
