package runvalidation

import (
	"fmt"
	"strings"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
)

type ExpressionValidator interface {
	Validate(expression string, items []domain.InvoicingItem, vars []domain.MetadataVariable) domain.ExpressionValidationResult
}

// UseCase walks a configuration and reports every rule violation in one pass.
type UseCase struct {
	Validator ExpressionValidator
}

func (u *UseCase) Run(cfg *domain.Configuration, vocab domain.Vocabulary) []domain.ValidationError {
	out := []domain.ValidationError{}
	if cfg == nil {
		return out
	}

	cfg.FieldMappings.Each(func(name string, fm *domain.FieldMapping) {
		out = append(out, u.field(name, fm, vocab)...)
	})

	for i, cm := range cfg.ConditionMappings {
		out = append(out, u.condition(i, cm, vocab)...)
	}

	return append(out, duplicates(cfg.ConditionMappings)...)
}

func (u *UseCase) field(name string, fm *domain.FieldMapping, vocab domain.Vocabulary) []domain.ValidationError {
	out := []domain.ValidationError{}
	if fm == nil {
		fm = &domain.FieldMapping{}
	}
	scope := func(country string) *domain.Location {
		return &domain.Location{FieldName: name, Country: country}
	}

	if !fm.Type.IsValid() {
		out = append(out, domain.ValidationError{
			ID:       "invalid-type-" + name,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("Invalid field type: %s. Must be one of: %s", fm.Type, typeList()),
			Field:    name,
			Location: scope(""),
		})
	}

	if fm.Type.IsDateTime() && strings.TrimSpace(fm.Format) == "" {
		out = append(out, domain.ValidationError{
			ID:       "missing-format-" + name,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("Field type %s requires a format", fm.Type),
			Field:    name,
			Location: scope(""),
		})
	}

	if len(fm.ExpressionsByCountry) == 0 {
		out = append(out, domain.ValidationError{
			ID:       "no-expressions-" + name,
			Severity: domain.SeverityError,
			Message:  "No country expressions defined",
			Field:    name,
			Location: scope(""),
		})
	}

	for i, ce := range fm.ExpressionsByCountry {
		suffix := fmt.Sprintf("%s-%d", name, i)
		countries := strings.Join(ce.Countries, ", ")
		if len(ce.Countries) == 0 {
			out = append(out, domain.ValidationError{
				ID:       "no-countries-" + suffix,
				Severity: domain.SeverityError,
				Message:  "No countries specified for expression",
				Field:    name,
				Location: scope(""),
			})
		}
		if strings.TrimSpace(ce.Expression) == "" {
			out = append(out, domain.ValidationError{
				ID:       "empty-expression-" + suffix,
				Severity: domain.SeverityError,
				Message:  "Empty expression",
				Field:    name,
				Location: scope(countries),
			})
			continue
		}
		for _, d := range u.expression(ce.Expression, suffix, vocab) {
			d.Field = name
			d.Location = scope(countries)
			out = append(out, d)
		}
	}

	switch {
	case fm.Type == domain.FieldTypeArray && fm.ItemsMappings.Len() == 0:
		out = append(out, domain.ValidationError{
			ID:       "missing-items-" + name,
			Severity: domain.SeverityError,
			Message:  "Field type array requires itemsMappings",
			Field:    name,
			Location: scope(""),
		})
	case fm.Type != domain.FieldTypeArray && fm.ItemsMappings.Len() > 0:
		out = append(out, domain.ValidationError{
			ID:       "unexpected-items-" + name,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("itemsMappings is only allowed on array fields, not %s", fm.Type),
			Field:    name,
			Location: scope(""),
		})
	}

	if fm.Type == domain.FieldTypeArray {
		fm.ItemsMappings.Each(func(itemName string, item *domain.FieldMapping) {
			out = append(out, u.field(name+"."+itemName, item, vocab)...)
		})
	}
	return out
}

func (u *UseCase) condition(index int, cm domain.ConditionMapping, vocab domain.Vocabulary) []domain.ValidationError {
	out := []domain.ValidationError{}
	scope := func(country string) *domain.Location {
		return &domain.Location{ConditionType: cm.ConditionType, Country: country}
	}

	if strings.TrimSpace(cm.ConditionType) == "" {
		out = append(out, domain.ValidationError{
			ID:       fmt.Sprintf("no-condition-type-%d", index),
			Severity: domain.SeverityError,
			Message:  "Missing conditionType",
			Location: &domain.Location{ConditionType: fmt.Sprintf("condition-%d", index)},
		})
	}

	if len(cm.ExpressionsByCountry) == 0 {
		out = append(out, domain.ValidationError{
			ID:       fmt.Sprintf("no-expressions-condition-%d", index),
			Severity: domain.SeverityError,
			Message:  "No country expressions defined",
			Location: scope(""),
		})
	}

	for i, ce := range cm.ExpressionsByCountry {
		suffix := fmt.Sprintf("condition-%d-%d", index, i)
		countries := strings.Join(ce.Countries, ", ")
		if len(ce.Countries) == 0 {
			out = append(out, domain.ValidationError{
				ID:       "no-countries-" + suffix,
				Severity: domain.SeverityError,
				Message:  "No countries specified for expression",
				Location: scope(""),
			})
		}
		if strings.TrimSpace(ce.Expression) == "" {
			out = append(out, domain.ValidationError{
				ID:       "empty-expression-" + suffix,
				Severity: domain.SeverityError,
				Message:  "Empty expression",
				Location: scope(countries),
			})
			continue
		}
		for _, d := range u.expression(ce.Expression, suffix, vocab) {
			d.Location = scope(countries)
			out = append(out, d)
		}
	}
	return out
}

// expression re-emits the static analysis of one expression as diagnostics.
func (u *UseCase) expression(expr, suffix string, vocab domain.Vocabulary) []domain.ValidationError {
	if u.Validator == nil {
		return nil
	}
	res := u.Validator.Validate(expr, vocab.InvoicingItems, vocab.MetadataVariables)
	out := make([]domain.ValidationError, 0, len(res.Errors)+len(res.Warnings))
	for k, msg := range res.Errors {
		out = append(out, domain.ValidationError{
			ID:       fmt.Sprintf("expression-error-%s-%d", suffix, k),
			Severity: domain.SeverityError,
			Message:  "Expression error: " + msg,
		})
	}
	for k, msg := range res.Warnings {
		out = append(out, domain.ValidationError{
			ID:       fmt.Sprintf("expression-warning-%s-%d", suffix, k),
			Severity: domain.SeverityWarning,
			Message:  "Expression warning: " + msg,
		})
	}
	return out
}

// duplicates emits one warning per repeated occurrence of a condition type.
func duplicates(conditions []domain.ConditionMapping) []domain.ValidationError {
	out := []domain.ValidationError{}
	seen := map[string]bool{}
	for i, cm := range conditions {
		if strings.TrimSpace(cm.ConditionType) == "" {
			continue
		}
		if !seen[cm.ConditionType] {
			seen[cm.ConditionType] = true
			continue
		}
		out = append(out, domain.ValidationError{
			ID:       fmt.Sprintf("duplicate-condition-%s-%d", cm.ConditionType, i),
			Severity: domain.SeverityWarning,
			Message:  "Duplicate condition type: " + cm.ConditionType,
			Location: &domain.Location{ConditionType: cm.ConditionType},
		})
	}
	return out
}

func typeList() string {
	names := make([]string, len(domain.FieldTypes))
	for i, t := range domain.FieldTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
