package expression

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
)

var referencePattern = regexp.MustCompile(`#(\w+(?:\.\w+|\[['"][^\]]+['"]\])*(?:\??\.\w+)*)`)

// Variable categories reported by ExtractMetadata.
const (
	CategoryInvoicingItem  = "invoicing_item"
	CategoryOrderMetadata  = "order_metadata"
	CategoryOperation      = "operation"
	CategoryProcessingTime = "processing_time"
	CategoryInputField     = "input_field"
	CategoryContextValue   = "context_value"
	CategoryBooleanFlag    = "boolean_flag"
	CategoryUnknown        = "unknown"
)

const (
	maxExamples      = 3
	maxExampleLength = 100
)

// ExtractVariables returns every distinct reference in the expression,
// subscripts included, in the order they first appear.
func ExtractVariables(expression string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range referencePattern.FindAllStringSubmatch(expression, -1) {
		if closurePointers[m[1]] {
			continue
		}
		ref := "#" + m[1]
		if seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

// Categorize classifies a reference and gives it a short description.
func Categorize(ref string) (category, description string) {
	switch {
	case strings.HasPrefix(ref, "#invoicingItems["):
		return CategoryInvoicingItem, "Reference to an invoicing item with amount values"
	case strings.HasPrefix(ref, "#input.orderMetadata"):
		return CategoryOrderMetadata, "Order metadata field from the input"
	case strings.HasPrefix(ref, "#input.operation"):
		return CategoryOperation, "Operation type (e.g., cancel, complete)"
	case strings.HasPrefix(ref, "#input.processingTime"):
		return CategoryProcessingTime, "When the order was processed"
	case strings.HasPrefix(ref, "#input."):
		return CategoryInputField, "Input field from order data"
	case strings.HasSuffix(ref, "CodeValue"):
		return CategoryContextValue, "Context value computed from order data"
	case strings.HasPrefix(ref, "#is"):
		return CategoryBooleanFlag, "Boolean flag derived from order properties"
	default:
		return CategoryUnknown, "Variable extracted from expressions"
	}
}

// ExtractMetadata builds the metadata variable vocabulary from every
// expression in the configuration. Invoicing items and #item references are
// left out; each variable keeps up to three example expressions.
func ExtractMetadata(cfg *domain.Configuration) []domain.MetadataVariable {
	found := map[string]*domain.MetadataVariable{}
	if cfg == nil {
		return []domain.MetadataVariable{}
	}

	collect := func(expression string) {
		example := truncate(expression, maxExampleLength)
		for _, ref := range ExtractVariables(expression) {
			if mv, ok := found[ref]; ok {
				if len(mv.Examples) < maxExamples && !contains(mv.Examples, example) {
					mv.Examples = append(mv.Examples, example)
				}
				continue
			}
			category, description := Categorize(ref)
			if category == CategoryInvoicingItem || strings.HasPrefix(ref, "#item.") {
				continue
			}
			found[ref] = &domain.MetadataVariable{
				Name:        ref,
				Type:        category,
				Description: description,
				Examples:    []string{example},
			}
		}
	}

	var walk func(fms *domain.FieldMappings)
	walk = func(fms *domain.FieldMappings) {
		fms.Each(func(_ string, fm *domain.FieldMapping) {
			for _, ce := range fm.ExpressionsByCountry {
				collect(ce.Expression)
			}
			walk(fm.ItemsMappings)
		})
	}
	walk(&cfg.FieldMappings)
	for _, cm := range cfg.ConditionMappings {
		for _, ce := range cm.ExpressionsByCountry {
			collect(ce.Expression)
		}
	}

	out := make([]domain.MetadataVariable, 0, len(found))
	for _, mv := range found {
		out = append(out, *mv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
