package expression

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
)

// Static analysis is pattern based, not a parse: references inside string
// literals are picked up and exotic subscripts can be missed.
var (
	invoicingItemPattern = regexp.MustCompile(`#invoicingItems\[\s*['"]([^'"\]]+)['"]\s*\]`)
	variablePattern      = regexp.MustCompile(`#(\w+(?:\??\.\w+)*)`)
)

// Roots that are always in scope and never reported as unknown.
var implicitRoots = map[string]bool{
	"#" + engine.BindingInvoicingItems: true,
	"#" + engine.BindingInput:          true,
	"#" + engine.BindingItem:           true,
}

const elvisHint = "Double question mark (??) is non-standard in the mapping dialect, prefer ?: for the elvis operator"

type Validator struct {
	compiler engine.ExpressionCompiler
}

func NewValidator(compiler engine.ExpressionCompiler) *Validator {
	return &Validator{compiler: compiler}
}

// Validate checks syntax and cross-checks every reference against the known
// vocabularies without evaluating anything. Unknown invoicing items are
// errors; unknown variables are only warnings.
func (v *Validator) Validate(expression string, items []domain.InvoicingItem, vars []domain.MetadataVariable) domain.ExpressionValidationResult {
	res := domain.ExpressionValidationResult{
		Errors:    []string{},
		Warnings:  []string{},
		Variables: []string{},
	}
	seen := map[string]bool{}
	addVariable := func(name string) bool {
		if seen[name] {
			return false
		}
		seen[name] = true
		res.Variables = append(res.Variables, name)
		return true
	}

	if strings.TrimSpace(expression) != "" && v.compiler != nil {
		if err := v.compiler.Compile(expression); err != nil {
			res.Errors = append(res.Errors, "Syntax error: "+firstLine(err.Error()))
		}
	}

	knownItems := make(map[string]bool, len(items))
	for _, it := range items {
		knownItems[it.Name] = true
	}
	for _, m := range invoicingItemPattern.FindAllStringSubmatch(expression, -1) {
		name := m[1]
		if !addVariable(fmt.Sprintf("#invoicingItems['%s']", name)) {
			continue
		}
		if !knownItems[name] {
			res.Errors = append(res.Errors, fmt.Sprintf("Unknown invoicing item: '%s'", name))
		}
	}

	knownVars := make(map[string]bool, len(vars))
	for _, mv := range vars {
		knownVars[mv.Name] = true
	}
	masked := invoicingItemPattern.ReplaceAllStringFunc(expression, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
	for _, m := range variablePattern.FindAllStringSubmatch(masked, -1) {
		if closurePointers[m[1]] {
			continue
		}
		ref := m[0]
		if !addVariable(ref) {
			continue
		}
		root := RootOf(ref)
		if implicitRoots[root] || knownVars[root] || knownVars[ref] {
			continue
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("Unknown variable: '%s'", ref))
	}

	if strings.Contains(expression, "??") && !strings.Contains(expression, "?:") {
		res.Warnings = append(res.Warnings, elvisHint)
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// RootOf returns the sigil plus the first path segment of a reference:
// "#input?.orderMetadata" becomes "#input".
func RootOf(ref string) string {
	name := strings.TrimPrefix(ref, "#")
	if i := strings.IndexAny(name, ".?["); i >= 0 {
		name = name[:i]
	}
	return "#" + name
}
