package engine

import (
	"reflect"

	"github.com/Victor-armando18/payload-mapper/internal/domain"
	"github.com/Victor-armando18/payload-mapper/internal/domain/model"
)

// ExecutionStep records what happened to one field, item field or condition.
type ExecutionStep struct {
	Phase   PipelinePhase `json:"phase"`
	Field   string        `json:"field"`
	Action  string        `json:"action"`
	Message string        `json:"message,omitempty"`
}

const (
	ActionEvaluated  = "evaluated"
	ActionFailed     = "failed"
	ActionUnresolved = "unresolved"
)

// Engine turns a configuration and a record into a payload for one country.
type Engine struct {
	Evaluator ExpressionEvaluator
	// Observer, when set, receives every step in execution order.
	Observer func(ExecutionStep)
}

func NewEngine(evaluator ExpressionEvaluator) *Engine {
	return &Engine{Evaluator: evaluator}
}

// Generate evaluates every field and condition. Failures are collected per
// field; the payload holds whatever could be produced.
func (e *Engine) Generate(cfg *domain.Configuration, record *model.OrderRecord, country string) PayloadGenerationResult {
	g := &generation{engine: e, country: country, payload: map[string]any{}, errors: []FieldError{}}
	ctx := BuildContext(record)

	if cfg != nil {
		cfg.FieldMappings.Each(func(name string, fm *domain.FieldMapping) {
			if fm == nil {
				fm = &domain.FieldMapping{}
			}
			ce, ok := ResolveCountry(fm.ExpressionsByCountry, country)
			if !ok {
				g.unresolved(PhaseFields, domain.NewMappingErrorf("No expression found for country %s", country).AddField(name))
				return
			}
			if v, ok := g.value(ctx, PhaseFields, name, fm, ce); ok {
				g.payload[name] = v
			}
		})

		if conditions := g.conditions(ctx, cfg.ConditionMappings); len(conditions) > 0 {
			g.payload["items"] = map[string]any{"condition": conditions}
		}
	}

	return PayloadGenerationResult{
		Success: len(g.errors) == 0,
		Payload: g.payload,
		Errors:  g.errors,
	}
}

type generation struct {
	engine  *Engine
	country string
	payload map[string]any
	errors  []FieldError
}

func (g *generation) value(ctx Context, phase PipelinePhase, path string, fm *domain.FieldMapping, ce domain.CountryExpression) (any, bool) {
	if fm.Type == domain.FieldTypeArray {
		return g.expand(ctx, phase, path, fm, ce)
	}

	res := g.evaluate(phase, path, ce.Expression, ctx)
	if !res.Success {
		return nil, false
	}
	return Coerce(res.Value, fm.Type, fm.Format), true
}

type resolvedItem struct {
	name    string
	mapping *domain.FieldMapping
	expr    domain.CountryExpression
}

// expand maps every element of an array field. Item fields fail independently
// of each other and of sibling elements. Without item mappings the elements are
// copied as they are.
func (g *generation) expand(ctx Context, phase PipelinePhase, path string, fm *domain.FieldMapping, ce domain.CountryExpression) (any, bool) {
	res := g.evaluate(phase, path, ce.Expression, ctx)
	if !res.Success {
		return nil, false
	}
	elements, ok := asSequence(res.Value)
	if !ok {
		g.fail(phase, domain.NewMappingErrorf("Expression did not evaluate to a list (got %T)", res.Value).AddField(path))
		return nil, false
	}

	if fm.ItemsMappings.Len() == 0 {
		return elements, true
	}

	var items []resolvedItem
	fm.ItemsMappings.Each(func(name string, itemMapping *domain.FieldMapping) {
		if itemMapping == nil {
			itemMapping = &domain.FieldMapping{}
		}
		itemExpr, ok := ResolveCountry(itemMapping.ExpressionsByCountry, g.country)
		if !ok {
			g.unresolved(PhaseItems, domain.NewMappingErrorf("No expression found for country %s", g.country).AddField(path+"."+name))
			return
		}
		items = append(items, resolvedItem{name: name, mapping: itemMapping, expr: itemExpr})
	})

	out := make([]any, 0, len(elements))
	for _, element := range elements {
		itemCtx := ctx.WithItem(element)
		obj := map[string]any{}
		for _, it := range items {
			if v, ok := g.value(itemCtx, PhaseItems, path+"."+it.name, it.mapping, it.expr); ok {
				obj[it.name] = v
			}
		}
		out = append(out, obj)
	}
	return out, true
}

func (g *generation) conditions(ctx Context, mappings []domain.ConditionMapping) []Condition {
	var out []Condition
	for _, cm := range mappings {
		ce, ok := ResolveCountry(cm.ExpressionsByCountry, g.country)
		if !ok {
			g.unresolved(PhaseConditions, domain.NewMappingErrorf("No expression found for country %s", g.country).AddCondition(cm.ConditionType))
			continue
		}
		res := g.evaluate(PhaseConditions, cm.ConditionType, ce.Expression, ctx)
		if !res.Success {
			continue
		}
		out = append(out, Condition{
			ConditionType:  cm.ConditionType,
			ConditionValue: Coerce(res.Value, domain.FieldTypeDouble, "").(string),
		})
	}
	return out
}

func (g *generation) evaluate(phase PipelinePhase, path, expression string, ctx Context) EvaluationResult {
	res := g.engine.Evaluator.Evaluate(expression, ctx)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Evaluation failed"
		}
		g.fail(phase, domain.NewMappingError(msg).AddField(path))
		return res
	}
	g.observe(ExecutionStep{Phase: phase, Field: path, Action: ActionEvaluated})
	return res
}

func (g *generation) unresolved(phase PipelinePhase, err *domain.MappingError) {
	g.record(phase, ActionUnresolved, err)
}

func (g *generation) fail(phase PipelinePhase, err *domain.MappingError) {
	g.record(phase, ActionFailed, err)
}

func (g *generation) record(phase PipelinePhase, action string, err *domain.MappingError) {
	field := err.Field
	if field == "" {
		field = err.Condition
	}
	g.errors = append(g.errors, FieldError{Field: field, Error: err.Message})
	g.observe(ExecutionStep{Phase: phase, Field: field, Action: action, Message: err.Message})
}

func (g *generation) observe(step ExecutionStep) {
	if g.engine.Observer != nil {
		g.engine.Observer(step)
	}
}

func asSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
