package expression

import (
	"fmt"
	"strings"

	"github.com/Victor-armando18/payload-mapper/internal/domain/engine"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator compiles dialect expressions with expr-lang and runs them against
// an evaluation context. The stream helpers are registered once, here.
type Evaluator struct {
	options []expr.Option
}

func NewEvaluator() *Evaluator {
	options := []expr.Option{expr.AllowUndefinedVariables()}
	options = append(options, StreamFunctions()...)
	return &Evaluator{options: options}
}

// Compile parses and type-checks the expression without running it.
func (e *Evaluator) Compile(expression string) error {
	_, err := e.compile(expression)
	return err
}

func (e *Evaluator) compile(expression string) (program *vm.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			program, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return expr.Compile(Translate(expression), e.options...)
}

func (e *Evaluator) Evaluate(expression string, ctx engine.Context) (res engine.EvaluationResult) {
	if strings.TrimSpace(expression) == "" {
		return engine.EvaluationResult{Success: true}
	}

	defer func() {
		if r := recover(); r != nil {
			res = failure(fmt.Errorf("%v", r))
		}
	}()

	program, err := e.compile(expression)
	if err != nil {
		return failure(err)
	}

	out, err := expr.Run(program, ctx.Vars())
	if err != nil {
		return failure(err)
	}
	return engine.EvaluationResult{Success: true, Value: out}
}

func failure(err error) engine.EvaluationResult {
	return engine.EvaluationResult{Success: false, Error: firstLine(err.Error())}
}

// expr-lang appends a source excerpt with a caret under the failing token;
// the diagnostics only carry the message line.
func firstLine(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return strings.TrimSpace(msg[:i])
	}
	return msg
}
