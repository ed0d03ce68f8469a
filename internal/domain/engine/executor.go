package engine

// ExpressionEvaluator evaluates expression text against a context. It reports
// failures in the result and never panics.
type ExpressionEvaluator interface {
	Evaluate(expression string, ctx Context) EvaluationResult
}

// ExpressionCompiler checks an expression without running it.
type ExpressionCompiler interface {
	Compile(expression string) error
}
