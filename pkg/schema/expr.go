package schema

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompileExpr compiles a boolean expression over tab values into a Predicate,
// for example `password == confirmPassword` or `len(upiId) == 0 || upiId contains "@"`.
// Identifiers name fields; unknown identifiers evaluate to nil. A runtime
// error makes the predicate fail instead of panicking.
func CompileExpr(expression string) (Predicate, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, fmt.Errorf("schema: empty expression")
	}
	program, err := expr.Compile(trimmed, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("schema: compile %q: %w", trimmed, err)
	}
	return exprPredicate(program), nil
}

func exprPredicate(program *vm.Program) Predicate {
	return func(values map[string]any) bool {
		env := make(map[string]any, len(values))
		for key, value := range values {
			env[key] = value
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}
