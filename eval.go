// FILE: lixenwraith/layercfg/eval.go
package layercfg

import (
	"fmt"
	"os"
	"strings"

	"github.com/expr-lang/expr"
)

// DefaultEvalPrefix marks a string value as an expression to evaluate.
const DefaultEvalPrefix = "#eval "

// Evaluator rewrites a resolved tree, replacing executable values with their results.
// Implementations must return a new tree and leave the input untouched.
type Evaluator interface {
	Evaluate(tree any) (any, error)
}

// Eval returns a middleware that passes every resolved tree through ev.
//
// SECURITY: enabling evaluation makes config sources executable. Only use it
// when every resource in the chain is as trusted as the program itself.
func Eval(ev Evaluator) Middleware {
	return MiddlewareFunc(func(next ResolveFunc) ResolveFunc {
		return func(resources []Resource) (any, error) {
			tree, err := next(resources)
			if err != nil {
				return nil, err
			}
			return ev.Evaluate(tree)
		}
	})
}

// ExprEvaluator evaluates strings starting with Prefix as expr-lang programs.
// Programs see Vars plus two helpers: env(name) and envOr(name, fallback).
type ExprEvaluator struct {
	Prefix string
	Vars   map[string]any
}

// NewExprEvaluator creates an evaluator using DefaultEvalPrefix.
func NewExprEvaluator(vars map[string]any) *ExprEvaluator {
	return &ExprEvaluator{Prefix: DefaultEvalPrefix, Vars: vars}
}

// Evaluate implements Evaluator.
func (e *ExprEvaluator) Evaluate(tree any) (any, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEvalPrefix
	}
	return e.walk(tree, prefix, e.environment(), nil)
}

func (e *ExprEvaluator) environment() map[string]any {
	env := map[string]any{
		"env": func(name string) string {
			return os.Getenv(name)
		},
		"envOr": func(name, fallback string) string {
			if v, ok := os.LookupEnv(name); ok {
				return v
			}
			return fallback
		},
	}
	for k, v := range e.Vars {
		env[k] = v
	}
	return env
}

func (e *ExprEvaluator) walk(v any, prefix string, env map[string]any, path []string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			res, err := e.walk(child, prefix, env, append(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = res
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			res, err := e.walk(child, prefix, env, append(path, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	case string:
		if !strings.HasPrefix(t, prefix) {
			return t, nil
		}
		code := strings.TrimSpace(strings.TrimPrefix(t, prefix))
		program, err := expr.Compile(code, expr.Env(env))
		if err != nil {
			return nil, fmt.Errorf("compile expression at %q: %w", strings.Join(path, "."), err)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate expression at %q: %w", strings.Join(path, "."), err)
		}
		return normalizeTree(out), nil
	default:
		return v, nil
	}
}
