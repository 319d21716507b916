package attributes

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mrzor/procstatfs/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

// Operation describes one filesystem request for expression evaluation.
type Operation struct {
	Op     string
	Path   string
	PID    string
	Offset int64
	Size   int64
}

func (o *Operation) env() map[string]interface{} {
	return map[string]interface{}{
		"op":     o.Op,
		"path":   o.Path,
		"pid":    o.PID,
		"offset": int(o.Offset),
		"size":   int(o.Size),
	}
}

// Evaluator handles compilation and evaluation of custom attribute expressions.
type Evaluator struct {
	customAttrs   []config.CustomAttribute
	compiledExprs []*vm.Program
	log           *slog.Logger
}

// NewEvaluator creates a new attribute evaluator.
// It pre-compiles all custom attribute expressions.
func NewEvaluator(customAttrs []config.CustomAttribute, log *slog.Logger) (*Evaluator, error) {
	if log == nil {
		log = slog.Default()
	}

	exprEnv := (&Operation{}).env()

	compiledExprs := make([]*vm.Program, len(customAttrs))
	for i, attr := range customAttrs {
		program, err := expr.Compile(attr.Expression, expr.Env(exprEnv))
		if err != nil {
			return nil, fmt.Errorf("failed to compile expression for attribute %q: %w", attr.Name, err)
		}
		compiledExprs[i] = program
	}

	return &Evaluator{
		customAttrs:   customAttrs,
		compiledExprs: compiledExprs,
		log:           log,
	}, nil
}

// Evaluate runs every custom attribute expression against op.
// An expression that fails at runtime is logged and skipped.
func (e *Evaluator) Evaluate(op *Operation) []attribute.KeyValue {
	if e == nil || len(e.customAttrs) == 0 || op == nil {
		return nil
	}

	env := op.env()

	var attrs []attribute.KeyValue
	for i, customAttr := range e.customAttrs {
		output, err := expr.Run(e.compiledExprs[i], env)
		if err != nil {
			e.log.Warn("failed to evaluate attribute expression", "attribute", customAttr.Name, "error", err)
			continue
		}

		outputValue := reflect.ValueOf(output)
		if outputValue.Kind() != reflect.Map {
			attrs = append(attrs, attribute.String(customAttr.Name, fmt.Sprint(output)))
			continue
		}

		// Maps expand into NAME.KEY attributes
		for _, key := range outputValue.MapKeys() {
			attrName := customAttr.Name + "." + sanitizeAttributeName(fmt.Sprintf("%v", key.Interface()))
			value := outputValue.MapIndex(key).Interface()
			attrs = append(attrs, attribute.String(attrName, fmt.Sprintf("%v", value)))
		}
	}

	return attrs
}

// sanitizeAttributeName replaces non-alphanumeric characters with underscores.
func sanitizeAttributeName(name string) string {
	result := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			result[i] = c
		} else {
			result[i] = '_'
		}
	}
	return string(result)
}
