package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
)

// Evaluate compiles and runs an expr-lang expression with every dictionary of
// doc in scope as a map, e.g. "SERVER.PORT + 1" or "len(SERVER)".
func (doc *Document) Evaluate(
	ctx context.Context,
	source string,
	opts ...Option,
) (any, error) {
	o := makeOptions(opts...)
	env := doc.ToMap()

	o.logger.TraceContext(ctx, "eval start",
		slog.String("source", source),
		slog.Int("dictionary_count", len(env)),
	)

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	o.logger.TraceContext(ctx, "eval complete",
		slog.String("result_type", resultTypeName(result)),
	)

	return result, nil
}

// FormatResult renders an evaluation result for display. Maps are printed
// with sorted keys so output is stable.
func FormatResult(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"

	case string:
		return "'" + x + "'"

	case *big.Int:
		return x.String()

	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+FormatResult(x[k]))
		}

		return "{" + strings.Join(parts, ", ") + "}"

	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, FormatResult(e))
		}

		return "[" + strings.Join(parts, ", ") + "]"

	default:
		return fmt.Sprint(x)
	}
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", value)
}
