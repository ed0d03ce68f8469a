package expression

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/spf13/cast"
)

// Stream helper names available inside expressions.
const (
	FuncStreamMap      = "streamMap"
	FuncStreamFilter   = "streamFilter"
	FuncStreamDistinct = "streamDistinct"
	FuncStreamCount    = "streamCount"
	FuncStreamSum      = "streamSum"
)

// StreamFunctions returns the helpers as expr options. Closures cannot cross
// into Go functions, so element selection is done by dotted path:
//
//	streamMap(input.orderMetadata.payments, "amount")
//	streamFilter(input.orderMetadata.payments, "method", "CARD")
//	streamCount(streamDistinct(streamMap(list, "method")))
//
// A null list, or anything that is not a list, behaves as an empty stream.
// Null elements are dropped before any other step.
func StreamFunctions() []expr.Option {
	return []expr.Option{
		expr.Function(FuncStreamMap, streamMap),
		expr.Function(FuncStreamFilter, streamFilter),
		expr.Function(FuncStreamDistinct, streamDistinct),
		expr.Function(FuncStreamCount, streamCount),
		expr.Function(FuncStreamSum, streamSum),
	}
}

func streamMap(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("%s expects (list, path), got %d arguments", FuncStreamMap, len(params))
	}
	path, err := pathArg(FuncStreamMap, params[1])
	if err != nil {
		return nil, err
	}
	elements := toStream(params[0])
	out := make([]any, 0, len(elements))
	for _, el := range elements {
		out = append(out, getPath(el, path))
	}
	return out, nil
}

func streamFilter(params ...any) (any, error) {
	if len(params) != 2 && len(params) != 3 {
		return nil, fmt.Errorf("%s expects (list, path[, value]), got %d arguments", FuncStreamFilter, len(params))
	}
	path, err := pathArg(FuncStreamFilter, params[1])
	if err != nil {
		return nil, err
	}
	out := []any{}
	for _, el := range toStream(params[0]) {
		v := getPath(el, path)
		keep := truthy(v)
		if len(params) == 3 {
			keep = sameValue(v, params[2])
		}
		if keep {
			out = append(out, el)
		}
	}
	return out, nil
}

func streamDistinct(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%s expects (list), got %d arguments", FuncStreamDistinct, len(params))
	}
	seen := map[string]bool{}
	out := []any{}
	for _, el := range toStream(params[0]) {
		key := distinctKey(el)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, el)
	}
	return out, nil
}

func streamCount(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%s expects (list), got %d arguments", FuncStreamCount, len(params))
	}
	return len(toStream(params[0])), nil
}

func streamSum(params ...any) (any, error) {
	if len(params) != 1 && len(params) != 2 {
		return nil, fmt.Errorf("%s expects (list[, path]), got %d arguments", FuncStreamSum, len(params))
	}
	path := ""
	if len(params) == 2 {
		p, err := pathArg(FuncStreamSum, params[1])
		if err != nil {
			return nil, err
		}
		path = p
	}
	total := 0.0
	for _, el := range toStream(params[0]) {
		total += cast.ToFloat64(getPath(el, path))
	}
	return total, nil
}

func pathArg(fn string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: path must be a string, got %T", fn, v)
	}
	return s, nil
}

func toStream(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if el == nil {
			continue
		}
		out = append(out, el)
	}
	return out
}

// getPath walks a dotted path through maps and zero-argument accessors.
// Missing segments yield nil.
func getPath(root any, path string) any {
	cur := root
	if path == "" {
		return cur
	}
	for _, part := range strings.Split(path, ".") {
		cur = resolveAccessor(cur)
		if cur == nil {
			return nil
		}
		rv := reflect.ValueOf(cur)
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return nil
			}
			val := rv.MapIndex(reflect.ValueOf(part).Convert(rv.Type().Key()))
			if !val.IsValid() {
				return nil
			}
			cur = val.Interface()
		case reflect.Struct:
			f := rv.FieldByName(part)
			if !f.IsValid() || !f.CanInterface() {
				return nil
			}
			cur = f.Interface()
		default:
			return nil
		}
	}
	return resolveAccessor(cur)
}

// resolveAccessor calls zero-argument single-result functions, which is how
// the record exposes operation.name and the marketplace flag.
func resolveAccessor(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func && rv.Type().NumIn() == 0 && rv.Type().NumOut() == 1 {
		if rv.IsNil() {
			return nil
		}
		return rv.Call(nil)[0].Interface()
	}
	return v
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0
	}
	return true
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	fa, errA := cast.ToFloat64E(a)
	fb, errB := cast.ToFloat64E(b)
	if errA == nil && errB == nil {
		_, aString := a.(string)
		_, bString := b.(string)
		if !aString && !bString {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b) || fmt.Sprint(a) == fmt.Sprint(b)
}

func distinctKey(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		if b, err := json.Marshal(v); err == nil {
			return "json:" + string(b)
		}
	}
	return fmt.Sprintf("%T:%v", v, v)
}
