package funcs

import (
	"strings"

	"github.com/ritamzico/graphcypher/internal/value"
)

func stringArg(name string, args []value.Value, i int) (string, bool, error) {
	if i >= len(args) {
		return "", false, arityError(name, i+1, len(args))
	}
	a := args[i]
	if a.IsNull() {
		return "", true, nil
	}
	if a.Kind() != value.String {
		return "", false, typeError(name, a)
	}
	return a.Str(), false, nil
}

func unaryStringFn(name string, f func(string) string) Scalar {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, arityError(name, 1, len(args))
		}
		s, isNull, err := stringArg(name, args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		return value.NewString(f(s)), nil
	}
}

func registerString(r *Registry) {
	r.registerScalar("ltrim", unaryStringFn("ltrim", func(s string) string { return strings.TrimLeft(s, " \t\n\r") }))
	r.registerScalar("rtrim", unaryStringFn("rtrim", func(s string) string { return strings.TrimRight(s, " \t\n\r") }))
	r.registerScalar("trim", unaryStringFn("trim", strings.TrimSpace))
	r.registerScalar("tolower", unaryStringFn("toLower", strings.ToLower))
	r.registerScalar("toupper", unaryStringFn("toUpper", strings.ToUpper))
	r.registerScalar("reverse", unaryStringFn("reverse", reverseString))

	r.registerScalar("left", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return value.Value{}, arityError("left", 2, len(args))
		}
		s, isNull, err := stringArg("left", args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if isNull || args[1].IsNull() {
			return value.NewNull(), nil
		}
		n := int(args[1].Int())
		if n < 0 {
			n = 0
		}
		if n > len(s) {
			n = len(s)
		}
		return value.NewString(s[:n]), nil
	})
	r.registerScalar("right", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return value.Value{}, arityError("right", 2, len(args))
		}
		s, isNull, err := stringArg("right", args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if isNull || args[1].IsNull() {
			return value.NewNull(), nil
		}
		n := int(args[1].Int())
		if n < 0 {
			n = 0
		}
		if n > len(s) {
			n = len(s)
		}
		return value.NewString(s[len(s)-n:]), nil
	})
	r.registerScalar("substring", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 && len(args) != 3 {
			return value.Value{}, arityError("substring", 2, len(args))
		}
		s, isNull, err := stringArg("substring", args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		start := int(args[1].Int())
		if start < 0 {
			start = 0
		}
		if start > len(s) {
			start = len(s)
		}
		end := len(s)
		if len(args) == 3 {
			end = start + int(args[2].Int())
			if end > len(s) {
				end = len(s)
			}
			if end < start {
				end = start
			}
		}
		return value.NewString(s[start:end]), nil
	})
	r.registerScalar("replace", func(args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return value.Value{}, arityError("replace", 3, len(args))
		}
		s, isNull, err := stringArg("replace", args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		return value.NewString(strings.ReplaceAll(s, args[1].Str(), args[2].Str())), nil
	})
	r.registerScalar("split", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return value.Value{}, arityError("split", 2, len(args))
		}
		s, isNull, err := stringArg("split", args, 0)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		// The engine's Value has no list kind (§3); split returns the joined
		// form with a unit separator for downstream string consumers.
		return value.NewString(strings.Join(strings.Split(s, args[1].Str()), "\x1f")), nil
	})
	r.registerScalar("concat", func(args []value.Value) (value.Value, error) {
		var b strings.Builder
		for _, a := range args {
			if a.IsNull() {
				return value.NewNull(), nil
			}
			if a.Kind() != value.String {
				return value.Value{}, typeError("concat", a)
			}
			b.WriteString(a.Str())
		}
		return value.NewString(b.String()), nil
	})
	r.registerScalar("tostring", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, arityError("toString", 1, len(args))
		}
		if args[0].IsNull() {
			return value.NewNull(), nil
		}
		return value.NewString(args[0].String()), nil
	})
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
