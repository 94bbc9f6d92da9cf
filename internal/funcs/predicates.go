package funcs

import "github.com/ritamzico/graphcypher/internal/value"

func registerPredicates(r *Registry) {
	r.registerScalar("isnull", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, arityError("isNull", 1, len(args))
		}
		return value.NewBool(args[0].IsNull()), nil
	})
	r.registerScalar("isnotnull", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, arityError("isNotNull", 1, len(args))
		}
		return value.NewBool(!args[0].IsNull()), nil
	})
}
