package funcs

import (
	"math"
	"math/rand"

	"github.com/ritamzico/graphcypher/internal/value"
)

func numeric(name string, args []value.Value, want int) ([]float64, bool, error) {
	if len(args) != want {
		return nil, false, arityError(name, want, len(args))
	}
	anyNull := false
	out := make([]float64, want)
	for i, a := range args {
		if a.IsNull() {
			anyNull = true
			continue
		}
		if a.Kind() != value.Int && a.Kind() != value.Float {
			return nil, false, typeError(name, a)
		}
		out[i] = a.AsFloat64()
	}
	return out, anyNull, nil
}

func unaryFloatFn(name string, f func(float64) float64) Scalar {
	return func(args []value.Value) (value.Value, error) {
		nums, isNull, err := numeric(name, args, 1)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		return value.NewFloat(f(nums[0])), nil
	}
}

func registerArithmetic(r *Registry) {
	r.registerScalar("add", func(args []value.Value) (value.Value, error) {
		nums, isNull, err := numeric("add", args, 2)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		if args[0].Kind() == value.Int && args[1].Kind() == value.Int {
			return value.NewInt(args[0].Int() + args[1].Int()), nil
		}
		return value.NewFloat(nums[0] + nums[1]), nil
	})
	r.registerScalar("sub", func(args []value.Value) (value.Value, error) {
		nums, isNull, err := numeric("sub", args, 2)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		if args[0].Kind() == value.Int && args[1].Kind() == value.Int {
			return value.NewInt(args[0].Int() - args[1].Int()), nil
		}
		return value.NewFloat(nums[0] - nums[1]), nil
	})
	r.registerScalar("mul", func(args []value.Value) (value.Value, error) {
		nums, isNull, err := numeric("mul", args, 2)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		if args[0].Kind() == value.Int && args[1].Kind() == value.Int {
			return value.NewInt(args[0].Int() * args[1].Int()), nil
		}
		return value.NewFloat(nums[0] * nums[1]), nil
	})
	r.registerScalar("div", func(args []value.Value) (value.Value, error) {
		nums, isNull, err := numeric("div", args, 2)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		if nums[1] == 0 {
			return value.Value{}, typeError("div", args[1])
		}
		return value.NewFloat(nums[0] / nums[1]), nil
	})
	r.registerScalar("abs", func(args []value.Value) (value.Value, error) {
		nums, isNull, err := numeric("abs", args, 1)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		if args[0].Kind() == value.Int {
			if args[0].Int() < 0 {
				return value.NewInt(-args[0].Int()), nil
			}
			return args[0], nil
		}
		return value.NewFloat(math.Abs(nums[0])), nil
	})
	r.registerScalar("ceil", unaryFloatFn("ceil", math.Ceil))
	r.registerScalar("floor", unaryFloatFn("floor", math.Floor))
	r.registerScalar("round", unaryFloatFn("round", math.Round))
	r.registerScalar("sign", unaryFloatFn("sign", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return 0
		}
	}))
	r.registerScalar("signum", unaryFloatFn("signum", func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		default:
			return 0
		}
	}))
	r.registerScalar("sqrt", unaryFloatFn("sqrt", math.Sqrt))
	r.registerScalar("log", unaryFloatFn("log", math.Log))
	r.registerScalar("exp", unaryFloatFn("exp", math.Exp))
	r.registerScalar("pow", func(args []value.Value) (value.Value, error) {
		nums, isNull, err := numeric("pow", args, 2)
		if err != nil {
			return value.Value{}, err
		}
		if isNull {
			return value.NewNull(), nil
		}
		return value.NewFloat(math.Pow(nums[0], nums[1])), nil
	})
	r.registerScalar("rand", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return value.Value{}, arityError("rand", 0, len(args))
		}
		return value.NewFloat(rand.Float64()), nil
	})
}
