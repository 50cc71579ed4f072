package lower

import (
	"math"
	"strconv"
	"strings"

	"github.com/cloudblocks/tfgen/graph"
	"github.com/spf13/cast"
)

// params reads typed parameters from a resource.
type params struct {
	res *graph.Resource
}

func (p params) str(name string) (string, error) {
	v, ok := p.res.Params.Get(name)
	if !ok {
		return "", &MissingParamError{UID: p.res.UID, Param: name}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &ParamTypeError{UID: p.res.UID, Param: name, Want: "a non-empty string", Value: v}
	}
	return s, nil
}

func (p params) optStr(name, def string) (string, error) {
	v, ok := p.res.Params.Get(name)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ParamTypeError{UID: p.res.UID, Param: name, Want: "a string", Value: v}
	}
	return s, nil
}

func (p params) uint(name string) (int, error) {
	v, ok := p.res.Params.Get(name)
	if !ok {
		return 0, &MissingParamError{UID: p.res.UID, Param: name}
	}
	return p.toUint(name, v)
}

func (p params) optUint(name string, def int) (int, error) {
	v, ok := p.res.Params.Get(name)
	if !ok {
		return def, nil
	}
	return p.toUint(name, v)
}

func (p params) toUint(name string, v interface{}) (int, error) {
	bad := &ParamTypeError{UID: p.res.UID, Param: name, Want: "a non-negative integer", Value: v}
	switch n := v.(type) {
	case bool:
		return 0, bad
	case string:
		// Decimal only; cast treats a leading zero as octal.
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || i < 0 {
			return 0, bad
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, bad
		}
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, bad
		}
	}
	i, err := cast.ToIntE(v)
	if err != nil || i < 0 {
		return 0, bad
	}
	return i, nil
}

func (p params) optBool(name string, def bool) (bool, error) {
	v, ok := p.res.Params.Get(name)
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, &ParamTypeError{UID: p.res.UID, Param: name, Want: "a boolean", Value: v}
	}
	return b, nil
}
