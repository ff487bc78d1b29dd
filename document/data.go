package document

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
)

// Data is the key/value bag carried by marks and nodes. Values are normalized
// by NewData so that data decoded from JSON or YAML compares equal to data
// built in code: integral numbers become int, lists of strings become
// []string and nested maps become Data.
//
// Data is treated as immutable; use With to derive a modified copy.
type Data map[string]any

// NewData returns a normalized copy of m.
func NewData(m map[string]any) Data {
	if len(m) == 0 {
		return nil
	}
	out := make(Data, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int(x)
		}
		return x
	case float32:
		return normalizeValue(float64(x))
	case int64:
		return int(x)
	case int32:
		return int(x)
	case uint64:
		return int(x)
	case Data:
		return NewData(x)
	case map[string]any:
		return NewData(x)
	case []string:
		return append([]string(nil), x...)
	case []any:
		strs := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				break
			}
			strs = append(strs, s)
		}
		if len(strs) == len(x) {
			return strs
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

// With returns a copy of d with k set to v.
func (d Data) With(k string, v any) Data {
	out := make(Data, len(d)+1)
	for kk, vv := range d {
		out[kk] = vv
	}
	out[k] = normalizeValue(v)
	return out
}

// Has reports whether k is present.
func (d Data) Has(k string) bool {
	_, ok := d[k]
	return ok
}

func (d Data) Int(k string) (int, bool) {
	v, ok := d[k].(int)
	return v, ok
}

func (d Data) Text(k string) (string, bool) {
	v, ok := d[k].(string)
	return v, ok
}

func (d Data) Bool(k string) bool {
	v, _ := d[k].(bool)
	return v
}

func (d Data) Strings(k string) []string {
	v, _ := d[k].([]string)
	return v
}

// Equal reports whether d and o hold the same keys and values. A nil bag
// equals an empty one.
func (d Data) Equal(o Data) bool {
	if len(d) != len(o) {
		return false
	}
	if len(d) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(d), map[string]any(o))
}

// Keys returns the keys of d in sorted order.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
