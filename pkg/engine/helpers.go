package engine

import "fmt"

// AsString extracts a plain string argument, the common case for host
// functions that take one script-level string parameter.
func AsString(v Value) (string, bool) {
	if v.Str == nil {
		return "", false
	}
	return *v.Str, true
}

// AsNumber extracts a plain numeric argument.
func AsNumber(v Value) (float64, bool) {
	if v.Number == nil {
		return 0, false
	}
	return *v.Number, true
}

// AsBytes extracts either a raw byte-array Value or a string Value typed
// as bytes, matching the flexibility SPEC_FULL.md §4.4 grants byte-array
// host parameters (a Lua string is already a byte sequence).
func AsBytes(v Value) ([]byte, bool) {
	switch {
	case v.Bytes != nil:
		return v.Bytes, true
	case v.Str != nil:
		return []byte(*v.Str), true
	case ValidByteArray(v):
		out := make([]byte, len(v.Pairs))
		for i, p := range v.Pairs {
			out[i] = byte(*p.Value.Number)
		}
		return out, true
	default:
		return nil, false
	}
}

// ObjectGet looks up key in an object-shaped Value (string-keyed pairs),
// returning (Nil(), false) if absent or v isn't an object.
func ObjectGet(v Value, key string) (Value, bool) {
	for _, p := range v.Pairs {
		if p.Key.Str != nil && *p.Key.Str == key {
			return p.Value, true
		}
	}
	return Nil(), false
}

// ObjectGetString is the ObjectGet + AsString convenience used throughout
// option-table parsing.
func ObjectGetString(v Value, key string) (string, bool) {
	field, ok := ObjectGet(v, key)
	if !ok {
		return "", false
	}
	return AsString(field)
}

// ListOf builds a dense 1-based Value list, the wire shape a Lua array
// expects.
func ListOf(values ...Value) Value {
	pairs := make([]Pair, len(values))
	for i, val := range values {
		pairs[i] = Pair{Key: NumberValue(float64(i + 1)), Value: val}
	}
	return Value{Pairs: pairs}
}

// ObjectOf builds a string-keyed Value object from alternating
// key/value arguments, a small literal-table constructor for host
// functions that return a LuaMap-shaped result.
func ObjectOf(kv ...interface{}) (Value, error) {
	if len(kv)%2 != 0 {
		return Value{}, fmt.Errorf("ObjectOf requires an even number of arguments")
	}
	pairs := make([]Pair, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return Value{}, fmt.Errorf("ObjectOf key must be a string, got %T", kv[i])
		}
		val, err := toValue(kv[i+1])
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, Pair{Key: StringValue(key), Value: val})
	}
	return Value{Pairs: pairs}, nil
}

func toValue(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Nil(), nil
	case Value:
		return v, nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case []byte:
		return BytesValue(v), nil
	case int:
		return NumberValue(float64(v)), nil
	case int64:
		return NumberValue(float64(v)), nil
	case uint:
		return NumberValue(float64(v)), nil
	case float64:
		return NumberValue(v), nil
	case []string:
		values := make([]Value, len(v))
		for i, s := range v {
			values[i] = StringValue(s)
		}
		return ListOf(values...), nil
	case map[string]string:
		pairs := make([]Pair, 0, len(v))
		for k, val := range v {
			pairs = append(pairs, Pair{Key: StringValue(k), Value: StringValue(val)})
		}
		return Value{Pairs: pairs}, nil
	default:
		return Value{}, fmt.Errorf("ObjectOf: unsupported value type %T", x)
	}
}
