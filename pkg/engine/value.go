package engine

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Value is the VM's dynamically typed value universe (SPEC_FULL.md §4.4):
// nil, bool, number, string, byte-array, or an array of (Value, Value)
// pairs — Lua's only aggregate type, the `structs.rs` LuaMap generalized
// from string-keyed maps to arbitrary key/value pairs.
type Value struct {
	Nil    bool
	Bool   *bool
	Number *float64
	Str    *string
	Bytes  []byte
	Pairs  []Pair
}

// Pair is one (key, value) entry of a Lua array/table.
type Pair struct {
	Key   Value
	Value Value
}

func Nil() Value                { return Value{Nil: true} }
func BoolValue(b bool) Value    { return Value{Bool: &b} }
func NumberValue(n float64) Value { return Value{Number: &n} }
func StringValue(s string) Value  { return Value{Str: &s} }
func BytesValue(b []byte) Value   { return Value{Bytes: b} }

// IsList reports whether v's pairs form a dense 1-based integer sequence,
// the same "all keys numeric and ordered" test SPEC_FULL.md §4.4 uses to
// decide whether an array marshals as a JSON list or a JSON object.
func (v Value) IsList() bool {
	if v.Pairs == nil {
		return false
	}
	for i, p := range v.Pairs {
		if p.Key.Number == nil {
			return false
		}
		if *p.Key.Number != float64(i+1) {
			return false
		}
	}
	return true
}

// MarshalJSON implements the determinism boundary SPEC_FULL.md §4.4
// requires: whole-valued floats are re-emitted as JSON integers, and byte
// arrays are always emitted as a raw JSON array of 0-255 ints, never as
// strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Nil:
		return []byte("null"), nil
	case v.Bool != nil:
		return json.Marshal(*v.Bool)
	case v.Number != nil:
		return marshalNumber(*v.Number), nil
	case v.Str != nil:
		return json.Marshal(*v.Str)
	case v.Bytes != nil:
		ints := make([]int, len(v.Bytes))
		for i, b := range v.Bytes {
			ints[i] = int(b)
		}
		return json.Marshal(ints)
	case v.Pairs != nil:
		if v.IsList() {
			list := make([]Value, len(v.Pairs))
			for i, p := range v.Pairs {
				list[i] = p.Value
			}
			return json.Marshal(list)
		}
		return marshalObject(v.Pairs)
	default:
		return []byte("null"), nil
	}
}

func marshalNumber(f float64) []byte {
	if f == float64(int64(f)) {
		return []byte(fmt.Sprintf("%d", int64(f)))
	}
	b, _ := json.Marshal(f)
	return b
}

// marshalObject renders non-list pairs as a JSON object, requiring every
// key to be a string (the only key type JSON objects support); a
// non-string key is rejected rather than silently dropped, since the
// original's "TODO: unknown types are discarded" is exactly the kind of
// silent data loss this port should not repeat for host-facing traffic.
func marshalObject(pairs []Pair) ([]byte, error) {
	keys := make([]string, 0, len(pairs))
	byKey := make(map[string]Value, len(pairs))
	for _, p := range pairs {
		if p.Key.Str == nil {
			return nil, fmt.Errorf("object key must be a string, got %+v", p.Key)
		}
		keys = append(keys, *p.Key.Str)
		byKey[*p.Key.Str] = p.Value
	}
	sort.Strings(keys)

	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, _ := json.Marshal(k)
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := byKey[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// FromJSON converts an arbitrary decoded JSON value (as produced by
// encoding/json's interface{} decoding) into a Value.
func FromJSON(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Nil()
	case bool:
		return BoolValue(x)
	case float64:
		return NumberValue(x)
	case string:
		return StringValue(x)
	case []interface{}:
		pairs := make([]Pair, len(x))
		for i, e := range x {
			pairs[i] = Pair{Key: NumberValue(float64(i + 1)), Value: FromJSON(e)}
		}
		return Value{Pairs: pairs}
	case map[string]interface{}:
		pairs := make([]Pair, 0, len(x))
		for k, v := range x {
			pairs = append(pairs, Pair{Key: StringValue(k), Value: FromJSON(v)})
		}
		sort.Slice(pairs, func(i, j int) bool { return *pairs[i].Key.Str < *pairs[j].Key.Str })
		return Value{Pairs: pairs}
	default:
		return Nil()
	}
}

// ParseJSON decodes raw JSON text directly into a Value.
func ParseJSON(raw []byte) (Value, error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Value{}, err
	}
	return FromJSON(decoded), nil
}

// ValidByteArray reports whether every pair's value is an integer in
// 0-255, the check SPEC_FULL.md §4.4 requires before a Lua array is
// accepted in place of a byte-array argument ("host returns `invalid
// type`" otherwise).
func ValidByteArray(v Value) bool {
	if v.Pairs == nil || !v.IsList() {
		return false
	}
	for _, p := range v.Pairs {
		if p.Value.Number == nil {
			return false
		}
		n := *p.Value.Number
		if n != float64(int64(n)) || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
