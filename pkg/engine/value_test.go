package engine

import (
	"encoding/json"
	"testing"
)

func TestMarshalWholeFloatAsInteger(t *testing.T) {
	v := NumberValue(42.0)
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "42" {
		t.Errorf("got %s, want 42", b)
	}
}

func TestMarshalFractionalFloat(t *testing.T) {
	v := NumberValue(3.5)
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "3.5" {
		t.Errorf("got %s, want 3.5", b)
	}
}

func TestMarshalListPairs(t *testing.T) {
	v := Value{Pairs: []Pair{
		{Key: NumberValue(1), Value: StringValue("a")},
		{Key: NumberValue(2), Value: StringValue("b")},
	}}
	if !v.IsList() {
		t.Fatal("expected a dense 1-based pair sequence to be a list")
	}
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded []string
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("expected list JSON, got %s: %v", b, err)
	}
	if decoded[0] != "a" || decoded[1] != "b" {
		t.Errorf("got %v", decoded)
	}
}

func TestMarshalObjectPairs(t *testing.T) {
	v := Value{Pairs: []Pair{
		{Key: StringValue("name"), Value: StringValue("sn0int")},
	}}
	if v.IsList() {
		t.Fatal("string-keyed pairs must not be treated as a list")
	}
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("expected object JSON, got %s: %v", b, err)
	}
	if decoded["name"] != "sn0int" {
		t.Errorf("got %v", decoded)
	}
}

func TestFromJSONRoundTrip(t *testing.T) {
	v, err := ParseJSON([]byte(`{"a":1,"b":[1,2,3]}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("expected object JSON, got %s: %v", b, err)
	}
	if decoded["a"].(float64) != 1 {
		t.Errorf("got %v", decoded)
	}
}

func TestValidByteArray(t *testing.T) {
	v := Value{Pairs: []Pair{
		{Key: NumberValue(1), Value: NumberValue(0)},
		{Key: NumberValue(2), Value: NumberValue(255)},
	}}
	if !ValidByteArray(v) {
		t.Error("expected 0 and 255 to be a valid byte array")
	}

	bad := Value{Pairs: []Pair{
		{Key: NumberValue(1), Value: NumberValue(256)},
	}}
	if ValidByteArray(bad) {
		t.Error("expected 256 to be rejected as out of byte range")
	}
}
