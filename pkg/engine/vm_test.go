package engine

import "testing"

const minimalModule = "-- Description: test module\n" +
	"-- Version: 0.1.0\n" +
	"-- License: MIT\n" +
	"\n"

func TestScriptRunsHostFunctionAndSeesErrorSlot(t *testing.T) {
	s, err := Load(minimalModule)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var logged []string
	s.RegisterCore(func(level, msg string) {
		logged = append(logged, level+":"+msg)
	})
	s.Register("fail_always", func(args []Value) (Value, error) {
		return Nil(), errAlways
	})

	err = s.Run(`
		info("hello")
		local ok = fail_always()
		if ok == nil then
			result = last_err()
		end
	`, Nil())
	if err != nil {
		t.Fatal(err)
	}

	if len(logged) != 1 || logged[0] != "info:hello" {
		t.Errorf("got logged %v", logged)
	}
	got := s.L.GetGlobal("result")
	if got.String() != errAlways.Error() {
		t.Errorf("got result %q, want %q", got.String(), errAlways.Error())
	}
}

func TestClearErrResetsLastErr(t *testing.T) {
	s, err := Load(minimalModule)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.RegisterCore(func(string, string) {})

	s.State.SetErr(errAlways)
	if s.State.LastErr() == nil {
		t.Fatal("expected a pending error")
	}
	s.State.ClearErr()
	if s.State.LastErr() != nil {
		t.Error("expected ClearErr to clear the slot")
	}
}

func TestBlobTablePutGet(t *testing.T) {
	bt := NewBlobTable()
	bt.Put("abc", []byte("hello"))
	data, ok := bt.Get("abc")
	if !ok || string(data) != "hello" {
		t.Errorf("got %q, %v", data, ok)
	}
	if _, ok := bt.Get("missing"); ok {
		t.Error("expected missing id to report not found")
	}
}

var errAlways = errAlwaysType{}

type errAlwaysType struct{}

func (errAlwaysType) Error() string { return "always fails" }
