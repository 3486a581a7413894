package parse

import (
	"reflect"
	"testing"
)

func TestRegexFind(t *testing.T) {
	m, err := RegexFind(".(.)", "abcdef")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ab", "b"}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("got %v", m)
	}
}

func TestRegexFindNoMatch(t *testing.T) {
	m, err := RegexFind("zzz", "abcdef")
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Errorf("expected no match, got %v", m)
	}
}

func TestRegexFindAll(t *testing.T) {
	m, err := RegexFindAll(".(.)", "abcdef")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"ab", "b"}, {"cd", "d"}, {"ef", "f"}}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("got %v", m)
	}
}

func TestRegexFindInvalidPattern(t *testing.T) {
	if _, err := RegexFind("(", "abc"); err == nil {
		t.Fatal("expected an error for an invalid regex")
	}
}
