package parse

import "testing"

func TestJoinRelativePath(t *testing.T) {
	got, err := Join("https://example.com/foo/abc", "bar")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://example.com/foo/bar" {
		t.Errorf("got %q", got)
	}
}

func TestJoinAbsolutePath(t *testing.T) {
	got, err := Join("https://example.com/foo/abc", "/bar")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://example.com/bar" {
		t.Errorf("got %q", got)
	}
}

func TestJoinProtocolRelative(t *testing.T) {
	got, err := Join("https://example.com/foo/?fizz=buzz", "//asdf.com/abc?x=1&a=2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://asdf.com/abc?x=1&a=2" {
		t.Errorf("got %q", got)
	}
}

func TestParseBasic(t *testing.T) {
	u, err := Parse("https://example.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "https" || u.Host != "example.com" || u.Path != "" {
		t.Errorf("got %+v", u)
	}
	if u.Port != 0 || u.Query != "" || u.Fragment != "" || u.Params != nil {
		t.Errorf("expected empty optional fields, got %+v", u)
	}
}

func TestParseAdvanced(t *testing.T) {
	u, err := Parse("https://example.com:1337/foo/abc?a=b&x=1&x=2&y[]=asdf#foo")
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "https" || u.Host != "example.com" || u.Port != 1337 {
		t.Errorf("got %+v", u)
	}
	if u.Path != "/foo/abc" || u.Fragment != "foo" {
		t.Errorf("got %+v", u)
	}
	if u.Params["a"] != "b" || u.Params["x"] != "2" || u.Params["y[]"] != "asdf" {
		t.Errorf("got params %+v", u.Params)
	}
}
