package parse

import "testing"

func TestHtmlSelect(t *testing.T) {
	elem, err := HtmlSelect(`<html><div id="yey">content</div></html>`, "#yey")
	if err != nil {
		t.Fatal(err)
	}
	if elem == nil {
		t.Fatal("expected a match")
	}
	if elem.Text != "content" || elem.Attrs["id"] != "yey" {
		t.Errorf("got %+v", elem)
	}
}

func TestHtmlSelectNoMatch(t *testing.T) {
	elem, err := HtmlSelect(`<html><div id="yey">content</div></html>`, "#nope")
	if err != nil {
		t.Fatal(err)
	}
	if elem != nil {
		t.Errorf("expected no match, got %+v", elem)
	}
}

func TestHtmlSelectList(t *testing.T) {
	elems, err := HtmlSelectList(`<html><div class="row">a</div><div class="row">b</div></html>`, ".row")
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 2 || elems[0].Text != "a" || elems[1].Text != "b" {
		t.Errorf("got %+v", elems)
	}
}

func TestHtmlForm(t *testing.T) {
	source := `<form>
		<input type="hidden" name="csrf" value="abc123">
		<input type="text" name="username">
		<input type="submit" name="go" value="Search">
	</form>`
	form, err := HtmlForm(source)
	if err != nil {
		t.Fatal(err)
	}
	if form["csrf"] != "abc123" || form["go"] != "Search" {
		t.Errorf("got %+v", form)
	}
	if _, ok := form["username"]; ok {
		t.Errorf("expected a plain text input to be excluded, got %+v", form)
	}
}
