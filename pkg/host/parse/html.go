package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is html_select's LuaMap shape: attrs, text content, and the
// element's own serialized markup.
type Element struct {
	Attrs map[string]string `json:"attrs"`
	Text  string            `json:"text"`
	HTML  string            `json:"html"`
}

func transformSelection(sel *goquery.Selection) Element {
	attrs := make(map[string]string)
	if node := sel.Get(0); node != nil {
		for _, attr := range node.Attr {
			attrs[attr.Key] = attr.Val
		}
	}
	outer, _ := goquery.OuterHtml(sel)
	return Element{Attrs: attrs, Text: sel.Text(), HTML: outer}
}

// HtmlSelect returns the first element matching selector, or
// (nil, nil) if nothing matched — html.rs bails with "css selector
// failed" only on a malformed selector, which goquery reports as a
// panic recovered here into an error.
func HtmlSelect(source, selector string) (elem *Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errCSSSelectorFailed(r)
		}
	}()

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(source))
	if parseErr != nil {
		return nil, parseErr
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, nil
	}
	e := transformSelection(sel)
	return &e, nil
}

// HtmlSelectList returns every element matching selector, in document
// order.
func HtmlSelectList(source, selector string) (elems []Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errCSSSelectorFailed(r)
		}
	}()

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(source))
	if parseErr != nil {
		return nil, parseErr
	}
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elems = append(elems, transformSelection(sel))
	})
	return elems, nil
}

// HtmlForm collects every `<input name=... type="hidden|submit"
// value=...>` pair into a form body — html.rs's html_form, used to
// replay a login/search form without a full browser.
func HtmlForm(source string) (map[string]string, error) {
	inputs, err := HtmlSelectList(source, "input")
	if err != nil {
		return nil, err
	}

	form := make(map[string]string)
	for _, input := range inputs {
		name, ok := input.Attrs["name"]
		if !ok {
			continue
		}
		switch input.Attrs["type"] {
		case "hidden", "submit":
		default:
			continue
		}
		if value, ok := input.Attrs["value"]; ok {
			form[name] = value
		}
	}
	return form, nil
}

func errCSSSelectorFailed(r interface{}) error {
	return &cssSelectorError{cause: r}
}

type cssSelectorError struct {
	cause interface{}
}

func (e *cssSelectorError) Error() string {
	return "css selector failed"
}
