package parse

import "regexp"

// RegexFind returns the first match's full capture group list (index 0
// is the whole match), or nil if nothing matched — regex.rs's
// capture_to_lua applied to captures().
func RegexFind(pattern, data string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	m := re.FindStringSubmatch(data)
	if m == nil {
		return nil, nil
	}
	return m, nil
}

// RegexFindAll returns every match's capture group list, in order.
func RegexFindAll(pattern, data string) ([][]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re.FindAllStringSubmatch(data, -1), nil
}
