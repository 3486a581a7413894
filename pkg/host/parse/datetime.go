package parse

import (
	"fmt"
	"strings"
	"time"
)

// sn0intDatetimeFormat is the fixed layout `datetime`/`sn0int_time`
// render to, matching SN0INT_DATETIME_FORMAT.
const sn0intDatetimeFormat = "2006-01-02T15:04:05"

// Datetime returns the current UTC time in the fixed sn0int format —
// datetime.rs marks its Rust twin deprecated in favor of SnoIntTime, but
// both render identically.
func Datetime() string {
	return time.Now().UTC().Format(sn0intDatetimeFormat)
}

func Sn0intTimeFrom(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(sn0intDatetimeFormat)
}

func TimeUnix() int64 {
	return time.Now().UTC().Unix()
}

// strftimeDirectives translates the C strftime `%`-directive grammar
// datetime.rs exposes to scripts into Go's reference-time layout.
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
	'S': "05",
	'B': "January",
	'b': "Jan",
	'A': "Monday",
	'a': "Mon",
	'p': "PM",
	'z': "-0700",
	'Z': "MST",
	'%': "%",
}

func strftimeToLayout(format string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("dangling %% in format string")
		}
		directive, ok := strftimeDirectives[format[i]]
		if !ok {
			return "", fmt.Errorf("unsupported strftime directive: %%%c", format[i])
		}
		out.WriteString(directive)
	}
	return out.String(), nil
}

// Strftime renders a unix timestamp using a C strftime-style format
// string, matching datetime.rs's `%`-directive grammar rather than Go's
// reference-time layout.
func Strftime(format string, unix int64) (string, error) {
	layout, err := strftimeToLayout(format)
	if err != nil {
		return "", err
	}
	t := time.Unix(unix, 0).UTC()
	return t.Format(layout), nil
}

// Strptime parses time using a C strftime-style format string and
// returns a unix timestamp.
func Strptime(format, value string) (int64, error) {
	layout, err := strftimeToLayout(format)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse time: %w", err)
	}
	return t.UTC().Unix(), nil
}
