// Package coerce provides lossy value conversion for extraction pipelines.
// Input cells and AI-returned JSON fields arrive as arbitrary types; every
// function here converts to a canonical type and falls back to a defined
// default instead of returning an error.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Missing is the sentinel value used for absent string fields. The output
// schema is always complete; a field that could not be extracted carries
// this literal instead of a null or a missing key.
const Missing = "MISSING"

// Float converts a value to float64. Nil, empty strings and the literal
// "None" become 0. Thousands-separator commas are stripped from string
// input before parsing. Any parse failure yields 0.
func Float(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "None" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		f, err := strconv.ParseFloat(fmt.Sprint(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
}

// Int converts a value to int by parsing as float and truncating, so
// "3.000" becomes 3. Same nil/empty handling as Float; failures yield 0.
func Int(value interface{}) int {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "None" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		f, err := strconv.ParseFloat(fmt.Sprint(v), 64)
		if err != nil {
			return 0
		}
		return int(f)
	}
}

// DateString converts a value to a date string. Native time values are
// formatted as YYYY-MM-DD; nil and "None" become the Missing sentinel.
// Everything else is stringified as-is without format validation.
func DateString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return Missing
	case time.Time:
		return v.Format("2006-01-02")
	case string:
		if v == "" || v == "None" {
			return Missing
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// String converts a value to a trimmed string, substituting def when the
// value is nil or trims to empty.
func String(value interface{}, def string) string {
	if value == nil {
		return def
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	if s == "" {
		return def
	}
	return s
}
