package numeric

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Parse converts an arbitrary JSON-decoded value to a float64, returning def
// when the value is missing, malformed, or of an unexpected type. It never
// panics and never returns an error.
func Parse(v any, def float64) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return def
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
		return def
	default:
		return def
	}
}

// Flex is a float64 that unmarshals from either a JSON number or a quoted
// numeric string. Upstream P2P APIs are inconsistent about which they send,
// sometimes within the same response. Null, empty, or malformed input decodes
// to zero rather than failing the surrounding document.
type Flex float64

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*f = 0
			return nil
		}
		*f = Flex(Parse(s, 0))
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = Flex(v)
	return nil
}

// Float64 returns the underlying value.
func (f Flex) Float64() float64 {
	return float64(f)
}
