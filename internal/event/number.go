package event

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric metadata field kept exactly as it arrived. Clients send
// quantities as JSON numbers, numeric strings, or garbage; decoding never
// fails and Float decides what the value means.
type Number string

func (n Number) Float(fallback float64) float64 {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func (n Number) Valid() bool {
	return !math.IsNaN(n.Float(math.NaN()))
}

func (n Number) MarshalJSON() ([]byte, error) {
	// Canonical form: ParseFloat accepts text such as ".5" or "+5" that is
	// not a JSON number.
	if v := n.Float(math.NaN()); !math.IsNaN(v) {
		return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
	}
	if n == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(n))
}

func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*n = ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*n = ""
			return nil
		}
		*n = Number(s)
	case trimmed[0] == '{', trimmed[0] == '[', trimmed[0] == 't', trimmed[0] == 'f':
		*n = ""
	default:
		*n = Number(trimmed)
	}
	return nil
}

func NumberOf(v float64) Number {
	return Number(strconv.FormatFloat(v, 'f', -1, 64))
}
