package record

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// source is the JSON object a record was decoded from. Values keep
// whatever JSON type they were loaded with; the typed record fields are a
// best-effort view of them.
type source struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// newSource parses a JSON object and keeps a compact copy of it.
// It returns nil, nil for a JSON null.
func newSource(data []byte) (*source, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by DecodeList/DecodeOne
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by DecodeList/DecodeOne
	}
	return &source{raw: buf.Bytes(), fields: fields}, nil
}

// text returns the textual form of a field: strings as is, numbers via
// FormatNumber, booleans as true/false, arrays and objects as compact JSON.
// Absent, null and empty values report false.
func (s *source) text(name string) (string, bool) {
	raw, ok := s.fields[name]
	if !ok {
		return "", false
	}
	return scalarText(raw)
}

// str is text without the presence flag.
func (s *source) str(name string) string {
	v, _ := s.text(name)
	return v
}

// number reads a numeric field, accepting numbers and numeric strings.
func (s *source) number(name string) *float64 {
	v, ok := s.text(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

// boolean reads a flag, accepting true/false and their string forms.
func (s *source) boolean(name string) *bool {
	v, ok := s.text(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &b
}

func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case 'n':
		return "", false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return present(s)
	case 't', 'f', '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw), true
		}
		return buf.String(), true
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return string(raw), true
		}
		return FormatNumber(f), true
	}
}

func present(v string) (string, bool) {
	return v, v != ""
}

func number(v *float64) (string, bool) {
	if v == nil {
		return "", false
	}
	return FormatNumber(*v), true
}

// FormatNumber renders a float the way a browser prints a number: shortest
// round-trip decimal, exponent form below 1e-6 and from 1e21 up (1e-7,
// 1.5e+21), and negative zero as 0.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a < 1e-6 || a >= 1e21 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
