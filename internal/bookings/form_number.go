package bookings

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FormInt is an optional integer posted by the booking form. It accepts a
// JSON number or a numeric string; null, "" and anything unparseable leave
// it unset.
type FormInt struct {
	Value *int
}

func (n *FormInt) UnmarshalJSON(data []byte) error {
	n.Value = nil
	if f, ok := parseFormNumber(data); ok {
		i := int(f)
		n.Value = &i
	}
	return nil
}

func (n FormInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

// FormFloat is FormInt for amounts.
type FormFloat struct {
	Value *float64
}

func (n *FormFloat) UnmarshalJSON(data []byte) error {
	n.Value = nil
	if f, ok := parseFormNumber(data); ok {
		n.Value = &f
	}
	return nil
}

func (n FormFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}

func parseFormNumber(data []byte) (float64, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, false
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, false
	}
	return f, true
}
