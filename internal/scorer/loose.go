package scorer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LooseString decodes a JSON value that should be text but may arrive as a
// number, boolean or null. Null becomes the empty string.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler
func (s *LooseString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}
	*s = LooseString(trimmed)
	return nil
}

// LooseFloat decodes a JSON number that may arrive as a numeric string.
// Absent, null or unparseable values decode to zero.
type LooseFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		trimmed = strings.TrimSpace(str)
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = LooseFloat(parsed)
	return nil
}
