package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// MarkReadRequest is the body of POST /api/mark-read. Only the exact key "id"
// is read.
type MarkReadRequest struct {
	// ID is the lookup key derived from the id value.
	ID string
	// Present is false when id is absent or falsy (null, false, 0, "").
	// A present id may still derive the empty key, e.g. from [].
	Present bool
}

func (r *MarkReadRequest) UnmarshalJSON(data []byte) error {
	*r = MarkReadRequest{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields["id"]
	if !ok {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if !truthy(v) {
		return nil
	}
	key, err := lookupKey(v)
	if err != nil {
		return err
	}
	r.ID, r.Present = key, true
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := parseNumber(t)
		return err == nil && f != 0
	default:
		return true
	}
}

// lookupKey renders v the way a property key is derived from it in
// JavaScript: arrays join their elements with commas and objects become
// "[object Object]".
func lookupKey(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case bool:
		return strconv.FormatBool(t), nil
	case string:
		return t, nil
	case json.Number:
		f, err := parseNumber(t)
		if err != nil {
			return "", err
		}
		return formatNumber(f), nil
	case []any:
		parts := make([]string, len(t))
		for i, elem := range t {
			key, err := lookupKey(elem)
			if err != nil {
				return "", err
			}
			parts[i] = key
		}
		return strings.Join(parts, ","), nil
	default:
		return "[object Object]", nil
	}
}

func parseNumber(n json.Number) (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

func formatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type StatusResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	NotificationID string `json:"notificationId,omitempty"`
}
