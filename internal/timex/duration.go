// Package timex provides a JSON-friendly wrapper around time.Duration so
// config files can specify intervals either as strings like "6h" or as
// integer nanoseconds.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration wraps time.Duration for JSON unmarshalling.
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts either a duration string ("30s", "6h") or a number
// of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// MarshalJSON renders the duration as a string, e.g. "6h0m0s".
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}
