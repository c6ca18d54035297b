// Package timex provides duration helpers shared by the configuration layer.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Day is the length of the "d" unit accepted by ParseDuration.
const Day = 24 * time.Hour

// ParseDuration extends time.ParseDuration with two forms commonly used for
// token lifetimes:
//
//	"900"  bare integer, interpreted as seconds
//	"7d"   whole days
//
// Everything else is handed to time.ParseDuration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return scale(n, time.Second, s)
	}

	if strings.HasSuffix(s, "d") {
		n, err := strconv.ParseInt(strings.TrimSuffix(s, "d"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return scale(n, Day, s)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// scale returns n units, rejecting counts that do not fit in a time.Duration.
func scale(n int64, unit time.Duration, s string) (time.Duration, error) {
	limit := int64(math.MaxInt64 / unit)
	if n > limit || n < -limit {
		return 0, fmt.Errorf("duration %q out of range", s)
	}
	return time.Duration(n) * unit, nil
}

// Duration wraps time.Duration for JSON config files. It unmarshals from a
// string understood by ParseDuration ("15m", "7d", "3600") or from a JSON
// number of seconds, and marshals back to the time.Duration string form.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		ns := value * float64(time.Second)
		if ns >= math.MaxInt64 || ns <= math.MinInt64 {
			return fmt.Errorf("duration %s out of range", string(b))
		}
		d.Duration = time.Duration(ns)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration value: %s", string(b))
	}
}
