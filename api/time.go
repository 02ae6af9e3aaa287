package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Time is a timestamp sent by the exchange as Unix milliseconds.
type Time time.Time

// UnmarshalJSON accepts a number of milliseconds, quoted or not. Zero
// and null leave the zero Time.
func (t *Time) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*t = Time{}
		return nil
	}

	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing millisecond timestamp %q: %w", b, err)
	}

	if ms == 0 {
		*t = Time{}
		return nil
	}

	*t = Time(time.UnixMilli(ms).UTC())

	return nil
}

// MarshalJSON writes t as Unix milliseconds.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time().IsZero() {
		return []byte("0"), nil
	}

	return json.Marshal(t.Time().UnixMilli())
}

// Time returns t as a [time.Time].
func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) String() string {
	return t.Time().String()
}
