package utils

import (
	"time"
)

// ISOTimestampLayout matches JavaScript's Date.prototype.toISOString output.
const ISOTimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOTimestampLayout)
}

// ParseISO accepts the millisecond layout as well as any RFC 3339 timestamp.
func ParseISO(value string) (time.Time, error) {
	if t, err := time.Parse(ISOTimestampLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
