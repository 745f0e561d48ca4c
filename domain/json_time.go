package domain

import "time"

// UTCTimePtr returns a pointer to the time normalized to UTC, or nil if the input is nil.
func UTCTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// UnixMilliPtr converts a millisecond epoch to a UTC time. Zero yields nil, as
// ClickUp uses it for unset dates.
func UnixMilliPtr(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
