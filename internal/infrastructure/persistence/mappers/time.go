package mappers

import "time"

// millisToTime converts stored Unix milliseconds to a UTC time.Time.
// Storage and comparison are UTC-aware throughout; naive values never enter
// the domain.
func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

func millisPtrToTime(millis *int64) *time.Time {
	if millis == nil {
		return nil
	}
	t := millisToTime(*millis)
	return &t
}

func timeToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func timePtrToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	m := t.UnixMilli()
	return &m
}
