package db

import "time"

// chat.db stores timestamps as nanoseconds since the Apple epoch,
// 2001-01-01 00:00:00 UTC.
const appleEpochOffset int64 = 978307200

// AppleTime converts a raw message date column value to a time.Time.
func AppleTime(ns int64) time.Time {
	return time.Unix(ns/1e9+appleEpochOffset, ns%1e9)
}

// AppleNanoseconds converts a time.Time to a raw message date value.
func AppleNanoseconds(t time.Time) int64 {
	return (t.Unix() - appleEpochOffset) * 1e9
}
