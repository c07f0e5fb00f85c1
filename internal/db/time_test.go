package db

import (
	"testing"
	"time"
)

func TestAppleTime(t *testing.T) {
	// The Apple epoch itself.
	if got := AppleTime(0); !got.Equal(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("epoch mismatch: %v", got)
	}

	// Nanosecond remainder survives.
	got := AppleTime(1_500_000_000)
	want := time.Date(2001, 1, 1, 0, 0, 1, 500_000_000, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAppleNanoseconds_RoundTrip(t *testing.T) {
	moment := time.Date(2023, 6, 15, 12, 30, 45, 0, time.UTC)
	if got := AppleTime(AppleNanoseconds(moment)); !got.Equal(moment) {
		t.Fatalf("round trip mismatch: %v != %v", got, moment)
	}
}
