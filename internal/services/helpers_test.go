package services

import "time"

func testTime(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
