package util

import "time"

// TestDurationDays is the length of the beta test period in days.
const TestDurationDays = 14

// DaysInTest returns the number of whole days elapsed since the tester
// started. A nil or future start yields 0.
func DaysInTest(startedAt *time.Time) int {
	if startedAt == nil {
		return 0
	}
	days := int(time.Since(*startedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DaysRemaining returns the days left in the test period, 14 when the
// tester has not started.
func DaysRemaining(startedAt *time.Time) int {
	if startedAt == nil {
		return TestDurationDays
	}
	remaining := TestDurationDays - DaysInTest(startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsInactive reports whether lastActive is at least thresholdDays whole
// days in the past. A tester with no recorded activity is never inactive.
func IsInactive(lastActive *time.Time, thresholdDays int) bool {
	if lastActive == nil {
		return false
	}
	days := int(time.Since(*lastActive).Hours() / 24)
	return days >= thresholdDays
}

// IsTestComplete reports whether the test period has elapsed.
func IsTestComplete(startedAt *time.Time) bool {
	if startedAt == nil {
		return false
	}
	return DaysRemaining(startedAt) == 0
}
