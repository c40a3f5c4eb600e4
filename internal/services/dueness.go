package services

import "time"

const dayMillis = 24 * 60 * 60 * 1000

// weeklyAllowanceDue reports whether a weekly allowance payment is due.
// Day boundaries come from truncated division of elapsed milliseconds, not
// calendar-day alignment: 6 days 23h since the last payment is still 6 days.
func weeklyAllowanceDue(lastPayment, now time.Time) bool {
	if lastPayment.IsZero() {
		return true
	}
	return now.Sub(lastPayment).Milliseconds()/dayMillis >= 7
}

// monthlyInterestDue reports whether an interest payment is due. Unlike the
// weekly check this is calendar-based: the first day of a new month counts as
// due no matter how few days have elapsed. An account that never earned
// interest becomes due once it is 30 days old.
func monthlyInterestDue(lastPayment, accountCreated, now time.Time) bool {
	if lastPayment.IsZero() {
		return now.Sub(accountCreated).Milliseconds()/dayMillis >= 30
	}
	return lastPayment.Month() != now.Month() || lastPayment.Year() != now.Year()
}
