package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the system time.
type TimeClocker struct{}

func New() *TimeClocker {
	return &TimeClocker{}
}

func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. The CLI uses it for codes at a
// user supplied time.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
