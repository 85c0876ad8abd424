// Package expiry classifies medicine expiry dates relative to a given day.
//
// Classification works on calendar dates. The time-of-day of now is ignored,
// so a medicine expiring today is still usable today.
package expiry

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Status is the derived expiry state of a medicine. It is never stored.
type Status int

const (
	// Valid expires after the end of the window.
	Valid Status = iota
	// ExpiringSoon expires between today and the end of the window, inclusive.
	ExpiringSoon
	// Expired expired before today.
	Expired
)

var statusNames = map[Status]string{
	Valid:        "valid",
	ExpiringSoon: "expiring_soon",
	Expired:      "expired",
}

// String returns the wire name, e.g. "expiring_soon".
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalJSON encodes s as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Window is the length of the expiring-soon band, in calendar units.
type Window struct {
	Years  int `json:"years,omitempty"`
	Months int `json:"months,omitempty"`
	Days   int `json:"days,omitempty"`
}

// DefaultWindow is three calendar months.
var DefaultWindow = Window{Months: 3}

// End returns the last day of the window that starts on d. Month overflow
// normalizes the way time.AddDate does: Nov 30 plus three months is Mar 2
// (or Mar 1 in a leap year).
func (w Window) End(d civil.Date) civil.Date {
	return civil.DateOf(d.In(time.UTC).AddDate(w.Years, w.Months, w.Days))
}

// Classify reports the status of expiry as seen on the calendar day of now,
// taken in now's location.
//
// A date before today is Expired. A date from today through the end of the
// window, both ends included, is ExpiringSoon. Anything later is Valid.
func Classify(expiry civil.Date, now time.Time, w Window) Status {
	today := civil.DateOf(now)
	if expiry.Before(today) {
		return Expired
	}
	if !expiry.After(w.End(today)) {
		return ExpiringSoon
	}
	return Valid
}
