package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// DateIn returns the calendar date of t as observed in loc. A nil loc means UTC.
func DateIn(t time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(t.In(loc))
}
