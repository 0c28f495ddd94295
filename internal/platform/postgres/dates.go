package postgres

import (
	"time"

	"cloud.google.com/go/civil"
)

// dateArg converts a calendar date into a value pgx encodes as DATE.
func dateArg(d civil.Date) time.Time {
	return d.In(time.UTC)
}

// dateOf converts a scanned DATE column back into a calendar date.
func dateOf(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}
