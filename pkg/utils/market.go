// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"time"
)

// IndiaLocation is the timezone for Indian markets.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback to UTC+5:30
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// EODLikelyPublished reports whether the exchange has likely published
// today's bhav copy. Publication typically happens between 4 and 5 PM IST;
// this is a hint for user messaging, not a guarantee.
func EODLikelyPublished(now time.Time) bool {
	ist := now.In(IndiaLocation)
	return ist.Hour() >= 17
}

// ParseFlexibleDate parses a date in YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY
// form, the formats the downloader CLI accepts.
func ParseFlexibleDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q, expected YYYY-MM-DD", s)
}
