package model

import (
	"fmt"
	"net/http"
	"time"
)

// dateLayouts are the date renderings seen in backend responses: plain ISO
// dates, ISO timestamps with and without a zone, and the RFC 1123 form the
// backend's JSON encoder uses for date columns.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	http.TimeFormat,
	time.RFC1123Z,
}

// ParseDate parses a backend date or timestamp. Values without a zone are
// taken as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
