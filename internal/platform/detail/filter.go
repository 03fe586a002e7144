package detail

import (
	"time"
)

// DateRange holds the optional inclusive date bounds of the transaction
// filter. Bounds are calendar dates; the time-of-day expansion happens at
// encoding time.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsFiltering reports whether either bound is set.
func (r DateRange) IsFiltering() bool {
	return r.From != nil || r.To != nil
}

// EncodeFrom returns the lower bound as that date's start of day in UTC,
// RFC3339-encoded, or nil when unset. Using a fixed UTC offset keeps the
// remote query boundary stable across client locales.
func (r DateRange) EncodeFrom() *string {
	if r.From == nil {
		return nil
	}
	d := *r.From
	s := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	return &s
}

// EncodeTo returns the upper bound as that date's end of day (23:59:59) in
// UTC, RFC3339-encoded, or nil when unset.
func (r DateRange) EncodeTo() *string {
	if r.To == nil {
		return nil
	}
	d := *r.To
	s := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC).Format(time.RFC3339)
	return &s
}
