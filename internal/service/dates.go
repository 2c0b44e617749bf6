package service

import "time"

const dateLayout = "2006-01-02"

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseDateRange turns YYYY-MM-DD bounds into [from, to) where to is the
// day after end, so the end date is inclusive.
func parseDateRange(start, end string) (from, to *time.Time, err error) {
	if start != "" {
		t, perr := time.ParseInLocation(dateLayout, start, time.Local)
		if perr != nil {
			return nil, nil, validationErrorf("Invalid startDate %q, expected YYYY-MM-DD", start)
		}
		from = &t
	}
	if end != "" {
		t, perr := time.ParseInLocation(dateLayout, end, time.Local)
		if perr != nil {
			return nil, nil, validationErrorf("Invalid endDate %q, expected YYYY-MM-DD", end)
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, validationErrorf("startDate must not be after endDate")
	}
	return from, to, nil
}
