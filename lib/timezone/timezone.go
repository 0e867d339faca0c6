package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(err)
	}
}

// both sites publish in french time, "today" is computed there so a host
// in another zone does not shift day boundaries.
func Now() time.Time {
	return time.Now().In(Location)
}

// Today is the current Paris calendar date as UTC midnight, which is how
// release dates are stored.
func Today() time.Time {
	return Date(Now())
}

// Date drops the clock and zone of t, keeping its calendar date.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
