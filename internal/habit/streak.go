package habit

import "time"

// ScheduledOn reports whether a habit with the given frequency is due on the
// date. Unparseable dates count as unscheduled.
func ScheduledOn(freq Frequency, customDays []int, date string) bool {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	switch freq {
	case Weekdays:
		wd := d.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case Custom:
		for _, day := range customDays {
			if time.Weekday(day) == d.Weekday() {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// RecomputeStreak replays the completion log day by day and returns the
// current and longest runs of consecutive scheduled-day completions.
//
// Policy decisions (kept deliberately simple): dates are local calendar
// days with no grace period; unscheduled days neither extend nor break a
// run; a scheduled day before today with no completed log breaks the run;
// today without a completion is pending, not a miss.
func RecomputeStreak(logs []Log, today string, freq Frequency, customDays []int) (current, longest int) {
	completed := make(map[string]bool)
	first := ""
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		completed[l.Date] = true
		if first == "" || l.Date < first {
			first = l.Date
		}
	}
	if first == "" {
		return 0, 0
	}

	start, err := time.Parse("2006-01-02", first)
	if err != nil {
		return 0, 0
	}
	end, err := time.Parse("2006-01-02", today)
	if err != nil {
		return 0, 0
	}

	run := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		if !ScheduledOn(freq, customDays, date) {
			continue
		}
		switch {
		case completed[date]:
			run++
			if run > longest {
				longest = run
			}
		case date == today:
			// Still pending; the run survives until midnight.
		default:
			run = 0
		}
	}
	return run, longest
}
