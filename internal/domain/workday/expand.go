package workday

import "time"

type DayType string

const (
	DayTypeFull   DayType = "full"
	DayTypeHalfAM DayType = "half-am"
	DayTypeHalfPM DayType = "half-pm"
)

// LeaveDay is one calendar day counted against a leave request.
type LeaveDay struct {
	Date      time.Time `bson:"date" json:"date"`
	IsHalfDay bool      `bson:"is_half_day" json:"isHalfDay"`
	DayType   DayType   `bson:"day_type" json:"dayType"`
}

// Normalize drops the time of day, keeping the calendar date t shows in its
// own location, and returns it as midnight UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Expand walks [start, end] one calendar day at a time, both ends inclusive,
// and returns a full LeaveDay for every date whose weekday is a working day
// in schedule. The result is in ascending date order and is empty when no
// day in the range is worked. Callers reject start after end beforehand;
// such a range simply yields no days.
func Expand(start, end time.Time, schedule WeeklySchedule) []LeaveDay {
	days := []LeaveDay{}
	last := Normalize(end)
	for day := Normalize(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		if !schedule.WorksOn(day.Weekday()) {
			continue
		}
		days = append(days, LeaveDay{
			Date:      day,
			IsHalfDay: false,
			DayType:   DayTypeFull,
		})
	}
	return days
}

const secondsPerDay = 24 * 60 * 60

// CountCalendarDays returns the inclusive number of calendar days in the
// range, or zero when start is after end. Both ends are UTC midnights, so
// their Unix seconds differ by whole days; time.Duration would saturate on
// spans over about 292 years.
func CountCalendarDays(start, end time.Time) int {
	from, to := Normalize(start), Normalize(end)
	if to.Before(from) {
		return 0
	}
	return int((to.Unix()-from.Unix())/secondsPerDay) + 1
}
