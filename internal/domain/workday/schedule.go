package workday

import (
	"fmt"
	"strings"
	"time"
)

// WeeklySchedule holds one flag per weekday; a true flag means the employee
// is expected to work that day.
type WeeklySchedule struct {
	Monday    bool `bson:"works_on_monday" json:"worksOnMonday"`
	Tuesday   bool `bson:"works_on_tuesday" json:"worksOnTuesday"`
	Wednesday bool `bson:"works_on_wednesday" json:"worksOnWednesday"`
	Thursday  bool `bson:"works_on_thursday" json:"worksOnThursday"`
	Friday    bool `bson:"works_on_friday" json:"worksOnFriday"`
	Saturday  bool `bson:"works_on_saturday" json:"worksOnSaturday"`
	Sunday    bool `bson:"works_on_sunday" json:"worksOnSunday"`
}

// FullWeek marks every weekday as working.
func FullWeek() WeeklySchedule {
	return WeeklySchedule{true, true, true, true, true, true, true}
}

// NoDays marks every weekday as non-working; Expand yields nothing for it.
func NoDays() WeeklySchedule {
	return WeeklySchedule{}
}

// MondayToFriday is the schedule new accounts start with.
func MondayToFriday() WeeklySchedule {
	return WeekdaysWithWeekend(false, false)
}

// WeekdaysWithWeekend keeps Monday to Friday fixed and lets the two weekend
// days be switched on individually.
func WeekdaysWithWeekend(saturday, sunday bool) WeeklySchedule {
	return WeeklySchedule{
		Monday:    true,
		Tuesday:   true,
		Wednesday: true,
		Thursday:  true,
		Friday:    true,
		Saturday:  saturday,
		Sunday:    sunday,
	}
}

// WorksOn reports the flag for day.
func (s WeeklySchedule) WorksOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return false
	}
}

// With returns a copy of s with the flag for day replaced.
func (s WeeklySchedule) With(day time.Weekday, works bool) WeeklySchedule {
	switch day {
	case time.Monday:
		s.Monday = works
	case time.Tuesday:
		s.Tuesday = works
	case time.Wednesday:
		s.Wednesday = works
	case time.Thursday:
		s.Thursday = works
	case time.Friday:
		s.Friday = works
	case time.Saturday:
		s.Saturday = works
	case time.Sunday:
		s.Sunday = works
	}
	return s
}

// WorkingDays lists the working weekdays from Monday to Sunday.
func (s WeeklySchedule) WorkingDays() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for _, day := range weekOrder {
		if s.WorksOn(day) {
			out = append(out, day)
		}
	}
	return out
}

func (s WeeklySchedule) String() string {
	days := s.WorkingDays()
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, 0, len(days))
	for _, day := range days {
		names = append(names, strings.ToLower(day.String()[:3]))
	}
	return strings.Join(names, ",")
}

var weekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekdays builds a schedule from a comma separated list such as
// "mon,tue,wed". An empty string yields a schedule with no working days.
func ParseWeekdays(value string) (WeeklySchedule, error) {
	schedule := NoDays()
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			return WeeklySchedule{}, fmt.Errorf("invalid weekday: %q", part)
		}
		schedule = schedule.With(day, true)
	}
	return schedule, nil
}
