package core

import (
	"fmt"
	"time"
)

// AgeGroups lists the age bucket labels in display order.
var AgeGroups = []string{"18-30", "31-40", "41-50", "51-60", "61-70"}

// ageBounds holds the lower bound of each bucket; upper bounds are exclusive.
var ageBounds = []int{0, 30, 40, 50, 60, 70}

// AgeGroup returns the bucket label for an age. Ages below 0 or at/above 70
// fall outside every bucket and report ok=false.
func AgeGroup(age int) (label string, ok bool) {
	for i := 0; i < len(AgeGroups); i++ {
		if age >= ageBounds[i] && age < ageBounds[i+1] {
			return AgeGroups[i], true
		}
	}
	return "", false
}

// MonthName returns the full English month name of a date, or "" if absent.
func (d NullDate) MonthName() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Month().String()
}

// Quarter returns the year-quarter label ("2023Q1") of a date, or "" if absent.
func (d NullDate) Quarter() string {
	if !d.Valid {
		return ""
	}
	return fmt.Sprintf("%dQ%d", d.Time.Year(), (int(d.Time.Month())-1)/3+1)
}

// Year returns the year of a date, reporting ok=false if absent.
func (d NullDate) Year() (int, bool) {
	if !d.Valid {
		return 0, false
	}
	return d.Time.Year(), true
}

// MonthIndex returns the calendar position (1-12) of a full month name, or 0.
func MonthIndex(name string) int {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return int(m)
		}
	}
	return 0
}

// CalendarMonths returns January through December.
func CalendarMonths() []string {
	out := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, m.String())
	}
	return out
}
