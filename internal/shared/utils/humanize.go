package utils

import "fmt"

// HumanizeHours renders an hour count as the largest whole calendar unit:
// 24 -> "1 day", 168 -> "1 week", 730 -> "1 month". Months use the 730-hour
// average so subscription cadences round cleanly.
func HumanizeHours(hours int) string {
	if hours <= 0 {
		return "0 hours"
	}

	type unit struct {
		hours int
		name  string
	}
	units := []unit{
		{730, "month"},
		{168, "week"},
		{24, "day"},
		{1, "hour"},
	}

	for _, u := range units {
		if hours >= u.hours && hours%u.hours == 0 {
			n := hours / u.hours
			if n == 1 {
				return fmt.Sprintf("1 %s", u.name)
			}
			return fmt.Sprintf("%d %ss", n, u.name)
		}
	}

	return fmt.Sprintf("%d hours", hours)
}
