package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DisplayLayout is the day-first layout used on screen and in exports.
const DisplayLayout = "02/01/2006"

// isoLayouts are tried in order before the slash-separated day-first forms.
var isoLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse reads a sheet date. Accepted forms are ISO ("2024-12-19"),
// "2024/12/19", RFC 3339 timestamps and day-first "19/12/2024" or
// "19-12-2024". A day-first value whose month is out of range but whose
// day fits is read month-first ("12/19/2024"). ok is false when nothing matches.
func Parse(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}
	return parseDayFirst(s)
}

func parseDayFirst(s string) (civil.Date, bool) {
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	// Drop a trailing time component such as "19/12/2024 14:30".
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return civil.Date{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return civil.Date{}, false
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month > 12 && day <= 12 {
		day, month = month, day
	}
	if year < 100 {
		year += 2000
	}

	d := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}

// Format renders d day-first, e.g. "19/12/2024". The zero date renders empty.
func Format(d civil.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.In(time.UTC).Format(DisplayLayout)
}

// FormatDateTime renders d followed by an "HH:MM" time when one is given.
func FormatDateTime(d civil.Date, hhmm string) string {
	if hhmm == "" {
		return Format(d)
	}
	return Format(d) + " " + hhmm
}

// Today returns the calendar date of now in its own location.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now)
}

// Relative describes how far d lies from today in Spanish: "Hoy", "Ayer",
// "Hace 3 días", "Hace 2 semanas", "Hace 5 meses" or "Hace 1 año".
func Relative(d, today civil.Date) string {
	days := today.DaysSince(d)
	if days < 0 {
		days = -days
	}

	switch {
	case days == 0:
		return "Hoy"
	case days == 1:
		return "Ayer"
	case days < 7:
		return fmt.Sprintf("Hace %d días", days)
	case days < 30:
		return ago(days/7, "semana", "semanas")
	case days < 365:
		return ago(days/30, "mes", "meses")
	default:
		return ago(days/365, "año", "años")
	}
}

func ago(n int, one, many string) string {
	if n == 1 {
		return "Hace 1 " + one
	}
	return fmt.Sprintf("Hace %d %s", n, many)
}
