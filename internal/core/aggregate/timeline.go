package aggregate

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Granularity is the bucket width of a submission timeline.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ParseGranularity accepts day, week, month or year in any case. Empty input
// means week.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Week, nil
	case Day, Week, Month, Year:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

// Point is one period of a timeline.
type Point struct {
	Period time.Time `json:"period"`
	Label  string    `json:"label"`
	Count  int       `json:"count"`
}

// PeriodStart truncates t (in UTC) to the start of its period. Weeks start
// on Monday.
func PeriodStart(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case Day:
		return day
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	}
}

func periodLabel(p time.Time, g Granularity) string {
	switch g {
	case Month:
		return p.Format("2006-01")
	case Year:
		return p.Format("2006")
	default:
		return p.Format("2006-01-02")
	}
}

// SubmissionTimeline counts dates per period, ascending by period start.
// Zero dates are skipped.
func SubmissionTimeline(dates []time.Time, g Granularity) []Point {
	counts := make(map[time.Time]int)
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		counts[PeriodStart(d, g)]++
	}
	out := make([]Point, 0, len(counts))
	for p, n := range counts {
		out = append(out, Point{Period: p, Label: periodLabel(p, g), Count: n})
	}
	slices.SortFunc(out, func(a, b Point) int {
		return a.Period.Compare(b.Period)
	})
	return out
}
