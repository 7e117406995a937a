package services

import (
	"time"

	apperrors "tesla-crm/internal/errors"
)

// ===========================================================================
// Time Range Resolver
// Maps named ranges (today, last_week, this_quarter, ...) to concrete
// [start, end) bounds. Weeks start on Monday. Custom ranges require both
// dates and treat the end date as inclusive.
// ===========================================================================

// dateLayout wire format for custom range bounds
const dateLayout = "2006-01-02"

// TimeRange resolved half-open interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ResolveTimeRange resolves a named range relative to now.
// startDate and endDate are only consulted for "custom".
// "this_*" ranges run from the period start through the end of today,
// not to the end of the calendar period.
func ResolveTimeRange(name, startDate, endDate string, now time.Time) (TimeRange, error) {
	today := startOfDay(now)
	endOfToday := today.AddDate(0, 0, 1)

	switch name {
	case "", "today":
		return TimeRange{Start: today, End: endOfToday}, nil

	case "yesterday":
		return TimeRange{Start: today.AddDate(0, 0, -1), End: today}, nil

	case "this_week":
		return TimeRange{Start: startOfWeek(today), End: endOfToday}, nil

	case "last_week":
		end := startOfWeek(today)
		return TimeRange{Start: end.AddDate(0, 0, -7), End: end}, nil

	case "this_month":
		return TimeRange{Start: startOfMonth(today), End: endOfToday}, nil

	case "last_month":
		end := startOfMonth(today)
		return TimeRange{Start: end.AddDate(0, -1, 0), End: end}, nil

	case "this_quarter":
		return TimeRange{Start: startOfQuarter(today), End: endOfToday}, nil

	case "last_quarter":
		end := startOfQuarter(today)
		return TimeRange{Start: end.AddDate(0, -3, 0), End: end}, nil

	case "this_year":
		return TimeRange{Start: startOfYear(today), End: endOfToday}, nil

	case "last_year":
		end := startOfYear(today)
		return TimeRange{Start: end.AddDate(-1, 0, 0), End: end}, nil

	case "custom":
		return resolveCustomRange(startDate, endDate, now.Location())

	default:
		return TimeRange{}, apperrors.New(apperrors.ErrInvalidInput, "unknown time range: "+name)
	}
}

// resolveCustomRange parses explicit bounds; both are required and the
// end date is inclusive.
func resolveCustomRange(startDate, endDate string, loc *time.Location) (TimeRange, error) {
	if startDate == "" || endDate == "" {
		return TimeRange{}, apperrors.New(apperrors.ErrInvalidInput, "custom range requires start_date and end_date")
	}

	start, err := time.ParseInLocation(dateLayout, startDate, loc)
	if err != nil {
		return TimeRange{}, apperrors.New(apperrors.ErrInvalidInput, "invalid start_date: "+startDate)
	}

	end, err := time.ParseInLocation(dateLayout, endDate, loc)
	if err != nil {
		return TimeRange{}, apperrors.New(apperrors.ErrInvalidInput, "invalid end_date: "+endDate)
	}

	if end.Before(start) {
		return TimeRange{}, apperrors.New(apperrors.ErrInvalidInput, "end_date before start_date")
	}

	return TimeRange{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday of t's week
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week starting the previous Monday
	}
	return startOfDay(t).AddDate(0, 0, -(weekday - 1))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfQuarter(t time.Time) time.Time {
	quarterMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), quarterMonth, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
