package calendar

import (
	"errors"
	"time"
)

var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange представляет временной интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создаёт интервал и делает простую валидацию.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, ErrInvalidTimeRange
	}
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Contains проверяет, попадает ли t в интервал (границы включительно).
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && !t.After(tr.End)
}

// DayBounds возвращает границы суток дня now+leadDays в зоне loc:
// [00:00:00, 23:59:59.999999999]. Окно напоминаний "за N дней" —
// это целиком тот календарный день.
func DayBounds(now time.Time, leadDays int, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.UTC
	}
	day := now.In(loc).AddDate(0, 0, leadDays)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return TimeRange{Start: start, End: end}
}

// SyncWindow возвращает окно выборки событий для синхронизации:
// от начала текущих суток до горизонта horizonDays вперёд.
func SyncWindow(now time.Time, horizonDays int, loc *time.Location) TimeRange {
	if loc == nil {
		loc = time.UTC
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	n := now.In(loc)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	return TimeRange{Start: start, End: start.AddDate(0, 0, horizonDays)}
}

// FormatClock форматирует время записи для подстановки в сообщение,
// например "02:30 PM". Если loc != nil, время переводится в эту зону.
func FormatClock(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("03:04 PM")
}
