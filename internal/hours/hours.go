package hours

import (
	"fmt"
	"strings"
	"time"

	"gym-occupancy-backend/config"
	"gym-occupancy-backend/internal/model"
)

type window struct {
	open  int // minutes after midnight, inclusive
	close int // minutes after midnight, exclusive
}

// Schedule is the facility's static weekly opening table, evaluated in a
// fixed timezone.
type Schedule struct {
	loc     *time.Location
	days    map[time.Weekday]window
	display []model.HoursDisplay
	name    string
}

// New builds a Schedule from the facility configuration.
func New(cfg config.FacilityConfig) (*Schedule, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	days := make(map[time.Weekday]window, len(cfg.Hours))
	for _, h := range cfg.Hours {
		open, err := minutesOfDay(h.Open)
		if err != nil {
			return nil, err
		}
		closing, err := minutesOfDay(h.Close)
		if err != nil {
			return nil, err
		}
		days[time.Weekday(h.Weekday)] = window{open: open, close: closing}
	}

	display := make([]model.HoursDisplay, 0, len(cfg.HoursDisplay))
	for _, d := range cfg.HoursDisplay {
		display = append(display, model.HoursDisplay{Label: d.Label, Open: d.Open, Close: d.Close})
	}

	return &Schedule{loc: loc, days: days, display: display, name: cfg.Name}, nil
}

func minutesOfDay(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Location returns the facility timezone.
func (s *Schedule) Location() *time.Location {
	return s.loc
}

// IsOpen reports whether t falls inside that weekday's opening window.
// Days missing from the table are closed.
func (s *Schedule) IsOpen(t time.Time) bool {
	local := t.In(s.loc)
	w, ok := s.days[local.Weekday()]
	if !ok {
		return false
	}
	now := local.Hour()*60 + local.Minute()
	return now >= w.open && now < w.close
}

// Display returns a copy of the published hours table.
func (s *Schedule) Display() []model.HoursDisplay {
	out := make([]model.HoursDisplay, len(s.display))
	copy(out, s.display)
	return out
}

// Today returns the current calendar date in the facility timezone.
func (s *Schedule) Today(now time.Time) string {
	return now.In(s.loc).Format(time.DateOnly)
}

// ClosedMessage is shown while the facility is outside its opening hours.
func (s *Schedule) ClosedMessage() string {
	slots := make([]string, 0, len(s.display))
	for _, d := range s.display {
		slots = append(slots, fmt.Sprintf("%s: %s – %s", d.Label, d.Open, d.Close))
	}
	return fmt.Sprintf("The %s is currently closed. Regular hours — %s.", s.name, strings.Join(slots, " · "))
}
