package scraper

import (
	"context"
	"errors"
	"log"
	"net/url"

	"gym-occupancy-backend/internal/model"
	"gym-occupancy-backend/internal/parse"
)

// widgetMarkup is the widget provider's load_markup payload. Either field may
// carry the HTML fragment.
type widgetMarkup struct {
	ClassSessions string `json:"class_sessions"`
	Contents      string `json:"contents"`
}

func (w widgetMarkup) html() string {
	if w.ClassSessions != "" {
		return w.ClassSessions
	}
	return w.Contents
}

func (s *Service) markupURL(startDate string) string {
	u := s.cfg.Mindbody.BaseURL + "/widgets/schedules/" + url.PathEscape(s.cfg.Mindbody.WidgetID) + "/load_markup"
	q := url.Values{}
	q.Set("options[start_date]", startDate)
	return u + "?" + q.Encode()
}

// fetchSchedule requests the widget markup and parses it. Network failures are
// returned; a payload that is malformed or carries no markup yields an empty
// schedule.
func (s *Service) fetchSchedule(ctx context.Context, startDate string) (*model.ClassSchedule, error) {
	empty := &model.ClassSchedule{StartDate: startDate, Days: []model.ClassDay{}}

	var payload widgetMarkup
	if err := s.client.GetJSON(ctx, providerMindbody, s.markupURL(startDate), nil, &payload); err != nil {
		if errors.Is(err, ErrMalformedPayload) {
			log.Printf("Ignoring malformed class markup for %s: %v", startDate, err)
			return empty, nil
		}
		return nil, err
	}

	html := payload.html()
	if html == "" {
		return empty, nil
	}

	days, err := parse.ParseSessions(html, parse.ExtractCancellationMap(html), parse.SessionOptions{
		TimeZone:        s.cfg.Facility.Timezone,
		DefaultLocation: s.cfg.Facility.DefaultLocation,
	})
	if err != nil {
		log.Printf("Failed to parse class markup for %s: %v", startDate, err)
		return empty, nil
	}

	return &model.ClassSchedule{StartDate: startDate, Days: days}, nil
}
