package parse

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gym-occupancy-backend/internal/model"
)

var (
	dateClassRe  = regexp.MustCompile(`date-(\d{4}-\d{2}-\d{2})`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	roomPrefixRe = regexp.MustCompile(`(?i)Room:`)
)

// SessionOptions carries the facility context attached to every session.
type SessionOptions struct {
	TimeZone        string
	DefaultLocation string
}

// ParseSessions turns widget markup into class days. Day containers without
// a date-YYYY-MM-DD class token are skipped. A session's cancellation comes
// from cancellations when its class id is listed there, and from the
// canceled marker in the markup otherwise.
func ParseSessions(html string, cancellations map[string]bool, opts SessionOptions) ([]model.ClassDay, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	days := make([]model.ClassDay, 0)
	doc.Find(".bw-widget__day").Each(func(_ int, day *goquery.Selection) {
		dateEl := day.Find(".bw-widget__date")
		dateMatch := dateClassRe.FindStringSubmatch(dateEl.AttrOr("class", ""))
		if dateMatch == nil {
			return
		}

		sessions := make([]model.ClassSession, 0)
		day.Find(".bw-session").Each(func(_ int, s *goquery.Selection) {
			sessions = append(sessions, parseSession(s, cancellations, opts))
		})

		days = append(days, model.ClassDay{
			Date:     dateMatch[1],
			Label:    strings.TrimSpace(dateEl.Text()),
			Sessions: sessions,
		})
	})
	return days, nil
}

func parseSession(s *goquery.Selection, cancellations map[string]bool, opts SessionOptions) model.ClassSession {
	location := strings.TrimSpace(roomPrefixRe.ReplaceAllString(s.Find(".bw-session__room").Text(), ""))
	if location == "" {
		location = opts.DefaultLocation
	}

	return model.ClassSession{
		ID:             s.AttrOr("id", ""),
		Name:           text(s, ".bw-session__name"),
		Category:       text(s, ".bw-session__type"),
		Instructor:     text(s, ".bw-session__staff"),
		StartTimeLocal: attr(s.Find("time.hc_starttime"), "datetime"),
		EndTimeLocal:   attr(s.Find("time.hc_endtime"), "datetime"),
		TimeZone:       opts.TimeZone,
		Location:       location,
		Description:    collapse(s.Find(".bw-session__description").First().Text()),
		IsCancelled:    isCancelled(s, cancellations),
	}
}

func isCancelled(s *goquery.Selection, cancellations map[string]bool) bool {
	if classID, ok := s.Attr("data-bw-widget-mbo-class-id"); ok && classID != "" {
		if canceled, listed := cancellations[classID]; listed {
			return canceled
		}
	}

	marker := s.Find(".bw-session__canceled")
	if marker.Length() == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(marker.Text())), "cancel")
}

func text(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).Text())
}

func attr(s *goquery.Selection, name string) *string {
	v, ok := s.Attr(name)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func collapse(v string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(v, " "))
}
