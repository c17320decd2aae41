package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classMarkup = `<div class="bw-widget__day">
  <div class="bw-widget__date date-2025-01-06">Monday, January 6</div>
  <div class="bw-session" id="s1" data-bw-widget-mbo-class-id="501">
    <div class="bw-session__name">Power Yoga</div>
    <time class="hc_starttime" datetime="2025-01-06T17:30">5:30 PM</time>
    <time class="hc_endtime" datetime="2025-01-06T18:30">6:30 PM</time>
  </div>
  <div class="bw-session" id="s2" data-bw-widget-mbo-class-id="502">
    <div class="bw-session__name">Cycle</div>
    <div class="bw-session__canceled">Cancelled</div>
  </div>
</div>
<script>
var scheduleData = {"501":{"isCanceled":true},"502":{"isCanceled":false}}
</script>`

func newWidgetServer(t *testing.T, status int, body func(r *http.Request) any) (*httptest.Server, *atomic.Int32, *atomic.Value) {
	t.Helper()
	var calls atomic.Int32
	var lastStartDate atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/widgets/schedules/3262/load_markup" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		lastStartDate.Store(r.URL.Query().Get("options[start_date]"))
		w.WriteHeader(status)
		switch v := body(r).(type) {
		case string:
			w.Write([]byte(v))
		default:
			json.NewEncoder(w).Encode(v)
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls, &lastStartDate
}

func TestLoadSchedule_ParsesMarkup(t *testing.T) {
	server, calls, startDate := newWidgetServer(t, http.StatusOK, func(r *http.Request) any {
		return map[string]string{"class_sessions": classMarkup}
	})
	svc := newTestService(t, newTestConfig("", server.URL), mondayNoon)

	schedule, err := svc.LoadSchedule(context.Background(), "2025-01-06")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-06", startDate.Load())
	assert.Equal(t, "2025-01-06", schedule.StartDate)
	require.Len(t, schedule.Days, 1)
	sessions := schedule.Days[0].Sessions
	require.Len(t, sessions, 2)
	assert.Equal(t, "Power Yoga", sessions[0].Name)
	assert.True(t, sessions[0].IsCancelled, "scheduleData marks 501 as cancelled")
	assert.False(t, sessions[1].IsCancelled, "scheduleData overrides the HTML marker for 502")
	assert.Equal(t, "America/Los_Angeles", sessions[0].TimeZone)
	assert.Equal(t, "UC Berkeley Rec Sports", sessions[0].Location)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadSchedule_ContentsField(t *testing.T) {
	server, _, _ := newWidgetServer(t, http.StatusOK, func(r *http.Request) any {
		return map[string]string{"contents": classMarkup}
	})
	svc := newTestService(t, newTestConfig("", server.URL), mondayNoon)

	schedule, err := svc.LoadSchedule(context.Background(), "2025-01-06")
	require.NoError(t, err)
	require.Len(t, schedule.Days, 1)
}

func TestLoadSchedule_EmptyResults(t *testing.T) {
	testCases := []struct {
		name string
		body any
	}{
		{"no markup fields", map[string]string{"other": "x"}},
		{"empty markup", map[string]string{"class_sessions": "", "contents": ""}},
		{"not JSON", "<html>maintenance</html>"},
		{"markup field of the wrong type", map[string]int{"class_sessions": 42}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, _, _ := newWidgetServer(t, http.StatusOK, func(r *http.Request) any { return tc.body })
			svc := newTestService(t, newTestConfig("", server.URL), mondayNoon)

			schedule, err := svc.LoadSchedule(context.Background(), "2025-01-08")
			require.NoError(t, err)
			assert.Equal(t, "2025-01-08", schedule.StartDate)
			assert.NotNil(t, schedule.Days)
			assert.Empty(t, schedule.Days)

			out, _ := json.Marshal(schedule)
			assert.JSONEq(t, `{"startDate":"2025-01-08","days":[]}`, string(out))
		})
	}
}

func TestLoadSchedule_UpstreamFailure(t *testing.T) {
	server, _, _ := newWidgetServer(t, http.StatusServiceUnavailable, func(r *http.Request) any { return "down" })
	svc := newTestService(t, newTestConfig("", server.URL), mondayNoon)

	_, err := svc.LoadSchedule(context.Background(), "2025-01-06")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestLoadSchedule_CachedPerDate(t *testing.T) {
	server, calls, _ := newWidgetServer(t, http.StatusOK, func(r *http.Request) any {
		return map[string]string{"class_sessions": classMarkup}
	})
	svc := newTestService(t, newTestConfig("", server.URL), mondayNoon)

	_, err := svc.LoadSchedule(context.Background(), "2025-01-06")
	require.NoError(t, err)
	_, err = svc.LoadSchedule(context.Background(), "2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	_, err = svc.LoadSchedule(context.Background(), "2025-01-07")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}
