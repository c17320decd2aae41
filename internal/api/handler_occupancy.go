package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHealth reports that the process is serving requests.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": h.now().UTC()})
}

// GetWeightroom handles GET /api/weightroom.
func (h *Handler) GetWeightroom(c *gin.Context) {
	status, err := h.service.LoadStatus(c.Request.Context())
	if err != nil {
		abortWithError(c, "Failed to fetch weight room occupancy", err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetClasses handles GET /api/classes?startDate=YYYY-MM-DD. The start date
// defaults to today in the facility timezone.
func (h *Handler) GetClasses(c *gin.Context) {
	startDate := c.Query("startDate")
	if startDate == "" {
		startDate = h.hours.Today(h.now())
	} else if _, err := time.Parse(time.DateOnly, startDate); err != nil {
		badRequest(c, "Invalid startDate", "startDate must be formatted as YYYY-MM-DD")
		return
	}

	schedule, err := h.service.LoadSchedule(c.Request.Context(), startDate)
	if err != nil {
		abortWithError(c, "Failed to fetch class schedule", err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// GetPeakHours handles GET /api/peak-hours.
func (h *Handler) GetPeakHours(c *gin.Context) {
	analysis, err := h.peak.Analyze(c.Request.Context())
	if err != nil {
		abortWithError(c, "Failed to analyze peak hours", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetSnapshots handles GET /api/snapshots?from=&to=. Both bounds are RFC3339
// timestamps; from defaults to 24 hours before to, and to defaults to now.
func (h *Handler) GetSnapshots(c *gin.Context) {
	to := h.now()
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "Invalid 'to' timestamp", "use RFC3339, e.g. 2025-01-06T18:00:00Z")
			return
		}
		to = parsed
	}

	from := to.Add(-24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "Invalid 'from' timestamp", "use RFC3339, e.g. 2025-01-06T18:00:00Z")
			return
		}
		from = parsed
	}
	if from.After(to) {
		badRequest(c, "Invalid range", "'from' must not be after 'to'")
		return
	}

	snapshots, err := h.snapshots.Range(c.Request.Context(), from, to)
	if err != nil {
		abortWithError(c, "Failed to load snapshots", err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}
