package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gym-occupancy-backend/internal/mw"
	"gym-occupancy-backend/internal/scraper"
)

// abortWithError maps err to a status code and writes the standard error body.
// Upstream URLs and raw error text are logged, not returned.
func abortWithError(c *gin.Context, message string, err error) {
	log.Printf("%s: %v", message, err)
	mw.NoStore(c)

	status, details := classify(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message, "details": details})
}

func classify(err error) (int, string) {
	var upstream *scraper.UpstreamError
	hasUpstream := errors.As(err, &upstream)

	switch {
	case errors.Is(err, scraper.ErrUpstreamTimeout):
		if hasUpstream {
			return http.StatusGatewayTimeout, fmt.Sprintf("%s did not respond in time", upstream.Provider)
		}
		return http.StatusGatewayTimeout, "upstream did not respond in time"
	case errors.Is(err, scraper.ErrUpstreamUnavailable):
		if hasUpstream && upstream.StatusCode != 0 {
			return http.StatusBadGateway, fmt.Sprintf("%s responded with status %d", upstream.Provider, upstream.StatusCode)
		}
		if hasUpstream {
			return http.StatusBadGateway, fmt.Sprintf("%s is unreachable", upstream.Provider)
		}
		return http.StatusBadGateway, "upstream is unreachable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func badRequest(c *gin.Context, message, details string) {
	mw.NoStore(c)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "details": details})
}

func notFound(c *gin.Context) {
	mw.NoStore(c)
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found", "details": c.Request.URL.Path})
}

// recoverWithJSON answers a recovered panic with the standard error body. gin
// has already logged the panic and its stack.
func recoverWithJSON(c *gin.Context, recovered any) {
	mw.NoStore(c)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": "internal error"})
}
