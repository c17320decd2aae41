package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gym-occupancy-backend/internal/model"
	"gym-occupancy-backend/internal/store"
)

type putSubscriptionRequest struct {
	Endpoint         string `json:"endpoint" binding:"required"`
	P256DH           string `json:"p256dh" binding:"required"`
	Auth             string `json:"auth" binding:"required"`
	ThresholdPercent int    `json:"threshold_percent" binding:"required,gte=1,lte=100"`
}

// pushEnabled answers 503 when no VAPID keys are configured.
func (h *Handler) pushEnabled(c *gin.Context) bool {
	if h.subs == nil || h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Push notifications are disabled",
			"details": "vapid keys are not configured",
		})
		return false
	}
	return true
}

// PutSubscription handles the creation or replacement of a subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	if !h.pushEnabled(c) {
		return
	}

	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid subscription", err.Error())
		return
	}

	subscription := model.PushSubscription{
		Endpoint:         req.Endpoint,
		P256DH:           req.P256DH,
		Auth:             req.Auth,
		ThresholdPercent: req.ThresholdPercent,
	}
	if err := h.subs.SaveSubscription(c.Request.Context(), &subscription); err != nil {
		abortWithError(c, "Failed to save subscription", err)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	if !h.pushEnabled(c) {
		return
	}

	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid subscription", err.Error())
		return
	}

	if err := h.subs.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		abortWithError(c, "Failed to delete subscription", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSubscription handles the retrieval of a subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	if !h.pushEnabled(c) {
		return
	}

	endpoint := c.Query("endpoint")
	if endpoint == "" {
		badRequest(c, "Invalid subscription", "endpoint is required")
		return
	}

	subscription, err := h.subs.GetSubscription(c.Request.Context(), endpoint)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Subscription not found", "details": endpoint})
		return
	}
	if err != nil {
		abortWithError(c, "Failed to load subscription", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"threshold_percent": subscription.ThresholdPercent})
}
