package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blancosphere/streamvault/internal/app/service/webhookflow"
	"github.com/blancosphere/streamvault/pkg/response"
)

// ApiStripeWebhook receives billing lifecycle events. The raw body must be
// read unmodified; signature verification covers the exact bytes sent.
func ApiStripeWebhook(proc webhookflow.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		sig := c.GetHeader("stripe-signature")
		if sig == "" {
			response.Err(c, http.StatusBadRequest, "Missing stripe-signature header")
			return
		}

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Err(c, http.StatusBadRequest, "Failed to read request body")
			return
		}

		if err := proc.Process(c.Request.Context(), payload, sig); err != nil {
			response.Err(c, http.StatusForbidden, "Webhook signature verification failed")
			return
		}
		c.String(http.StatusOK, "Webhook received")
	}
}

func RegisterWebhookRoutes(r gin.IRouter, proc webhookflow.Processor) {
	r.POST("/webhook", ApiStripeWebhook(proc))
}
