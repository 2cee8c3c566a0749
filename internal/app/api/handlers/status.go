package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blancosphere/streamvault/internal/app/service/account"
	"github.com/blancosphere/streamvault/internal/platform/kv"
	"github.com/blancosphere/streamvault/internal/platform/payment"
	"github.com/blancosphere/streamvault/pkg/response"
	"github.com/blancosphere/streamvault/pkg/types"
)

// ApiCheckStatus returns a customer's subscription record with the
// password stripped.
func ApiCheckStatus(accounts account.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")
		if customerID == "" {
			response.Err(c, http.StatusBadRequest, "Missing customer_id parameter")
			return
		}

		record, err := accounts.Get(c.Request.Context(), customerID)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				response.JSON(c, http.StatusOK, gin.H{
					"status":  "not_found",
					"message": "No subscription found for this customer ID",
				})
				return
			}
			response.Err(c, http.StatusInternalServerError, "Error checking status")
			return
		}
		response.JSON(c, http.StatusOK, gin.H{
			"status":       "success",
			"subscription": record.Redacted(),
		})
	}
}

// ApiLookupSession recovers the order selection stashed in a payment
// session's metadata, for storefronts that lost the redirect parameters.
func ApiLookupSession(payments payment.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("id")
		if sessionID == "" {
			response.Err(c, http.StatusBadRequest, "Missing session ID")
			return
		}

		session, err := payments.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			response.Err(c, http.StatusInternalServerError, "Failed to lookup session")
			return
		}

		region := session.Metadata["region"]
		if region == "" {
			region = string(types.RegionGlobal)
		}
		length := session.Metadata["subscriptionLength"]
		if length == "" {
			length = string(types.PlanLaunch)
		}
		devices := types.ParseDeviceTypes(strings.TrimSpace(session.Metadata["device_types"]))
		if len(devices) == 0 {
			devices = []types.DeviceType{types.DeviceOther}
		}

		response.JSON(c, http.StatusOK, gin.H{
			"email":              session.CustomerEmail,
			"region":             region,
			"subscriptionLength": length,
			"deviceTypes":        devices,
			"customerId":         session.Metadata["customer_id"],
			"sessionId":          session.ID,
			"subscriptionId":     session.SubscriptionID,
		})
	}
}

func RegisterStatusRoutes(r gin.IRouter, accounts account.Manager) {
	r.GET("/check-status", ApiCheckStatus(accounts))
}

// RegisterSessionLookupRoutes is registered unauthenticated: the storefront
// calls it right after the payment redirect, before any admin is involved.
func RegisterSessionLookupRoutes(r gin.IRouter, payments payment.Client) {
	r.GET("/lookup-session", ApiLookupSession(payments))
}
