package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blancosphere/streamvault/internal/app/service/activation"
	"github.com/blancosphere/streamvault/internal/app/service/checkout"
	"github.com/blancosphere/streamvault/pkg/response"
	"github.com/blancosphere/streamvault/pkg/types"
)

// ApiActivate handles the post-payment redirect: it redeems the checkout
// token, provisions the line, and reports the outcome to the customer.
func ApiActivate(mgr activation.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &activation.Request{
			SubscriptionLength: c.Query("subscriptionLength"),
			Region:             c.Query("region"),
			CustomerID:         c.Query("customer_id"),
			DeviceTypes:        c.Query("device_types"),
			UserEmail:          c.Query("user_email"),
			Token:              c.Query("checkoutToken"),
		}

		res, err := mgr.Activate(c.Request.Context(), req)
		if err != nil {
			var ve *types.ValidationError
			switch {
			case errors.As(err, &ve):
				response.Err(c, http.StatusBadRequest, ve.Msg)
			case errors.Is(err, checkout.ErrInvalidToken):
				response.Err(c, http.StatusBadRequest, "Invalid or expired checkout token")
			default:
				response.Err(c, http.StatusInternalServerError, "Failed to activate subscription")
			}
			return
		}
		response.JSON(c, http.StatusOK, res)
	}
}

func RegisterActivationRoutes(r gin.IRouter, mgr activation.Manager) {
	r.GET("/activate", ApiActivate(mgr))
}
