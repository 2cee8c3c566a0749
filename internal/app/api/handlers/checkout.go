package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blancosphere/streamvault/internal/app/service/checkout"
	"github.com/blancosphere/streamvault/pkg/response"
	"github.com/blancosphere/streamvault/pkg/types"
)

// ApiCreateCheckout accepts the storefront's order form and returns the
// hosted payment page URL.
func ApiCreateCheckout(mgr checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Err(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		res, err := mgr.CreateCheckout(c.Request.Context(), &req)
		if err != nil {
			var ve *types.ValidationError
			if errors.As(err, &ve) {
				response.Err(c, http.StatusBadRequest, ve.Msg)
				return
			}
			response.Err(c, http.StatusInternalServerError, "Failed to create Stripe checkout session")
			return
		}
		response.JSON(c, http.StatusOK, res)
	}
}

func RegisterCheckoutRoutes(r gin.IRouter, mgr checkout.Manager) {
	r.POST("/create-checkout", ApiCreateCheckout(mgr))
}
