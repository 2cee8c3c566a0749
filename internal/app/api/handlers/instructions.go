package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/blancosphere/streamvault/internal/app/service/mailer"
	"github.com/blancosphere/streamvault/pkg/response"
	"github.com/blancosphere/streamvault/pkg/types"
)

// ApiDeviceInstructions serves the static setup guides, one device or all
// of them.
func ApiDeviceInstructions() gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := c.Query("device_types")
		if requested == "" {
			all := make(map[types.DeviceType]mailer.Instructions, len(types.AllDeviceTypes))
			for _, d := range types.AllDeviceTypes {
				all[d] = mailer.InstructionsFor(d)
			}
			response.JSON(c, http.StatusOK, gin.H{
				"status":            "success",
				"available_devices": lo.Map(types.AllDeviceTypes, func(d types.DeviceType, _ int) string { return string(d) }),
				"instructions":      all,
			})
			return
		}

		device := types.DeviceType(requested)
		if !device.Valid() {
			response.Err(c, http.StatusNotFound, "Unknown device type: "+requested)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{
			"status":       "success",
			"device_types": device,
			"instructions": mailer.InstructionsFor(device),
		})
	}
}

func RegisterInstructionRoutes(r gin.IRouter) {
	r.GET("/device-instructions", ApiDeviceInstructions())
}
