package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blancosphere/streamvault/internal/app/service/mailer"
	"github.com/blancosphere/streamvault/pkg/config"
	"github.com/blancosphere/streamvault/pkg/types"
)

// ApiDebugEmail renders a device email with sample data for visual
// inspection. Development aid, admin-key protected.
func ApiDebugEmail(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		pick := func(key, fallback string) string {
			if v := c.Query(key); v != "" {
				return v
			}
			return fallback
		}

		device := types.DeviceType(pick("device_type", string(types.DeviceSmartTV)))
		region := types.Region(pick("region", string(types.RegionNorthAmerica)))
		length := types.SubscriptionLength(pick("subscription_length", string(types.PlanOdyssey)))

		html, err := mailer.RenderDeviceEmail(mailer.RenderInput{
			Device:       device,
			Username:     pick("username", "test_user123"),
			Password:     pick("password", "SecurePass456!"),
			Region:       region,
			Length:       length,
			IsRenewal:    c.Query("is_renewal") == "true",
			PortalURL:    pick("portal_url", cfg.Mail.PortalURL),
			FirstName:    pick("first_name", "Test User"),
			ServerDomain: pick("server_domain", cfg.Server.Domain),
			Now:          time.Now().UTC(),
		})
		if err != nil {
			c.String(http.StatusInternalServerError, "Error generating email template: %s", err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}

func RegisterDebugRoutes(r gin.IRouter, cfg *config.Config) {
	r.GET("/debug/email", ApiDebugEmail(cfg))
}
