package mailer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/blancosphere/streamvault/internal/app/service/eventlog"
	"github.com/blancosphere/streamvault/internal/platform/mail"
	cfgpkg "github.com/blancosphere/streamvault/pkg/config"
	"github.com/blancosphere/streamvault/pkg/logctx"
	"github.com/blancosphere/streamvault/pkg/types"
)

// interSendDelay throttles sequential multi-device sends to stay under the
// email provider's rate limit.
const interSendDelay = 500 * time.Millisecond

// DeviceEmailRequest describes one activation's worth of setup emails.
type DeviceEmailRequest struct {
	CustomerID string
	To         string
	FirstName  string
	Username   string
	Password   string
	Region     types.Region
	Length     types.SubscriptionLength
	Devices    []types.DeviceType
	IsRenewal  bool
}

// SendReport counts per-device outcomes; partial failure is tolerated.
type SendReport struct {
	Sent   int
	Failed int
}

// Manager renders and delivers customer notifications.
type Manager interface {
	SendDeviceEmails(ctx context.Context, req *DeviceEmailRequest) *SendReport
	SendPaymentFailureNotice(ctx context.Context, to string) error
}

type Service struct {
	sender mail.Sender
	events *eventlog.Service
	cfg    *cfgpkg.Config
	log    *zap.SugaredLogger
	now    func() time.Time
	sleep  func(time.Duration)
}

func NewService(sender mail.Sender, events *eventlog.Service, cfg *cfgpkg.Config, log *zap.SugaredLogger) Manager {
	return &Service{
		sender: sender,
		events: events,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// SendDeviceEmails sends one device-specific setup email per selected
// device. One device's failure does not abort the rest; outcomes are
// aggregated into the report and the event log.
func (s *Service) SendDeviceEmails(ctx context.Context, req *DeviceEmailRequest) *SendReport {
	report := &SendReport{}
	for i, device := range req.Devices {
		subject := "Welcome to Blancosphere - " + device.DisplayName() + " Setup"
		if req.IsRenewal {
			subject = "Your IPTV Subscription Renewed - " + device.DisplayName() + " Setup"
		}

		html, err := RenderDeviceEmail(RenderInput{
			Device:       device,
			Username:     req.Username,
			Password:     req.Password,
			Region:       req.Region,
			Length:       req.Length,
			IsRenewal:    req.IsRenewal,
			PortalURL:    s.cfg.Mail.PortalURL,
			FirstName:    req.FirstName,
			ServerDomain: s.cfg.Server.Domain,
			Now:          s.now(),
		})
		if err == nil {
			err = s.sender.Send(ctx, req.To, subject, html)
		}

		if err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("device email failed",
				"device", device, "customer_id", req.CustomerID, "error", err.Error())
			s.events.Log(ctx, "email_failed", map[string]any{
				"device_types": types.DeviceTypeStrings(req.Devices),
				"customer_id":  req.CustomerID,
				"user_email":   req.To,
				"error":        err.Error(),
			})
			report.Failed++
			continue
		}

		s.events.Log(ctx, "email_sent", map[string]any{
			"device_types": types.DeviceTypeStrings(req.Devices),
			"customer_id":  req.CustomerID,
			"user_email":   req.To,
			"is_renewal":   req.IsRenewal,
		})
		report.Sent++

		if len(req.Devices) > 1 && i < len(req.Devices)-1 {
			s.sleep(interSendDelay)
		}
	}

	s.events.Log(ctx, "multi_device_email_complete", map[string]any{
		"customer_id":   req.CustomerID,
		"total_devices": len(req.Devices),
		"success_count": report.Sent,
		"failure_count": report.Failed,
	})
	return report
}

func (s *Service) SendPaymentFailureNotice(ctx context.Context, to string) error {
	return s.sender.Send(ctx, to, "⚠️ Payment Failed", RenderPaymentFailureNotice())
}
