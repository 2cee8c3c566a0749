package mailer

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/blancosphere/streamvault/pkg/types"
)

// RenderInput carries everything the email shell interpolates. Rendering is
// pure: the same input (including Now) produces byte-identical HTML.
type RenderInput struct {
	Device       types.DeviceType
	Username     string
	Password     string
	Region       types.Region
	Length       types.SubscriptionLength
	IsRenewal    bool
	PortalURL    string
	FirstName    string
	ServerDomain string
	Now          time.Time
}

// M3UURL builds the playlist URL the player apps consume. ExtractCredentials
// in the panel package is the inverse of this format.
func M3UURL(serverDomain, username, password string) string {
	return fmt.Sprintf("http://%s/get.php?username=%s&password=%s&type=m3u_plus&output=ts",
		serverDomain, url.QueryEscape(username), url.QueryEscape(password))
}

func qrCodeURL(m3u string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?data=" + url.QueryEscape(m3u) + "&size=150x150"
}

type templateData struct {
	HeaderTitle   string
	DeviceName    string
	DeviceEmoji   string
	Greeting      string
	IntroText     string
	Username      string
	Password      string
	RegionName    string
	RegionEmoji   string
	Subscription  string
	M3UURL        string
	QRCodeURL     string
	Steps         []string
	Tip           string
	PortalURL     string
	SentOn        string
	Year          int
}

// RenderDeviceEmail renders the device-specific setup email.
func RenderDeviceEmail(in RenderInput) (string, error) {
	content := contentFor(in.Device)
	m3u := M3UURL(in.ServerDomain, in.Username, in.Password)

	greeting := "Hello,"
	if in.FirstName != "" {
		greeting = "Hello " + in.FirstName + ","
	}
	headerTitle := "Premium Access Activated"
	intro := "Your premium subscription has been successfully activated. You now have unlimited access to thousands of live channels, on-demand content, and exclusive premium features."
	if in.IsRenewal {
		headerTitle = "Subscription Renewed"
		intro = "Your premium subscription has been successfully renewed. You continue to have unlimited access to thousands of channels and on-demand content."
	}

	expiry := in.Length.ExpiryFrom(in.Now)
	data := templateData{
		HeaderTitle:  headerTitle,
		DeviceName:   in.Device.DisplayName(),
		DeviceEmoji:  in.Device.Emoji(),
		Greeting:     greeting,
		IntroText:    intro,
		Username:     in.Username,
		Password:     in.Password,
		RegionName:   in.Region.DisplayName(),
		RegionEmoji:  in.Region.Emoji(),
		Subscription: fmt.Sprintf("%d months (Expires: %s)", in.Length.Months(), expiry.Format("January 2, 2006")),
		M3UURL:       m3u,
		QRCodeURL:    qrCodeURL(m3u),
		Steps:        content.Steps,
		Tip:          content.Tip,
		PortalURL:    in.PortalURL,
		SentOn:       in.Now.Format("Monday, January 2, 2006"),
		Year:         in.Now.Year(),
	}

	var sb strings.Builder
	if err := deviceEmailTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", in.Device, err)
	}
	return sb.String(), nil
}

// RenderPaymentFailureNotice renders the short notice sent when a recurring
// payment fails.
func RenderPaymentFailureNotice() string {
	return `<h1>Payment Failed</h1>
<p>We couldn't process your payment. Please update your billing info as soon as possible.</p>
<p>Your subscription may be paused in 7 days if not resolved.</p>`
}

var deviceEmailTmpl = template.Must(template.New("device_email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="color-scheme" content="light dark">
  <title>Your {{.DeviceName}} Access Activated</title>
  <style>
    body { font-family: 'Inter', sans-serif; line-height: 1.6; color: #2B3241; background-color: #F1F5F9; margin: 0; padding: 0; }
    .email-container { max-width: 640px; margin: 0 auto; background: #FFFFFF; border-radius: 24px; overflow: hidden; box-shadow: 0 20px 40px rgba(0,0,0,0.08); }
    .header { background: linear-gradient(125deg, #0F172A 0%, #1E293B 100%); padding: 60px 0 80px; text-align: center; color: white; }
    .header-title { font-size: 28px; font-weight: 700; margin: 0; padding: 0 20px; letter-spacing: -0.5px; }
    .status-badge { display: inline-block; background: rgba(56,189,248,0.2); border: 1px solid rgba(56,189,248,0.3); color: #38BDF8; font-size: 14px; font-weight: 600; padding: 8px 16px; border-radius: 100px; margin-top: 20px; }
    .content { padding: 40px 30px; }
    .greeting { font-size: 18px; font-weight: 600; color: #0F172A; margin: 0 0 20px; }
    .intro-text { font-size: 16px; color: #475569; margin-bottom: 30px; }
    .section-title { font-size: 18px; font-weight: 600; color: #0F172A; margin-bottom: 20px; }
    .credential-card { background: #F8FAFC; border: 1px solid #E2E8F0; border-radius: 12px; padding: 16px 20px; margin-bottom: 12px; }
    .credential-label { font-size: 13px; color: #64748B; text-transform: uppercase; }
    .credential-value { font-size: 16px; font-weight: 600; color: #0F172A; word-break: break-all; }
    .qr-container { text-align: center; background: #F8FAFC; border: 1px solid #E2E8F0; border-radius: 12px; padding: 24px; margin: 20px 0; }
    .qr-caption { font-size: 13px; color: #64748B; margin-top: 10px; }
    .m3u-url { font-size: 12px; color: #64748B; background: #F1F5F9; border-radius: 8px; padding: 10px; margin-top: 12px; word-break: break-all; }
    .steps-list { padding-left: 20px; color: #334155; }
    .steps-list li { margin-bottom: 10px; }
    .tip-box { background: rgba(56,189,248,0.1); border-left: 4px solid #38BDF8; border-radius: 8px; padding: 14px 18px; color: #334155; margin: 20px 0; }
    .warning-box { background: #FFFBEB; border-left: 4px solid #F59E0B; border-radius: 8px; padding: 14px 18px; color: #78350F; margin: 20px 0; }
    .action-button { display: inline-block; background: #0EA5E9; color: #FFFFFF; font-weight: 600; padding: 14px 28px; border-radius: 10px; text-decoration: none; }
    .closing { border-top: 1px solid #E2E8F0; margin-top: 30px; padding-top: 20px; color: #64748B; }
    .signature { font-weight: 600; color: #0F172A; }
    .footer { background: #0F172A; color: #94A3B8; text-align: center; padding: 30px 20px; font-size: 13px; }
    .footer a { color: #38BDF8; }
  </style>
</head>
<body>
  <div class="email-container">
    <div class="header">
      <h1 class="header-title">{{.HeaderTitle}}</h1>
      <p>Your gateway to unlimited entertainment</p>
      <div class="status-badge">Active &bull; Premium {{.DeviceName}} Access</div>
    </div>
    <div class="content">
      <p class="greeting">{{.Greeting}}</p>
      <p class="intro-text">{{.IntroText}}</p>

      <div class="section-title">🔐 Access Credentials</div>
      <div class="credential-card">
        <div class="credential-label">👤 Username</div>
        <div class="credential-value">{{.Username}}</div>
      </div>
      <div class="credential-card">
        <div class="credential-label">🔑 Password</div>
        <div class="credential-value">{{.Password}}</div>
      </div>
      <div class="credential-card">
        <div class="credential-label">{{.RegionEmoji}} Region</div>
        <div class="credential-value">{{.RegionName}}</div>
      </div>
      <div class="credential-card">
        <div class="credential-label">⏳ Subscription</div>
        <div class="credential-value">{{.Subscription}}</div>
      </div>

      <div class="qr-container">
        <img src="{{.QRCodeURL}}" alt="QR Code" width="150" height="150">
        <div class="qr-caption">Scan to automatically connect on mobile devices</div>
        <div class="m3u-url">{{.M3UURL}}</div>
      </div>

      <div class="section-title">{{.DeviceEmoji}} Setup Instructions for {{.DeviceName}}</div>
      <ol class="steps-list">
{{- range .Steps}}
        <li>{{.}}</li>
{{- end}}
      </ol>
      <div class="tip-box"><strong>Pro Tip:</strong> {{.Tip}}</div>

      <div class="warning-box"><strong>Important:</strong> For your security, never share your credentials with anyone. Your subscription is for personal use only and sharing access may result in account termination.</div>
{{- if .PortalURL}}
      <p style="text-align: center;"><a href="{{.PortalURL}}" class="action-button">Access Your Customer Portal</a></p>
{{- end}}
      <div class="closing">
        <p>If you have any questions or need assistance, our support team is available 24/7. Simply reply to this email.</p>
        <p class="signature">The Blancosphere Team</p>
      </div>
    </div>
    <div class="footer">
      Need help? Email us at <a href="mailto:support@blancosphere.com">support@blancosphere.com</a><br>
      &copy; {{.Year}} Blancosphere. All rights reserved. Sent on {{.SentOn}}.
    </div>
  </div>
</body>
</html>
`))
