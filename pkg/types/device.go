package types

import "strings"

type DeviceType string

const (
	DeviceSmartTV      DeviceType = "smart_tv"
	DeviceFireStick    DeviceType = "fire_stick"
	DeviceAndroidBox   DeviceType = "android_box"
	DeviceIOS          DeviceType = "ios"
	DeviceAndroidPhone DeviceType = "android_phone"
	DeviceWebBrowser   DeviceType = "web_browser"
	DeviceMagBox       DeviceType = "mag_box"
	DeviceOther        DeviceType = "other"
)

// AllDeviceTypes is the closed set of device tags a customer may select.
// Validation and template dispatch are both keyed off this set.
var AllDeviceTypes = []DeviceType{
	DeviceSmartTV,
	DeviceFireStick,
	DeviceAndroidBox,
	DeviceIOS,
	DeviceAndroidPhone,
	DeviceWebBrowser,
	DeviceMagBox,
	DeviceOther,
}

func (d DeviceType) Valid() bool {
	switch d {
	case DeviceSmartTV, DeviceFireStick, DeviceAndroidBox, DeviceIOS,
		DeviceAndroidPhone, DeviceWebBrowser, DeviceMagBox, DeviceOther:
		return true
	}
	return false
}

// DisplayName formats a device tag for human-facing text, e.g.
// "fire_stick" -> "Fire Stick".
func (d DeviceType) DisplayName() string {
	parts := strings.Split(string(d), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

var deviceEmojis = map[DeviceType]string{
	DeviceIOS:          "🍎",
	DeviceFireStick:    "🔥",
	DeviceAndroidBox:   "📦",
	DeviceSmartTV:      "📺",
	DeviceAndroidPhone: "📲",
	DeviceWebBrowser:   "🌐",
	DeviceMagBox:       "🖥",
	DeviceOther:        "✨",
}

func (d DeviceType) Emoji() string {
	if e, ok := deviceEmojis[d]; ok {
		return e
	}
	return "📱"
}

// ParseDeviceTypes splits a comma-joined device tag string, trimming
// whitespace and dropping empty entries. It does not validate the tags.
func ParseDeviceTypes(s string) []DeviceType {
	if s == "" {
		return nil
	}
	var out []DeviceType
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, DeviceType(part))
	}
	return out
}

// ValidateDeviceTypes checks that the selection is non-empty and every tag
// belongs to the closed device set. It returns a human-readable message for
// the first failure, or "" when the selection is acceptable.
func ValidateDeviceTypes(devices []DeviceType) string {
	if len(devices) == 0 {
		return "At least one device type must be selected"
	}
	var unsupported []string
	for _, d := range devices {
		if !d.Valid() {
			unsupported = append(unsupported, string(d))
		}
	}
	if len(unsupported) > 0 {
		return "Unsupported device type(s): " + strings.Join(unsupported, ", ")
	}
	return ""
}

func DeviceTypeStrings(devices []DeviceType) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, string(d))
	}
	return out
}
