package mailer

import "github.com/blancosphere/streamvault/pkg/types"

// deviceContent holds the per-device setup steps and tip interpolated into
// the shared email shell.
type deviceContent struct {
	Steps []string
	Tip   string
}

var deviceContents = map[types.DeviceType]deviceContent{
	types.DeviceSmartTV: {
		Steps: []string{
			"Press the Home button on your remote",
			"Navigate to the app store on your TV (Samsung Apps, LG Content Store, etc.)",
			`Search for and install the "Smart IPTV" app`,
			"Open the Smart IPTV app",
			"Navigate to Settings > Configuration",
			"Enter your M3U URL or scan the QR code provided above",
			"Save your settings and restart the app",
		},
		Tip: "For the best streaming experience on your Smart TV, connect directly to your router with an Ethernet cable instead of using Wi-Fi for more stable streaming.",
	},
	types.DeviceFireStick: {
		Steps: []string{
			`From your Fire Stick home screen, search for and install the "Downloader" app`,
			"Open the Downloader app and enter: bit.ly/iptv-player",
			"Follow the prompts to install the IPTV player",
			"Open the newly installed IPTV player",
			`Select "Add Playlist" then "Add M3U URL"`,
			"Enter the playlist URL shown above or scan the QR code",
			"Save and enjoy your content",
		},
		Tip: "If playback stutters, lower the buffer size in the player settings; Fire Stick devices have limited memory.",
	},
	types.DeviceAndroidBox: {
		Steps: []string{
			"Open the Google Play Store on your Android Box",
			`Search for and install "IPTV Smarters Pro" or "TiviMate"`,
			"Open the installed app",
			`Select "Add Playlist" or "Add New Playlist"`,
			`Choose "Add M3U URL" or "Add URL"`,
			"Enter the playlist URL shown above",
			`Name your playlist (e.g., "My IPTV") and save`,
		},
		Tip: "For best performance, connect your Android Box via Ethernet instead of Wi-Fi if possible.",
	},
	types.DeviceIOS: {
		Steps: []string{
			`Install "IPTV Smarters Pro" from the App Store`,
			"Open the IPTV Smarters Pro app",
			`Tap on "Add New User"`,
			"Enter a name for your playlist",
			`Select "M3U URL" as input type`,
			"Enter the playlist URL shown above or scan the QR code",
			`Tap "Add User" to save; your channels will now load`,
		},
		Tip: "Enable AirPlay in the player settings to stream directly to an Apple TV on the same network.",
	},
	types.DeviceAndroidPhone: {
		Steps: []string{
			`Install "IPTV Smarters Pro" from Google Play Store`,
			`Open the app and tap "Add User"`,
			"Enter a name for your profile",
			`Choose "M3U URL" for playlist type`,
			"Enter the playlist URL shown above or scan the QR code",
			"Save your configuration; your channels will load automatically",
		},
		Tip: "For casting to a TV, make sure both devices are on the same Wi-Fi network.",
	},
	types.DeviceWebBrowser: {
		Steps: []string{
			"Open your preferred web browser (Chrome, Firefox, Safari, etc.)",
			"Visit: http://watch.blancosphere.com",
			"Enter your username and password",
			`Click "Sign In"`,
			"Use the navigation menu to browse channels by category",
		},
		Tip: "Bookmark the page for easy access in the future.",
	},
	types.DeviceMagBox: {
		Steps: []string{
			"Power on your MAG box",
			"Go to the Settings menu",
			`Select "System Settings"`,
			`Navigate to "Servers" or "Portal Settings"`,
			"Enter the portal URL provided with your credentials",
			"If prompted, restart your MAG box",
			"Your channels should now load automatically",
		},
		Tip: "Your MAG box is registered in our system. If you change your MAG box, please contact support.",
	},
	types.DeviceOther: {
		Steps: []string{
			"Install any IPTV player that supports M3U playlists on your device",
			`Choose "Add Playlist" or the equivalent option`,
			"Enter the playlist URL shown above or scan the QR code",
			"Save and start watching",
		},
		Tip: "Most players work best with the M3U URL exactly as provided; avoid retyping it by hand.",
	},
}

// contentFor returns the device's setup content, falling back to the
// generic variant for unrecognized tags.
func contentFor(d types.DeviceType) deviceContent {
	if c, ok := deviceContents[d]; ok {
		return c
	}
	return deviceContents[types.DeviceOther]
}

// Instructions is the standalone setup-guide payload served outside the
// email flow.
type Instructions struct {
	Device      types.DeviceType `json:"device"`
	DisplayName string           `json:"display_name"`
	Emoji       string           `json:"emoji"`
	Steps       []string         `json:"steps"`
	Tip         string           `json:"tip"`
}

func InstructionsFor(d types.DeviceType) Instructions {
	content := contentFor(d)
	return Instructions{
		Device:      d,
		DisplayName: d.DisplayName(),
		Emoji:       d.Emoji(),
		Steps:       content.Steps,
		Tip:         content.Tip,
	}
}
