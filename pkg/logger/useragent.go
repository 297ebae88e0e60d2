package logger

import (
	"strings"

	"github.com/avct/uasurfer"
)

// UserAgentInfo is a coarse classification of a client's User-Agent header
type UserAgentInfo struct {
	Browser string
	OS      string
	Device  string
}

// ClassifyUserAgent labels the browser, OS and device of a User-Agent string.
// Attack tooling usually shows up as an unknown browser on an unknown device.
func ClassifyUserAgent(userAgent string) UserAgentInfo {
	if strings.TrimSpace(userAgent) == "" {
		return UserAgentInfo{Browser: "none", OS: "none", Device: "none"}
	}

	ua := uasurfer.Parse(userAgent)

	device := "unknown"
	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		device = "computer"
	case uasurfer.DeviceTablet:
		device = "tablet"
	case uasurfer.DevicePhone:
		device = "phone"
	case uasurfer.DeviceConsole:
		device = "console"
	case uasurfer.DeviceWearable:
		device = "wearable"
	case uasurfer.DeviceTV:
		device = "tv"
	}

	return UserAgentInfo{
		Browser: strings.ToLower(strings.TrimPrefix(ua.Browser.Name.String(), "Browser")),
		OS:      strings.ToLower(strings.TrimPrefix(ua.OS.Name.String(), "OS")),
		Device:  device,
	}
}
