package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"`
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	IsBot      bool   `json:"is_bot"`
}

// ParseUserAgent extracts device information for audit logging
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)

	browser, _ := parser.Browser()
	if browser == "" {
		browser = "Unknown"
	}

	osInfo := parser.OSInfo()
	os := osInfo.Name
	if os == "" {
		os = "Unknown"
	} else if osInfo.Version != "" {
		os = os + " " + osInfo.Version
	}

	deviceType := "desktop"
	if parser.Mobile() {
		deviceType = "mobile"
		if strings.Contains(strings.ToLower(userAgent), "tablet") ||
			strings.Contains(strings.ToLower(userAgent), "ipad") {
			deviceType = "tablet"
		}
	}

	return DeviceInfo{
		DeviceType: deviceType,
		OS:         os,
		Browser:    browser,
		IsBot:      parser.Bot(),
	}
}
