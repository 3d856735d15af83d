// Package device turns a User-Agent into the short label recorded on
// captured evidence and the decision trail.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknown = "unknown device"

// Label returns "<browser> on <os>", e.g. "Chrome on Android".
func Label(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknown
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	osName := ua.OSInfo().Name
	if ua.Bot() {
		return "bot " + browser
	}
	switch {
	case browser != "" && osName != "":
		return browser + " on " + osName
	case browser != "":
		return browser
	case osName != "":
		return osName
	}
	return unknown
}

// IsMobile reports whether the agent is a mobile device.
func IsMobile(userAgent string) bool {
	return useragent.New(userAgent).Mobile()
}
