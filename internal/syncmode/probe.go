package syncmode

import (
	"os"
	"strings"
)

var mobileMarkers = []string{"android", "iphone", "ipad", "ipod", "mobile"}

func isMobileUserAgent(ua string) bool {
	ua = strings.ToLower(ua)
	for _, m := range mobileMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

// OSProbe reads the runtime environment of a headless/CLI process. The
// desktop shell advertises itself through PHOTOVAULT_DESKTOP_BRIDGE; display
// mode and user agent arrive the same way when the engine is embedded in a
// webview host.
type OSProbe struct{}

func NewOSProbe() *OSProbe { return &OSProbe{} }

func (o *OSProbe) HasDesktopBridge() bool {
	return os.Getenv("PHOTOVAULT_DESKTOP_BRIDGE") != ""
}

func (o *OSProbe) IsStandaloneDisplay() bool {
	return os.Getenv("PHOTOVAULT_DISPLAY_MODE") == "standalone"
}

func (o *OSProbe) UserAgent() string {
	return os.Getenv("PHOTOVAULT_USER_AGENT")
}

// StaticProbe is a fixed-answer probe for tests and embedders that already
// know their environment.
type StaticProbe struct {
	DesktopBridge bool
	Standalone    bool
	Agent         string
}

func (s StaticProbe) HasDesktopBridge() bool    { return s.DesktopBridge }
func (s StaticProbe) IsStandaloneDisplay() bool { return s.Standalone }
func (s StaticProbe) UserAgent() string         { return s.Agent }
