package ticktick

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Values mirrored from the TickTick web client; the v2 API rate-limits
// signon requests that do not look like a browser.
const (
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
	webAppVersion = 6430
)

// HeaderStrategy produces the session headers attached to every v2 request.
// The concrete strategy is chosen once at client construction (feature
// probe) and injected, never swapped at runtime.
type HeaderStrategy interface {
	Headers() map[string]string
}

// browserProfile emits the full browser-shaped header set, including the
// Origin/Referer pair the signon endpoint requires.
type browserProfile struct {
	host     func() string
	deviceID string
}

func (b *browserProfile) Headers() map[string]string {
	origin := "https://" + b.host()
	return map[string]string{
		"User-Agent": browserUserAgent,
		"Origin":     origin,
		"Referer":    origin + "/",
		"X-Device":   b.deviceHeader(),
	}
}

func (b *browserProfile) deviceHeader() string {
	payload, _ := json.Marshal(map[string]any{
		"platform":  "web",
		"os":        "macOS 10.15.7",
		"device":    "Chrome 120.0.0.0",
		"name":      "",
		"version":   webAppVersion,
		"id":        b.deviceID,
		"channel":   "website",
		"campaign":  "",
		"websocket": "",
	})
	return string(payload)
}

// EnsureBrowserHeaders probes a strategy and returns it unchanged when it
// already emits the Origin/Referer pair; otherwise it returns the
// browser-profile replacement. hostFn is evaluated per request so a host
// switch mid-session stays consistent.
func EnsureBrowserHeaders(s HeaderStrategy, hostFn func() string, deviceID string) HeaderStrategy {
	if s != nil {
		headers := s.Headers()
		if _, hasOrigin := headers["Origin"]; hasOrigin {
			if _, hasReferer := headers["Referer"]; hasReferer {
				return s
			}
		}
	}
	if deviceID == "" {
		deviceID = NewDeviceID()
	}
	return &browserProfile{host: hostFn, deviceID: deviceID}
}

// NewDeviceID generates the 24-hex-character device identifier the web
// client sends in its X-Device header.
func NewDeviceID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:24]
}
