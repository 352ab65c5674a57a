package tasklist

import "time"

// DefaultAlertDelay is how long the validation alert stays visible.
const DefaultAlertDelay = 2 * time.Second

// Alert is the transient validation error shown after a blank add. Each Raise
// issues a new token; a scheduled expiry only clears the alert if it carries
// the current token, so an older timer cannot hide a newer alert.
type Alert struct {
	delay  time.Duration
	token  uint64
	active bool
}

// NewAlert returns an idle alert with the given display time.
func NewAlert(delay time.Duration) *Alert {
	if delay <= 0 {
		delay = DefaultAlertDelay
	}
	return &Alert{delay: delay}
}

// Raise shows the alert and returns the token its expiry must carry.
func (a *Alert) Raise() uint64 {
	a.token++
	a.active = true
	return a.token
}

// Expire clears the alert if token is current. It reports whether the alert
// was cleared.
func (a *Alert) Expire(token uint64) bool {
	if !a.active || token != a.token {
		return false
	}
	a.active = false
	return true
}

// Clear hides the alert and invalidates any pending expiry.
func (a *Alert) Clear() {
	if a.active {
		a.token++
	}
	a.active = false
}

// Active reports whether the alert is showing.
func (a *Alert) Active() bool {
	return a.active
}

// Token returns the token of the latest Raise.
func (a *Alert) Token() uint64 {
	return a.token
}

// Delay returns the display time.
func (a *Alert) Delay() time.Duration {
	return a.delay
}
