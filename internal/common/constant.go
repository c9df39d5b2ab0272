package common

const (
	// DayKeyLayout is the wall-clock day key format used by the daily quota
	// counter (e.g. "2026-03-14"). A profile counter is only meaningful while
	// its stored day key equals the current one.
	DayKeyLayout = "2006-01-02"

	// APIKeyHeaderName is the HTTP header carrying the document-store API key.
	APIKeyHeaderName = "X-Api-Key"

	// AuthHeaderName carries the bearer ID token on outbound requests.
	AuthHeaderName = "Authorization"
)
