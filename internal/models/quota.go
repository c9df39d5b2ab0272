package models

// QuotaSummary is the derived daily-quota view handed to the UI. It is
// recomputed on every read from the profile, the entitlement override and the
// configured daily limit; it is never persisted.
type QuotaSummary struct {
	HasUnlimitedAccess bool `json:"has_unlimited_access"`
	Limit              int  `json:"limit"`
	Used               int  `json:"used"`
	Remaining          int  `json:"remaining"`
	CanConsume         bool `json:"can_consume"`
}

// ConsumeResult reports the outcome of one quota consumption attempt.
// Success is only ever true after the remote write was confirmed.
type ConsumeResult struct {
	Success   bool `json:"success"`
	Unlimited bool `json:"unlimited"`
	Remaining int  `json:"remaining"`
}

// RemoteConfig is the remotely managed feature configuration.
// DailyFreeLimit < 0 means unlimited and short-circuits all quota arithmetic.
type RemoteConfig struct {
	DailyFreeLimit int `json:"daily_free_limit"`
	MaxCustomFaces int `json:"max_custom_faces"`
}
