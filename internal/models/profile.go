package models

import "time"

// Preferences holds the user's app settings that travel with the profile.
type Preferences struct {
	PartnerName   string `json:"partner_name,omitempty"`
	Haptics       bool   `json:"haptics"`
	Notifications bool   `json:"notifications"`
}

// UserProfile is the per-user document in the remote store and the local
// cache. FreeActionsUsedToday is only meaningful while DayKey equals the
// current day key; a mismatch means the counter is stale and reads as 0.
type UserProfile struct {
	OwnerID              string      `json:"owner_id"`
	CreatedAt            time.Time   `json:"created_at"`
	HasUnlimitedAccess   bool        `json:"has_unlimited_access"`
	FreeActionsUsedToday int         `json:"free_actions_used_today"`
	DayKey               string      `json:"day_key"`
	Preferences          Preferences `json:"preferences"`
}

// UsedFor returns the consumed counter normalized against dayKey: the stored
// value when the profile's day key matches, 0 otherwise. Normalization is
// read-side only; nothing is persisted here.
func (p *UserProfile) UsedFor(dayKey string) int {
	if p == nil || p.DayKey != dayKey {
		return 0
	}
	return p.FreeActionsUsedToday
}
