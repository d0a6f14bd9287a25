package domain

import "time"

// Visit represents one outbound click on a cataloged site. Immutable once stored.
type Visit struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"siteId"`
	IPAddress string    `json:"ipAddress,omitempty"` // Empty is stored as NULL
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientMeta is the best-effort request metadata attached to a visit
type ClientMeta struct {
	IP        string
	UserAgent string
}

// DailyBucket is a derived per-day visit count, never persisted
type DailyBucket struct {
	Date  string `json:"date"` // YYYY-MM-DD in the reporting time zone
	Count int64  `json:"count"`
}

// AgentBreakdown groups visits by parsed user agent
type AgentBreakdown struct {
	Browsers map[string]int64 `json:"browsers"`
	OS       map[string]int64 `json:"os"`
	Devices  map[string]int64 `json:"devices"`
}
