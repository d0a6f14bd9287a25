package domain

import "time"

// SystemSettings is the single-row site configuration edited in the back office
type SystemSettings struct {
	ID              string    `json:"id"`
	SiteName        string    `json:"siteName"`
	SiteDescription string    `json:"siteDescription"`
	SiteKeywords    string    `json:"siteKeywords"`
	FooterText      string    `json:"footerText"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SettingsUpdate carries the writable settings fields; nil leaves a field unchanged
type SettingsUpdate struct {
	SiteName        *string `json:"siteName"`
	SiteDescription *string `json:"siteDescription"`
	SiteKeywords    *string `json:"siteKeywords"`
	FooterText      *string `json:"footerText"`
}

// DatabaseInfo describes the configured store without credentials
type DatabaseInfo struct {
	Type     string `json:"type"`
	Status   string `json:"status"` // connected | error
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	Username string `json:"username,omitempty"`
}
