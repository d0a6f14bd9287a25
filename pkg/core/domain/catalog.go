package domain

import "time"

// Category groups sites in the public catalog
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Sites       []Site    `json:"sites,omitempty"` // Populated for the public catalog
}

// Site is a cataloged outbound link
type Site struct {
	ID          string     `json:"id"`
	CategoryID  string     `json:"categoryId"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	IconURL     string     `json:"iconUrl,omitempty"`
	IsPublished bool       `json:"isPublished"`
	SortOrder   int        `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// SiteFilter narrows site listings
type SiteFilter struct {
	CategoryID    string
	Search        string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// SiteStats is the dashboard site counter pair
type SiteStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}
