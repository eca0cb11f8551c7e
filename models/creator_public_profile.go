package models

import "time"

// MaxPortfolioItems caps the portfolio section of a public profile.
const MaxPortfolioItems = 3

// PlatformEntry is one social platform row on a public profile.
type PlatformEntry struct {
	Platform  string `json:"platform"`
	Handle    string `json:"handle"`
	Followers *int64 `json:"followers"`
	Verified  bool   `json:"verified,omitempty"`
}

// PortfolioItem is a single showcased piece of work.
type PortfolioItem struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	ThumbURL string `json:"thumb_url"`
	LinkURL  string `json:"link_url"`
}

// CreatorStats are the numeric KPIs a creator chooses to surface.
type CreatorStats struct {
	AvgViews     *int64   `json:"avg_views,omitempty"`
	Engagement   *float64 `json:"engagement,omitempty"`
	Turnaround   *int     `json:"turnaround,omitempty"`
	UGCDelivered *int64   `json:"ugc_delivered,omitempty"`
}

// CreatorPrerequisites are the conditions a creator places on collaborations.
type CreatorPrerequisites struct {
	MinBudgetAUD       *int64   `json:"min_budget_aud"`
	PaidOnly           bool     `json:"paid_only"`
	ExcludedCategories []string `json:"excluded_categories,omitempty"`
}

// CreatorAudience describes who the creator reaches.
type CreatorAudience struct {
	AgeRange string   `json:"age_range,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Regions  []string `json:"regions,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// CreatorPublicProfile is the public-facing document behind /c/:handle.
// Created lazily on the owner's first profile visit; mutated only by the
// owning creator.
type CreatorPublicProfile struct {
	UserID      string `gorm:"primaryKey" json:"user_id"`
	Handle      string `gorm:"uniqueIndex;not null" json:"handle"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Headline    string `json:"headline"`
	Bio         string `gorm:"type:text" json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	IsPro       bool   `gorm:"default:false" json:"is_pro"`

	Tags          []string             `gorm:"serializer:json" json:"tags"`
	ContentStyle  []string             `gorm:"serializer:json" json:"content_style"`
	Stats         CreatorStats         `gorm:"serializer:json" json:"stats"`
	Platforms     []PlatformEntry      `gorm:"serializer:json" json:"platforms"`
	Prerequisites CreatorPrerequisites `gorm:"serializer:json" json:"prerequisites"`
	Audience      CreatorAudience      `gorm:"serializer:json" json:"audience"`
	Portfolio     []PortfolioItem      `gorm:"serializer:json" json:"portfolio"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
