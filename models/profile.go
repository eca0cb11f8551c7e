package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a profile can hold. A freshly provisioned profile has no role until
// onboarding completes.
const (
	RoleCreator = "creator"
	RoleBrand   = "brand"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	return role == RoleCreator || role == RoleBrand
}

// Profile is the identity row behind every caller. It is lazily inserted the
// first time the auth provider hands us a user id we have not seen.
type Profile struct {
	UserID      string  `gorm:"primaryKey" json:"user_id"`
	Email       string  `gorm:"index" json:"email,omitempty"`
	Role        *string `json:"role"`
	DisplayName *string `json:"display_name"`

	// Social handles from the creator settings form.
	InstagramHandle *string `json:"instagram_handle,omitempty"`
	TiktokHandle    *string `json:"tiktok_handle,omitempty"`
	YoutubeHandle   *string `json:"youtube_handle,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// HasRole reports whether the profile holds one of the given roles. Admins
// pass every gate.
func (p *Profile) HasRole(roles ...string) bool {
	if p.Role == nil {
		return false
	}
	if *p.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if *p.Role == r {
			return true
		}
	}
	return false
}

// Brand holds the business details behind a brand profile, provisioned lazily
// when a user picks the brand role.
type Brand struct {
	UserID        string    `gorm:"primaryKey" json:"user_id"`
	BusinessName  string    `gorm:"not null" json:"business_name"`
	BusinessEmail string    `gorm:"not null" json:"business_email"`
	Website       string    `json:"website"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
