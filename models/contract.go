package models

import "time"

// Contract lifecycle statuses. Brands set these directly at creation; anything
// outside the set falls back to draft.
const (
	ContractStatusDraft               = "draft"
	ContractStatusLive                = "live"
	ContractStatusLiveRequiresPayment = "live_requires_payment"
)

// MinContractValueCents is the floor every contract's minimum value is clamped
// to at creation.
const MinContractValueCents int64 = 10000

func NormalizeContractStatus(status string) string {
	switch status {
	case ContractStatusDraft, ContractStatusLive, ContractStatusLiveRequiresPayment:
		return status
	default:
		return ContractStatusDraft
	}
}

// Contract is a brand-authored work brief creators can apply to. Contracts are
// never hard-deleted.
type Contract struct {
	ID              string   `gorm:"primaryKey" json:"id"`
	BrandUserID     string   `gorm:"not null;index" json:"brand_user_id"`
	Title           string   `gorm:"not null" json:"title"`
	Description     string   `gorm:"not null;type:text" json:"description"`
	Status          string   `gorm:"default:'draft';index" json:"status"`
	MinValueCents   int64    `gorm:"not null" json:"min_value_cents"`
	DeliverableType string   `json:"deliverable_type"`
	NicheTags       []string `gorm:"serializer:json" json:"niche_tags"`
	Platforms       []string `gorm:"serializer:json" json:"platforms"`

	IncludedRevisions int  `gorm:"default:0" json:"included_revisions"`
	RequiresPostURL   bool `gorm:"default:false" json:"requires_post_url"`
	ShippingRequired  bool `gorm:"default:false" json:"shipping_required"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SavedContract bookmarks a live contract for a creator. One row per
// (contract, creator) pair.
type SavedContract struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	ContractID    string    `gorm:"not null;uniqueIndex:idx_saved_contract_creator" json:"contract_id"`
	CreatorUserID string    `gorm:"not null;uniqueIndex:idx_saved_contract_creator" json:"creator_user_id"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
