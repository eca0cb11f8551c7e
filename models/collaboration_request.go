package models

// CollaborationRequest is brand-to-creator outreach sent from a public
// profile. Append-only; there is no state machine on it. Brand name and email
// are denormalized at insert time so the record survives later brand edits.
type CollaborationRequest struct {
	ID            string  `gorm:"primaryKey" json:"id"`
	CreatorUserID string  `gorm:"not null;index" json:"creator_user_id"`
	BrandUserID   string  `gorm:"not null;index" json:"brand_user_id"`
	BrandName     *string `json:"brand_name"`
	BrandEmail    *string `json:"brand_email"`
	BudgetCents   *int64  `json:"budget_cents"`
	Deliverables  *string `json:"deliverables"`
	Message       *string `gorm:"type:text" json:"message"`

	Timestamps
}
