package models

import "time"

// Application statuses. approved_to_bid is the gate for bid submission.
const (
	ApplicationStatusSubmitted     = "submitted"
	ApplicationStatusApprovedToBid = "approved_to_bid"
	ApplicationStatusRejected      = "rejected"
)

// Application is a creator's pitch against a contract. At most one row per
// (contract, creator) pair; status is mutated only by the owning brand.
type Application struct {
	ID            string `gorm:"primaryKey" json:"id"`
	ContractID    string `gorm:"not null;uniqueIndex:idx_application_contract_creator" json:"contract_id"`
	CreatorUserID string `gorm:"not null;uniqueIndex:idx_application_contract_creator" json:"creator_user_id"`
	Pitch         string `gorm:"type:text" json:"pitch"`
	Status        string `gorm:"default:'submitted';index" json:"status"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Contract Contract `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
}
