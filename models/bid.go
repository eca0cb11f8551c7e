package models

import "time"

// Bid statuses. accepted, rejected and expired are terminal.
const (
	BidStatusSubmitted = "submitted"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
	BidStatusExpired   = "expired"
)

// BidWindow is how long a submitted bid stays open before it expires.
const BidWindow = 24 * time.Hour

// Bid is a time-boxed price offer a creator submits once the parent
// application is approved to bid. ContractID is denormalized for the brand's
// grouped queries. Creators never mutate a bid after creation; the brand moves
// it to accepted/rejected and the expiry sweep moves it to expired.
type Bid struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	ApplicationID string    `gorm:"not null;index" json:"application_id"`
	ContractID    string    `gorm:"not null;index" json:"contract_id"`
	AmountCents   int64     `gorm:"not null" json:"amount_cents"`
	Message       *string   `json:"message,omitempty"`
	Status        string    `gorm:"default:'submitted';index" json:"status"`
	ExpiresAt     time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// EffectiveStatus reconciles the stored status with wall-clock expiry: a bid
// still stored as submitted but past its window is presented as expired even
// if the sweep has not caught it yet.
func (b *Bid) EffectiveStatus(now time.Time) string {
	if b.Status == BidStatusSubmitted && !now.Before(b.ExpiresAt) {
		return BidStatusExpired
	}
	return b.Status
}

// Open reports whether the bid can still be accepted or rejected.
func (b *Bid) Open(now time.Time) bool {
	return b.Status == BidStatusSubmitted && now.Before(b.ExpiresAt)
}
