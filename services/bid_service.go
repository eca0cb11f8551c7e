package services

import (
	"errors"
	"log"
	"time"

	"collab-marketplace/models"
	"collab-marketplace/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

type BidService struct {
	DB *gorm.DB
}

func NewBidService(db *gorm.DB) *BidService {
	return &BidService{DB: db}
}

type submitBidRequest struct {
	Amount  string `json:"amount"`
	Message string `json:"message"`
}

// SubmitBid creates the creator's bid against an approved application. The
// application must be in approved_to_bid at creation time; the bid opens with
// a fixed 24h window.
func (s *BidService) SubmitBid(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}
	applicationID := c.Params("id")

	var req submitBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	amountCents, ok := utils.ParseAmountToCents(req.Amount)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "Enter a valid amount.",
		})
	}

	now := nowFunc()
	bid := models.Bid{
		ID:          uuid.NewString(),
		AmountCents: amountCents,
		Status:      models.BidStatusSubmitted,
		ExpiresAt:   now.Add(models.BidWindow),
	}
	if message := utils.TrimToNil(req.Message); message != nil {
		bid.Message = message
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.First(&application,
			"id = ? AND creator_user_id = ?", applicationID, profile.UserID).Error; err != nil {
			return err
		}
		if application.Status != models.ApplicationStatusApprovedToBid {
			return errApplicationNotBiddable
		}
		bid.ApplicationID = application.ID
		bid.ContractID = application.ContractID
		return tx.Create(&bid).Error
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "application not found",
			})
		}
		if errors.Is(txErr, errApplicationNotBiddable) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"ok": false, "message": "This application is not open for bidding.",
			})
		}
		log.Printf("[BID] submit failed for application %s: %v", applicationID, txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "bid": bid})
}

var errApplicationNotBiddable = errors.New("application is not approved to bid")

// AcceptBid moves a submitted, unexpired bid to accepted and rejects its
// sibling submitted bids in the same transaction. Acceptance is exclusive per
// application.
func (s *BidService) AcceptBid(c *fiber.Ctx) error {
	return s.settleBid(c, models.BidStatusAccepted)
}

// RejectBid moves a submitted, unexpired bid to rejected.
func (s *BidService) RejectBid(c *fiber.Ctx) error {
	return s.settleBid(c, models.BidStatusRejected)
}

func (s *BidService) settleBid(c *fiber.Ctx, target string) error {
	profile, err := requireRole(s.DB, c, models.RoleBrand)
	if profile == nil {
		return err
	}
	bidID := c.Params("id")
	now := nowFunc()

	var bid models.Bid
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// Ownership runs bid -> contract -> brand.
		if err := tx.Joins("JOIN contracts ON contracts.id = bids.contract_id").
			Where("bids.id = ? AND contracts.brand_user_id = ?", bidID, profile.UserID).
			First(&bid).Error; err != nil {
			return err
		}

		// Compare-and-swap on the current status: anything other than a
		// still-open submitted bid leaves zero rows touched.
		res := tx.Model(&models.Bid{}).
			Where("id = ? AND status = ? AND expires_at > ?",
				bid.ID, models.BidStatusSubmitted, now).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errBidNotOpen
		}
		bid.Status = target

		if target == models.BidStatusAccepted {
			if err := tx.Model(&models.Bid{}).
				Where("application_id = ? AND id <> ? AND status = ?",
					bid.ApplicationID, bid.ID, models.BidStatusSubmitted).
				Update("status", models.BidStatusRejected).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "bid not found",
			})
		}
		if errors.Is(txErr, errBidNotOpen) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"ok": false, "message": "This bid is no longer open.",
			})
		}
		log.Printf("[BID] %s failed for bid %s: %v", target, bidID, txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(fiber.Map{"ok": true, "bid": bid})
}

var errBidNotOpen = errors.New("bid is not open")

// ExpireOverdueBids marks every submitted bid past its window as expired.
// Idempotent; invoked opportunistically before bid-bearing reads and from the
// sweep schedule.
func ExpireOverdueBids(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&models.Bid{}).
		Where("status = ? AND expires_at <= ?", models.BidStatusSubmitted, now).
		Update("status", models.BidStatusExpired)
	return res.RowsAffected, res.Error
}

// sweepBids is the best-effort read-path invocation: failures are logged, the
// read proceeds, and display-time reconciliation covers the gap.
func sweepBids(db *gorm.DB) {
	if _, err := ExpireOverdueBids(db, nowFunc()); err != nil {
		log.Printf("[BID] expiry sweep failed: %v", err)
	}
}

// StartExpirySweeper runs the expiry sweep every minute.
func (s *BidService) StartExpirySweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			expired, err := ExpireOverdueBids(s.DB, nowFunc())
			if err != nil {
				log.Printf("[Sweeper] DB error: %v", err)
				return
			}
			if expired > 0 {
				log.Printf("⏰ Expired %d overdue bid(s)", expired)
			}
		}),
	)
}
