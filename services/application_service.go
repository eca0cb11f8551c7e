package services

import (
	"errors"
	"log"
	"strings"

	"collab-marketplace/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationService struct {
	DB *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{DB: db}
}

type applyRequest struct {
	Pitch string `json:"pitch"`
}

// Apply submits a creator's pitch against a live contract. The unique index
// on (contract_id, creator_user_id) keeps it to one application per pair; the
// duplicate surfaces as a user-visible message and writes nothing.
func (s *ApplicationService) Apply(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}
	contractID := c.Params("id")

	var req applyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	pitch := strings.TrimSpace(req.Pitch)
	if pitch == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "Add a short pitch before submitting.",
		})
	}

	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "contract not found",
			})
		}
		log.Printf("[APPLICATION] contract lookup failed for %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}
	if contract.Status != models.ContractStatusLive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"ok": false, "message": "This contract is not accepting applications.",
		})
	}

	application := models.Application{
		ID:            uuid.NewString(),
		ContractID:    contractID,
		CreatorUserID: profile.UserID,
		Pitch:         pitch,
		Status:        models.ApplicationStatusSubmitted,
	}
	if err := s.DB.Create(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"ok": false, "message": "You have already applied to this contract.",
			})
		}
		log.Printf("[APPLICATION] create failed for contract %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "application": application})
}

// ApplicationWithBid is the creator's list/detail row: the application, its
// contract and the single most-recently-created bid, if any.
type ApplicationWithBid struct {
	models.Application
	Bid *models.Bid `json:"bid"`
}

// ListMine returns the creator's applications, newest first, each with its
// latest bid reconciled against the clock.
func (s *ApplicationService) ListMine(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}

	sweepBids(s.DB)

	var applications []models.Application
	if err := s.DB.Preload("Contract").
		Where("creator_user_id = ?", profile.UserID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		log.Printf("[APPLICATION] listing failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	now := nowFunc()
	rows := make([]ApplicationWithBid, len(applications))
	for i, app := range applications {
		bid, err := latestBid(s.DB, app.ID)
		if err != nil {
			log.Printf("[APPLICATION] bid load failed for %s: %v", app.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok": false, "message": "something went wrong, please try again",
			})
		}
		if bid != nil {
			bid.Status = bid.EffectiveStatus(now)
		}
		rows[i] = ApplicationWithBid{Application: app, Bid: bid}
	}

	return c.JSON(rows)
}

// GetMine returns one of the creator's applications with its latest bid,
// sweeping overdue bids first.
func (s *ApplicationService) GetMine(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}
	applicationID := c.Params("id")

	sweepBids(s.DB)

	var application models.Application
	if err := s.DB.Preload("Contract").
		First(&application, "id = ? AND creator_user_id = ?", applicationID, profile.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "application not found",
			})
		}
		log.Printf("[APPLICATION] detail failed for %s: %v", applicationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	bid, err := latestBid(s.DB, application.ID)
	if err != nil {
		log.Printf("[APPLICATION] bid load failed for %s: %v", applicationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}
	if bid != nil {
		bid.Status = bid.EffectiveStatus(nowFunc())
	}

	return c.JSON(ApplicationWithBid{Application: application, Bid: bid})
}

type updateApplicationStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus is the brand's approval gate. Only approved_to_bid and
// rejected change state; any other value is silently ignored and the
// unchanged row is returned.
func (s *ApplicationService) UpdateStatus(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleBrand)
	if profile == nil {
		return err
	}
	applicationID := c.Params("id")

	var req updateApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	var application models.Application
	if err := s.DB.
		Joins("JOIN contracts ON contracts.id = applications.contract_id").
		Where("applications.id = ? AND contracts.brand_user_id = ?", applicationID, profile.UserID).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "application not found",
			})
		}
		log.Printf("[APPLICATION] status lookup failed for %s: %v", applicationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	next := strings.TrimSpace(req.Status)
	if next != models.ApplicationStatusApprovedToBid && next != models.ApplicationStatusRejected {
		// Out-of-enum values are tolerated rather than rejected.
		return c.JSON(fiber.Map{"ok": true, "application": application})
	}

	if err := s.DB.Model(&models.Application{}).
		Where("id = ?", application.ID).
		Update("status", next).Error; err != nil {
		log.Printf("[APPLICATION] status update failed for %s: %v", applicationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}
	application.Status = next

	return c.JSON(fiber.Map{"ok": true, "application": application})
}

// latestBid selects "the" bid for an application: descending by creation
// time, limit one. Multiple rows can exist; only the newest is surfaced.
func latestBid(db *gorm.DB, applicationID string) (*models.Bid, error) {
	var bid models.Bid
	err := db.Where("application_id = ?", applicationID).
		Order("created_at DESC").
		First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}
