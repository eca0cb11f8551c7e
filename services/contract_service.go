package services

import (
	"errors"
	"log"
	"strings"

	"collab-marketplace/models"
	"collab-marketplace/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractService struct {
	DB *gorm.DB
}

func NewContractService(db *gorm.DB) *ContractService {
	return &ContractService{DB: db}
}

type createContractRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	DeliverableType   string `json:"deliverable_type"`
	MinValueCents     int64  `json:"min_value_cents"`
	Status            string `json:"status"`
	NicheTags         string `json:"niche_tags"`
	Platforms         string `json:"platforms"`
	IncludedRevisions int    `json:"included_revisions"`
	RequiresPostURL   bool   `json:"requires_post_url"`
	ShippingRequired  bool   `json:"shipping_required"`
}

// CreateContract creates a brand's brief. The minimum value is floor-clamped,
// the status is normalized into the known set and the comma-separated tag and
// platform lists are cleaned up.
func (s *ContractService) CreateContract(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleBrand)
	if profile == nil {
		return err
	}

	var req createContractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "Title and description are required.",
		})
	}

	deliverableType := strings.TrimSpace(req.DeliverableType)
	if deliverableType == "" {
		deliverableType = "unspecified"
	}

	minValue := req.MinValueCents
	if minValue < models.MinContractValueCents {
		minValue = models.MinContractValueCents
	}

	includedRevisions := req.IncludedRevisions
	if includedRevisions < 0 {
		includedRevisions = 0
	}

	contract := models.Contract{
		ID:                uuid.NewString(),
		BrandUserID:       profile.UserID,
		Title:             title,
		Description:       description,
		Status:            models.NormalizeContractStatus(req.Status),
		MinValueCents:     minValue,
		DeliverableType:   deliverableType,
		NicheTags:         utils.SplitCommaList(req.NicheTags),
		Platforms:         utils.SplitCommaList(req.Platforms),
		IncludedRevisions: includedRevisions,
		RequiresPostURL:   req.RequiresPostURL,
		ShippingRequired:  req.ShippingRequired,
	}
	if err := s.DB.Create(&contract).Error; err != nil {
		log.Printf("[CONTRACT] create failed for brand %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "contract": contract})
}

// ListLiveContracts is the creator-facing catalog: live briefs, newest first.
func (s *ContractService) ListLiveContracts(c *fiber.Ctx) error {
	var contracts []models.Contract
	if err := s.DB.Where("status = ?", models.ContractStatusLive).
		Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		log.Printf("[CONTRACT] live listing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}
	return c.JSON(contracts)
}

// ListBrandContracts returns the caller's own briefs, any status.
func (s *ContractService) ListBrandContracts(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleBrand)
	if profile == nil {
		return err
	}

	var contracts []models.Contract
	if err := s.DB.Where("brand_user_id = ?", profile.UserID).
		Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		log.Printf("[CONTRACT] brand listing failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}
	return c.JSON(contracts)
}

// ApplicationWithBids is the brand's review row: one application, its
// applicant's display name and every bid newest-first with display statuses
// reconciled against the clock.
type ApplicationWithBids struct {
	models.Application
	CreatorDisplayName *string      `json:"creator_display_name"`
	Bids               []models.Bid `json:"bids"`
}

// GetBrandContract returns an owned contract with its applications and bids,
// sweeping overdue bids first.
func (s *ContractService) GetBrandContract(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleBrand)
	if profile == nil {
		return err
	}
	contractID := c.Params("id")

	sweepBids(s.DB)

	var contract models.Contract
	if err := s.DB.First(&contract,
		"id = ? AND brand_user_id = ?", contractID, profile.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "contract not found",
			})
		}
		log.Printf("[CONTRACT] detail failed for %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	var applications []models.Application
	if err := s.DB.Where("contract_id = ?", contract.ID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		log.Printf("[CONTRACT] applications load failed for %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	var bids []models.Bid
	if err := s.DB.Where("contract_id = ?", contract.ID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		log.Printf("[CONTRACT] bids load failed for %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	now := nowFunc()
	bidsByApplication := make(map[string][]models.Bid, len(applications))
	for _, bid := range bids {
		bid.Status = bid.EffectiveStatus(now)
		bidsByApplication[bid.ApplicationID] = append(bidsByApplication[bid.ApplicationID], bid)
	}

	creatorIDs := make([]string, 0, len(applications))
	for _, app := range applications {
		creatorIDs = append(creatorIDs, app.CreatorUserID)
	}
	displayNames := map[string]*string{}
	if len(creatorIDs) > 0 {
		var profiles []models.Profile
		if err := s.DB.Where("user_id IN ?", creatorIDs).Find(&profiles).Error; err != nil {
			log.Printf("[CONTRACT] applicant profiles load failed for %s: %v", contractID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok": false, "message": "something went wrong, please try again",
			})
		}
		for _, p := range profiles {
			displayNames[p.UserID] = p.DisplayName
		}
	}

	rows := make([]ApplicationWithBids, len(applications))
	for i, app := range applications {
		rows[i] = ApplicationWithBids{
			Application:        app,
			CreatorDisplayName: displayNames[app.CreatorUserID],
			Bids:               bidsByApplication[app.ID],
		}
	}

	return c.JSON(fiber.Map{"contract": contract, "applications": rows})
}

// SaveContract bookmarks a contract for the calling creator. Saving an
// already-saved contract is a no-op.
func (s *ContractService) SaveContract(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}
	contractID := c.Params("id")

	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "contract not found",
			})
		}
		log.Printf("[CONTRACT] save lookup failed for %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	saved := models.SavedContract{
		ID:            uuid.NewString(),
		ContractID:    contractID,
		CreatorUserID: profile.UserID,
	}
	if err := s.DB.Create(&saved).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Printf("[CONTRACT] save failed for %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(fiber.Map{"ok": true, "saved": true})
}

func (s *ContractService) UnsaveContract(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}
	contractID := c.Params("id")

	if err := s.DB.Where("contract_id = ? AND creator_user_id = ?", contractID, profile.UserID).
		Delete(&models.SavedContract{}).Error; err != nil {
		log.Printf("[CONTRACT] unsave failed for %s: %v", contractID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(fiber.Map{"ok": true, "saved": false})
}

// ListSavedContracts returns the creator's bookmarked contracts.
func (s *ContractService) ListSavedContracts(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}

	var contracts []models.Contract
	if err := s.DB.
		Joins("JOIN saved_contracts ON saved_contracts.contract_id = contracts.id").
		Where("saved_contracts.creator_user_id = ?", profile.UserID).
		Order("saved_contracts.created_at DESC").
		Find(&contracts).Error; err != nil {
		log.Printf("[CONTRACT] saved listing failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}
	return c.JSON(contracts)
}
