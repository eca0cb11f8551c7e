package services

import (
	"log"
	"strings"

	"collab-marketplace/models"
	"collab-marketplace/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

type selectRoleRequest struct {
	Role string `json:"role"`
}

// SelectRole completes onboarding by attaching a role to the caller's
// profile. Picking brand also provisions the brand row.
func (s *ProfileService) SelectRole(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok": false, "message": "authentication required",
		})
	}

	var req selectRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	role := strings.TrimSpace(req.Role)
	if !models.ValidRole(role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "Choose a valid role.",
		})
	}

	profile, err := ensureProfile(s.DB, userID, currentUserEmail(c))
	if err != nil {
		log.Printf("[PROFILE] ensure failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	profile.Role = &role
	if err := s.DB.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("role", role).Error; err != nil {
		log.Printf("[PROFILE] role update failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	if role == models.RoleBrand {
		if _, err := ensureBrand(s.DB, profile); err != nil {
			log.Printf("[PROFILE] brand provisioning failed for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok": false, "message": "something went wrong, please try again",
			})
		}
	}

	return c.JSON(fiber.Map{"ok": true, "role": role})
}

// GetMe returns the caller's profile, plus the brand row for brand accounts.
func (s *ProfileService) GetMe(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok": false, "message": "authentication required",
		})
	}

	profile, err := ensureProfile(s.DB, userID, currentUserEmail(c))
	if err != nil {
		log.Printf("[PROFILE] ensure failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	resp := fiber.Map{"profile": profile}
	if profile.HasRole(models.RoleBrand) {
		brand, err := ensureBrand(s.DB, profile)
		if err != nil {
			log.Printf("[PROFILE] brand lookup failed for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok": false, "message": "something went wrong, please try again",
			})
		}
		resp["brand"] = brand
	}

	return c.JSON(resp)
}

type creatorSettingsRequest struct {
	DisplayName     string `json:"display_name"`
	InstagramHandle string `json:"instagram_handle"`
	TiktokHandle    string `json:"tiktok_handle"`
	YoutubeHandle   string `json:"youtube_handle"`
}

func (s *ProfileService) UpdateCreatorSettings(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}

	var req creatorSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "Display name is required.",
		})
	}

	updates := map[string]interface{}{
		"display_name":     displayName,
		"instagram_handle": utils.TrimToNil(req.InstagramHandle),
		"tiktok_handle":    utils.TrimToNil(req.TiktokHandle),
		"youtube_handle":   utils.TrimToNil(req.YoutubeHandle),
	}
	if err := s.DB.Model(&models.Profile{}).
		Where("user_id = ?", profile.UserID).
		Updates(updates).Error; err != nil {
		log.Printf("[PROFILE] creator settings update failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}

type brandSettingsRequest struct {
	BusinessName  string `json:"business_name"`
	BusinessEmail string `json:"business_email"`
	Website       string `json:"website"`
}

func (s *ProfileService) UpdateBrandSettings(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleBrand)
	if profile == nil {
		return err
	}

	var req brandSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	businessName := strings.TrimSpace(req.BusinessName)
	businessEmail := strings.TrimSpace(req.BusinessEmail)
	website := strings.TrimSpace(req.Website)
	if website == "" {
		website = "https://example.com"
	}

	if businessName == "" || businessEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "Business name and email are required.",
		})
	}

	brand := models.Brand{
		UserID:        profile.UserID,
		BusinessName:  businessName,
		BusinessEmail: businessEmail,
		Website:       website,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"business_name", "business_email", "website"}),
	}).Create(&brand).Error; err != nil {
		log.Printf("[PROFILE] brand settings upsert failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(fiber.Map{"ok": true, "brand": brand})
}

// GetDashboard returns role-scoped summary counts for the caller's home view.
func (s *ProfileService) GetDashboard(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator, models.RoleBrand)
	if profile == nil {
		return err
	}

	if profile.HasRole(models.RoleBrand) {
		var contracts, applications, openBids int64
		if err := s.DB.Model(&models.Contract{}).
			Where("brand_user_id = ?", profile.UserID).
			Count(&contracts).Error; err != nil {
			return dashboardError(c, profile.UserID, err)
		}
		if err := s.DB.Model(&models.Application{}).
			Joins("JOIN contracts ON contracts.id = applications.contract_id").
			Where("contracts.brand_user_id = ?", profile.UserID).
			Count(&applications).Error; err != nil {
			return dashboardError(c, profile.UserID, err)
		}
		if err := s.DB.Model(&models.Bid{}).
			Joins("JOIN contracts ON contracts.id = bids.contract_id").
			Where("contracts.brand_user_id = ? AND bids.status = ? AND bids.expires_at > ?",
				profile.UserID, models.BidStatusSubmitted, nowFunc()).
			Count(&openBids).Error; err != nil {
			return dashboardError(c, profile.UserID, err)
		}
		return c.JSON(fiber.Map{
			"role":         models.RoleBrand,
			"contracts":    contracts,
			"applications": applications,
			"open_bids":    openBids,
		})
	}

	var liveContracts, myApplications, approved, saved int64
	if err := s.DB.Model(&models.Contract{}).
		Where("status = ?", models.ContractStatusLive).
		Count(&liveContracts).Error; err != nil {
		return dashboardError(c, profile.UserID, err)
	}
	if err := s.DB.Model(&models.Application{}).
		Where("creator_user_id = ?", profile.UserID).
		Count(&myApplications).Error; err != nil {
		return dashboardError(c, profile.UserID, err)
	}
	if err := s.DB.Model(&models.Application{}).
		Where("creator_user_id = ? AND status = ?", profile.UserID, models.ApplicationStatusApprovedToBid).
		Count(&approved).Error; err != nil {
		return dashboardError(c, profile.UserID, err)
	}
	if err := s.DB.Model(&models.SavedContract{}).
		Where("creator_user_id = ?", profile.UserID).
		Count(&saved).Error; err != nil {
		return dashboardError(c, profile.UserID, err)
	}
	return c.JSON(fiber.Map{
		"role":            models.RoleCreator,
		"live_contracts":  liveContracts,
		"applications":    myApplications,
		"approved_to_bid": approved,
		"saved_contracts": saved,
	})
}

func dashboardError(c *fiber.Ctx, userID string, err error) error {
	log.Printf("[PROFILE] dashboard query failed for %s: %v", userID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok": false, "message": "something went wrong, please try again",
	})
}
