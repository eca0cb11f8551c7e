package services

import (
	"errors"
	"log"

	"collab-marketplace/models"
	"collab-marketplace/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Identity helpers shared by every service. Role and profile state are
// re-derived from the store on each request; nothing is cached in-process.

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func currentUserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("user_email").(string)
	return email
}

// ensureProfile fetches the caller's profile row, lazily inserting a roleless
// one the first time an identity shows up.
func ensureProfile(db *gorm.DB, userID, email string) (*models.Profile, error) {
	var profile models.Profile
	err := db.First(&profile, "user_id = ?", userID).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = models.Profile{
		UserID: userID,
		Email:  email,
	}
	if err := db.Create(&profile).Error; err != nil {
		// Concurrent first visits race on the insert; the row is there either way.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if refetch := db.First(&profile, "user_id = ?", userID).Error; refetch == nil {
				return &profile, nil
			}
		}
		return nil, err
	}
	return &profile, nil
}

// ensureBrand fetches the caller's brand row, lazily inserting one with
// fallback business details the first time a brand needs it.
func ensureBrand(db *gorm.DB, profile *models.Profile) (*models.Brand, error) {
	var brand models.Brand
	err := db.First(&brand, "user_id = ?", profile.UserID).Error
	if err == nil {
		return &brand, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := profile.Email
	if email == "" {
		email = "unknown@example.com"
	}
	fallbackName := ""
	if profile.DisplayName != nil {
		fallbackName = *profile.DisplayName
	}
	if fallbackName == "" {
		fallbackName = utils.EmailPrefix(email)
	}
	if fallbackName == "" {
		fallbackName = "Brand"
	}

	brand = models.Brand{
		UserID:        profile.UserID,
		BusinessName:  fallbackName,
		BusinessEmail: email,
		Website:       "https://example.com",
	}
	if err := db.Create(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if refetch := db.First(&brand, "user_id = ?", profile.UserID).Error; refetch == nil {
				return &brand, nil
			}
		}
		return nil, err
	}
	return &brand, nil
}

// requireRole resolves the caller's profile and checks it against the allowed
// roles (admins pass every gate). On failure the response has already been
// written; callers must bail out when the returned profile is nil:
//
//	profile, err := requireRole(s.DB, c, models.RoleCreator)
//	if profile == nil {
//		return err
//	}
func requireRole(db *gorm.DB, c *fiber.Ctx, roles ...string) (*models.Profile, error) {
	userID := currentUserID(c)
	if userID == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":      false,
			"message": "authentication required",
		})
	}

	profile, err := ensureProfile(db, userID, currentUserEmail(c))
	if err != nil {
		log.Printf("[IDENTITY] profile lookup failed for %s: %v", userID, err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "something went wrong, please try again",
		})
	}

	if profile.Role == nil {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"ok":      false,
			"code":    "onboarding_required",
			"message": "select a role to continue",
		})
	}

	if !profile.HasRole(roles...) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"ok":      false,
			"message": "not available for your role",
		})
	}

	return profile, nil
}
