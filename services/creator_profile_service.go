package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"collab-marketplace/models"
	"collab-marketplace/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultHeadline = "Open to brand collaborations."

type CreatorProfileService struct {
	DB *gorm.DB
}

func NewCreatorProfileService(db *gorm.DB) *CreatorProfileService {
	return &CreatorProfileService{DB: db}
}

// handleTaken reports whether a handle is held by someone other than userID.
func handleTaken(db *gorm.DB, handle, userID string) (bool, error) {
	var existing models.CreatorPublicProfile
	err := db.Select("user_id").First(&existing, "handle = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.UserID != userID, nil
}

// findAvailableHandle normalizes the base and hunts for a free handle: the
// base itself, then five random 3-digit suffixes, then the last four digits
// of the clock as a final fallback.
func findAvailableHandle(db *gorm.DB, base, userID string) (string, error) {
	normalized := utils.NormalizeHandle(base)
	taken, err := handleTaken(db, normalized, userID)
	if err != nil {
		return "", err
	}
	if !taken {
		return normalized, nil
	}

	for attempt := 0; attempt < 5; attempt++ {
		candidate := fmt.Sprintf("%s-%d", normalized, 100+rand.Intn(900))
		taken, err := handleTaken(db, candidate, userID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return normalized + "-" + millis[len(millis)-4:], nil
}

// ensurePublicProfile lazily creates the public document on the owner's first
// visit, deriving the handle from their display name or email prefix.
func ensurePublicProfile(db *gorm.DB, profile *models.Profile) (*models.CreatorPublicProfile, error) {
	var existing models.CreatorPublicProfile
	err := db.First(&existing, "user_id = ?", profile.UserID).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	baseName := ""
	if profile.DisplayName != nil {
		baseName = strings.TrimSpace(*profile.DisplayName)
	}
	if baseName == "" {
		baseName = utils.EmailPrefix(profile.Email)
	}
	if baseName == "" {
		baseName = utils.HandleFallback
	}

	handle, err := findAvailableHandle(db, baseName, profile.UserID)
	if err != nil {
		return nil, err
	}

	created := models.CreatorPublicProfile{
		UserID:      profile.UserID,
		Handle:      handle,
		DisplayName: baseName,
		Headline:    defaultHeadline,
	}
	if err := db.Create(&created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if refetch := db.First(&created, "user_id = ?", profile.UserID).Error; refetch == nil {
				return &created, nil
			}
		}
		return nil, err
	}
	return &created, nil
}

// GetMyPublicProfile returns the caller's public document, provisioning it on
// first access.
func (s *CreatorProfileService) GetMyPublicProfile(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}

	publicProfile, err := ensurePublicProfile(s.DB, profile)
	if err != nil {
		log.Printf("[CREATOR_PROFILE] ensure failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(publicProfile)
}

// CheckHandle probes availability for the normalized form of ?handle=. A
// handle the caller already holds counts as available.
func (s *CreatorProfileService) CheckHandle(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}

	normalized := utils.NormalizeHandle(c.Query("handle"))
	taken, err := handleTaken(s.DB, normalized, profile.UserID)
	if err != nil {
		log.Printf("[CREATOR_PROFILE] handle check failed for %q: %v", normalized, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	message := "Handle is available."
	if taken {
		message = "Handle is already taken."
	}
	return c.JSON(fiber.Map{
		"ok":        true,
		"available": !taken,
		"handle":    normalized,
		"message":   message,
	})
}

type updatePublicProfileRequest struct {
	Handle        string                      `json:"handle"`
	DisplayName   string                      `json:"display_name"`
	Headline      string                      `json:"headline"`
	Bio           string                      `json:"bio"`
	AvatarURL     string                      `json:"avatar_url"`
	Tags          []string                    `json:"tags"`
	ContentStyle  []string                    `json:"content_style"`
	Stats         models.CreatorStats         `json:"stats"`
	Platforms     []models.PlatformEntry      `json:"platforms"`
	Prerequisites models.CreatorPrerequisites `json:"prerequisites"`
	Audience      models.CreatorAudience      `json:"audience"`
	Portfolio     []models.PortfolioItem      `json:"portfolio"`
}

// UpdatePublicProfile saves the owner's edits. Handle availability is
// re-validated server-side immediately before the write; the check-then-save
// window is a known, accepted race (no unique-violation retry beyond the DB
// constraint itself).
func (s *CreatorProfileService) UpdatePublicProfile(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleCreator)
	if profile == nil {
		return err
	}

	var req updatePublicProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	normalizedHandle := utils.NormalizeHandle(req.Handle)
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "Display name is required.",
		})
	}

	taken, err := handleTaken(s.DB, normalizedHandle, profile.UserID)
	if err != nil {
		log.Printf("[CREATOR_PROFILE] handle re-check failed for %q: %v", normalizedHandle, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}
	if taken {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"ok": false, "message": "That handle is already in use.",
		})
	}

	var current models.CreatorPublicProfile
	if err := s.DB.First(&current, "user_id = ?", profile.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "public profile not found",
			})
		}
		log.Printf("[CREATOR_PROFILE] load failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	current.Handle = normalizedHandle
	current.DisplayName = displayName
	current.Headline = strings.TrimSpace(req.Headline)
	current.Bio = strings.TrimSpace(req.Bio)
	current.AvatarURL = strings.TrimSpace(req.AvatarURL)
	current.Tags = trimStrings(req.Tags)
	current.ContentStyle = trimStrings(req.ContentStyle)
	current.Stats = req.Stats
	current.Platforms = sanitizePlatforms(req.Platforms)
	current.Prerequisites = sanitizePrerequisites(req.Prerequisites)
	current.Audience = sanitizeAudience(req.Audience)
	current.Portfolio = sanitizePortfolio(req.Portfolio)

	if err := s.DB.Save(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"ok": false, "message": "That handle is already in use.",
			})
		}
		log.Printf("[CREATOR_PROFILE] save failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(fiber.Map{"ok": true, "profile": current})
}

// GetPublicProfileByHandle serves the public /c/:handle document.
func (s *CreatorProfileService) GetPublicProfileByHandle(c *fiber.Ctx) error {
	normalized := utils.NormalizeHandle(c.Params("handle"))

	var publicProfile models.CreatorPublicProfile
	if err := s.DB.First(&publicProfile, "handle = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "creator not found",
			})
		}
		log.Printf("[CREATOR_PROFILE] public lookup failed for %q: %v", normalized, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.JSON(publicProfile)
}

type collaborationRequestBody struct {
	Budget       string `json:"budget"`
	Deliverables string `json:"deliverables"`
	Message      string `json:"message"`
}

// SubmitCollaborationRequest records brand outreach against a creator's
// public profile. Append-only; brand details are denormalized at insert time.
func (s *CreatorProfileService) SubmitCollaborationRequest(c *fiber.Ctx) error {
	profile, err := requireRole(s.DB, c, models.RoleBrand)
	if profile == nil {
		return err
	}
	normalized := utils.NormalizeHandle(c.Params("handle"))

	var creatorProfile models.CreatorPublicProfile
	if err := s.DB.First(&creatorProfile, "handle = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok": false, "message": "creator not found",
			})
		}
		log.Printf("[COLLAB] creator lookup failed for %q: %v", normalized, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	var req collaborationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok": false, "message": "invalid JSON",
		})
	}

	var budgetCents *int64
	if budget := strings.TrimSpace(req.Budget); budget != "" {
		cents, ok := utils.ParseAmountToCents(budget)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok": false, "message": "Enter a valid budget.",
			})
		}
		budgetCents = &cents
	}

	brand, err := ensureBrand(s.DB, profile)
	if err != nil {
		log.Printf("[COLLAB] brand lookup failed for %s: %v", profile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	request := models.CollaborationRequest{
		ID:            uuid.NewString(),
		CreatorUserID: creatorProfile.UserID,
		BrandUserID:   profile.UserID,
		BrandName:     utils.TrimToNil(brand.BusinessName),
		BrandEmail:    utils.TrimToNil(brand.BusinessEmail),
		BudgetCents:   budgetCents,
		Deliverables:  utils.TrimToNil(req.Deliverables),
		Message:       utils.TrimToNil(req.Message),
	}
	if err := s.DB.Create(&request).Error; err != nil {
		log.Printf("[COLLAB] create failed for creator %s: %v", creatorProfile.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok": false, "message": "something went wrong, please try again",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "request": request})
}

func trimStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func sanitizePlatforms(entries []models.PlatformEntry) []models.PlatformEntry {
	out := make([]models.PlatformEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Platform = strings.TrimSpace(entry.Platform)
		entry.Handle = strings.TrimSpace(entry.Handle)
		if entry.Platform == "" && entry.Handle == "" && entry.Followers == nil {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func sanitizePortfolio(items []models.PortfolioItem) []models.PortfolioItem {
	out := make([]models.PortfolioItem, 0, len(items))
	for _, item := range items {
		item.Platform = strings.TrimSpace(item.Platform)
		item.Title = strings.TrimSpace(item.Title)
		item.ThumbURL = strings.TrimSpace(item.ThumbURL)
		item.LinkURL = strings.TrimSpace(item.LinkURL)
		if item.Platform == "" && item.Title == "" && item.ThumbURL == "" && item.LinkURL == "" {
			continue
		}
		out = append(out, item)
		if len(out) == models.MaxPortfolioItems {
			break
		}
	}
	return out
}

func sanitizePrerequisites(p models.CreatorPrerequisites) models.CreatorPrerequisites {
	p.ExcludedCategories = trimStrings(p.ExcludedCategories)
	return p
}

func sanitizeAudience(a models.CreatorAudience) models.CreatorAudience {
	a.AgeRange = strings.TrimSpace(a.AgeRange)
	a.Gender = strings.TrimSpace(a.Gender)
	a.Regions = trimStrings(a.Regions)
	a.Note = strings.TrimSpace(a.Note)
	return a
}
