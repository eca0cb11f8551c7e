package services_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"collab-marketplace/handlers"
	"collab-marketplace/middleware"
	"collab-marketplace/models"
	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full route surface against a fresh in-memory sqlite
// database, the same shape main.go builds minus the gateway token check.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Brand{},
		&models.Contract{},
		&models.SavedContract{},
		&models.Application{},
		&models.Bid{},
		&models.CreatorPublicProfile{},
		&models.CollaborationRequest{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app := fiber.New()
	app.Use(middleware.UserContextMiddleware(nil))

	handlers.SetupProfileRoutes(app, services.NewProfileService(db))
	handlers.SetupContractRoutes(app, services.NewContractService(db))
	handlers.SetupApplicationRoutes(app, services.NewApplicationService(db), services.NewBidService(db))
	handlers.SetupCreatorProfileRoutes(app, services.NewCreatorProfileService(db))

	return app, db
}

// doJSON performs a request as the given user (empty userID = anonymous) and
// decodes the JSON response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, userID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-User-Email", userID+"@example.com")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints returning a top-level array.
func doJSONList(t *testing.T, app *fiber.App, method, path, userID string) (int, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("X-User-Email", userID+"@example.com")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s %s: status %d", method, path, resp.StatusCode)
	}

	var decoded []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("%s %s: decode list: %v", method, path, err)
	}
	return resp.StatusCode, decoded
}

// onboard picks a role for a user, provisioning their profile on the way.
func onboard(t *testing.T, app *fiber.App, userID, role string) {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/onboarding/role", userID, fiber.Map{"role": role})
	if status != http.StatusOK {
		t.Fatalf("onboarding %s as %s: status %d body %v", userID, role, status, body)
	}
}

// createLiveContract creates a live contract for the brand and returns its id.
func createLiveContract(t *testing.T, app *fiber.App, brandID string, minValueCents int64) string {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/contracts", brandID, fiber.Map{
		"title":           "UGC reel for spring launch",
		"description":     "One 30s vertical reel, usage rights for 90 days.",
		"status":          "live",
		"min_value_cents": minValueCents,
		"niche_tags":      "beauty, wellness",
		"platforms":       "instagram, tiktok",
	})
	if status != http.StatusCreated {
		t.Fatalf("create contract: status %d body %v", status, body)
	}
	contract := body["contract"].(map[string]interface{})
	return contract["id"].(string)
}

// applyToContract submits a creator application and returns its id.
func applyToContract(t *testing.T, app *fiber.App, creatorID, contractID, pitch string) string {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/contracts/"+contractID+"/applications", creatorID, fiber.Map{"pitch": pitch})
	if status != http.StatusCreated {
		t.Fatalf("apply: status %d body %v", status, body)
	}
	application := body["application"].(map[string]interface{})
	return application["id"].(string)
}

func setDisplayName(t *testing.T, db *gorm.DB, userID, name string) {
	t.Helper()
	if err := db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("display_name", name).Error; err != nil {
		t.Fatalf("set display name: %v", err)
	}
}
