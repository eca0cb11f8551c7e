package services_test

import (
	"net/http"
	"testing"
	"time"

	"collab-marketplace/models"
	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

// TestBidLifecycle walks the happy path from brief to accepted bid.
func TestBidLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")

	contractID := createLiveContract(t, app, "brand-1", 5000)

	// The floor clamps low minimums up to 10000 cents.
	var contract models.Contract
	if err := db.First(&contract, "id = ?", contractID).Error; err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if contract.MinValueCents != models.MinContractValueCents {
		t.Fatalf("min value = %d, want %d", contract.MinValueCents, models.MinContractValueCents)
	}

	applicationID := applyToContract(t, app, "creator-1", contractID, "I make beauty reels weekly.")

	// Bidding before approval is refused.
	status, body := doJSON(t, app, "POST", "/applications/"+applicationID+"/bids", "creator-1",
		fiber.Map{"amount": "1500"})
	if status != http.StatusConflict {
		t.Fatalf("bid before approval: status %d body %v", status, body)
	}
	if body["message"] != "This application is not open for bidding." {
		t.Fatalf("bid before approval message = %q", body["message"])
	}

	status, body = doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-1",
		fiber.Map{"status": "approved_to_bid"})
	if status != http.StatusOK {
		t.Fatalf("approve: status %d body %v", status, body)
	}
	approved := body["application"].(map[string]interface{})
	if approved["status"] != models.ApplicationStatusApprovedToBid {
		t.Fatalf("approved status = %v", approved["status"])
	}

	before := time.Now()
	status, body = doJSON(t, app, "POST", "/applications/"+applicationID+"/bids", "creator-1",
		fiber.Map{"amount": "1500", "message": "Can ship within a week."})
	if status != http.StatusCreated {
		t.Fatalf("submit bid: status %d body %v", status, body)
	}
	bidBody := body["bid"].(map[string]interface{})
	if cents := int64(bidBody["amount_cents"].(float64)); cents != 150000 {
		t.Fatalf("amount_cents = %d, want 150000", cents)
	}
	bidID := bidBody["id"].(string)

	var bid models.Bid
	if err := db.First(&bid, "id = ?", bidID).Error; err != nil {
		t.Fatalf("load bid: %v", err)
	}
	window := bid.ExpiresAt.Sub(before)
	if window < models.BidWindow-time.Minute || window > models.BidWindow+time.Minute {
		t.Fatalf("expiry window = %v, want ~%v", window, models.BidWindow)
	}

	status, body = doJSON(t, app, "POST", "/bids/"+bidID+"/accept", "brand-1", nil)
	if status != http.StatusOK {
		t.Fatalf("accept: status %d body %v", status, body)
	}
	if settled := body["bid"].(map[string]interface{}); settled["status"] != models.BidStatusAccepted {
		t.Fatalf("accepted bid status = %v", settled["status"])
	}

	// A settled bid cannot be rejected afterwards.
	status, body = doJSON(t, app, "POST", "/bids/"+bidID+"/reject", "brand-1", nil)
	if status != http.StatusConflict {
		t.Fatalf("reject after accept: status %d body %v", status, body)
	}
	if body["message"] != "This bid is no longer open." {
		t.Fatalf("reject after accept message = %q", body["message"])
	}
}

func TestApplyValidation(t *testing.T) {
	app, _ := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")

	contractID := createLiveContract(t, app, "brand-1", 20000)

	status, body := doJSON(t, app, "POST", "/contracts/"+contractID+"/applications", "creator-1",
		fiber.Map{"pitch": "   "})
	if status != http.StatusBadRequest || body["message"] != "Add a short pitch before submitting." {
		t.Fatalf("blank pitch: status %d body %v", status, body)
	}

	applyToContract(t, app, "creator-1", contractID, "First pitch.")

	status, body = doJSON(t, app, "POST", "/contracts/"+contractID+"/applications", "creator-1",
		fiber.Map{"pitch": "Second pitch."})
	if status != http.StatusConflict {
		t.Fatalf("duplicate apply: status %d body %v", status, body)
	}
	if body["message"] != "You have already applied to this contract." {
		t.Fatalf("duplicate apply message = %q", body["message"])
	}
}

func TestApplyToDraftContractRefused(t *testing.T) {
	app, _ := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")

	status, body := doJSON(t, app, "POST", "/contracts", "brand-1", fiber.Map{
		"title":       "Draft brief",
		"description": "Not yet published.",
		"status":      "draft",
	})
	if status != http.StatusCreated {
		t.Fatalf("create draft: status %d body %v", status, body)
	}
	contractID := body["contract"].(map[string]interface{})["id"].(string)

	status, body = doJSON(t, app, "POST", "/contracts/"+contractID+"/applications", "creator-1",
		fiber.Map{"pitch": "Pick me."})
	if status != http.StatusConflict || body["message"] != "This contract is not accepting applications." {
		t.Fatalf("apply to draft: status %d body %v", status, body)
	}
}

func TestSubmitBidAmountValidation(t *testing.T) {
	app, _ := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")

	contractID := createLiveContract(t, app, "brand-1", 20000)
	applicationID := applyToContract(t, app, "creator-1", contractID, "Pitch.")

	status, _ := doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-1",
		fiber.Map{"status": "approved_to_bid"})
	if status != http.StatusOK {
		t.Fatalf("approve: status %d", status)
	}

	for _, amount := range []string{"0", "0.00", "12.999", "-5", "abc", ""} {
		status, body := doJSON(t, app, "POST", "/applications/"+applicationID+"/bids", "creator-1",
			fiber.Map{"amount": amount})
		if status != http.StatusBadRequest {
			t.Fatalf("amount %q: status %d body %v", amount, status, body)
		}
		if body["message"] != "Enter a valid amount." {
			t.Fatalf("amount %q: message %q", amount, body["message"])
		}
	}
}

func TestExpiredBidCannotBeSettled(t *testing.T) {
	app, db := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")

	contractID := createLiveContract(t, app, "brand-1", 20000)
	applicationID := applyToContract(t, app, "creator-1", contractID, "Pitch.")
	doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-1",
		fiber.Map{"status": "approved_to_bid"})

	status, body := doJSON(t, app, "POST", "/applications/"+applicationID+"/bids", "creator-1",
		fiber.Map{"amount": "800"})
	if status != http.StatusCreated {
		t.Fatalf("submit bid: status %d body %v", status, body)
	}
	bidID := body["bid"].(map[string]interface{})["id"].(string)

	// Push the bid past its window.
	if err := db.Model(&models.Bid{}).Where("id = ?", bidID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate bid: %v", err)
	}

	status, body = doJSON(t, app, "POST", "/bids/"+bidID+"/accept", "brand-1", nil)
	if status != http.StatusConflict || body["message"] != "This bid is no longer open." {
		t.Fatalf("accept expired: status %d body %v", status, body)
	}

	// The creator's view reports the bid as expired even before any sweep
	// rewrites the row.
	status, decoded := doJSON(t, app, "GET", "/creator/applications/"+applicationID, "creator-1", nil)
	if status != http.StatusOK {
		t.Fatalf("detail: status %d", status)
	}
	shownBid := decoded["bid"].(map[string]interface{})
	if shownBid["status"] != models.BidStatusExpired {
		t.Fatalf("displayed bid status = %v, want expired", shownBid["status"])
	}

	// The sweep persisted the expiry on the read path.
	var stored models.Bid
	if err := db.First(&stored, "id = ?", bidID).Error; err != nil {
		t.Fatalf("load bid: %v", err)
	}
	if stored.Status != models.BidStatusExpired {
		t.Fatalf("stored bid status = %q, want expired", stored.Status)
	}
}

func TestAcceptRejectsSiblingBids(t *testing.T) {
	app, db := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")

	contractID := createLiveContract(t, app, "brand-1", 20000)
	applicationID := applyToContract(t, app, "creator-1", contractID, "Pitch.")
	doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-1",
		fiber.Map{"status": "approved_to_bid"})

	var bidIDs []string
	for _, amount := range []string{"500", "650", "700"} {
		status, body := doJSON(t, app, "POST", "/applications/"+applicationID+"/bids", "creator-1",
			fiber.Map{"amount": amount})
		if status != http.StatusCreated {
			t.Fatalf("submit %s: status %d body %v", amount, status, body)
		}
		bidIDs = append(bidIDs, body["bid"].(map[string]interface{})["id"].(string))
	}

	status, body := doJSON(t, app, "POST", "/bids/"+bidIDs[1]+"/accept", "brand-1", nil)
	if status != http.StatusOK {
		t.Fatalf("accept: status %d body %v", status, body)
	}

	want := map[string]string{
		bidIDs[0]: models.BidStatusRejected,
		bidIDs[1]: models.BidStatusAccepted,
		bidIDs[2]: models.BidStatusRejected,
	}
	for id, expected := range want {
		var bid models.Bid
		if err := db.First(&bid, "id = ?", id).Error; err != nil {
			t.Fatalf("load bid %s: %v", id, err)
		}
		if bid.Status != expected {
			t.Fatalf("bid %s status = %q, want %q", id, bid.Status, expected)
		}
	}
}

func TestSettleBidRequiresOwnership(t *testing.T) {
	app, _ := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "brand-2", "brand")
	onboard(t, app, "creator-1", "creator")

	contractID := createLiveContract(t, app, "brand-1", 20000)
	applicationID := applyToContract(t, app, "creator-1", contractID, "Pitch.")
	doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-1",
		fiber.Map{"status": "approved_to_bid"})

	status, body := doJSON(t, app, "POST", "/applications/"+applicationID+"/bids", "creator-1",
		fiber.Map{"amount": "900"})
	if status != http.StatusCreated {
		t.Fatalf("submit bid: status %d body %v", status, body)
	}
	bidID := body["bid"].(map[string]interface{})["id"].(string)

	// Another brand cannot see or settle it.
	status, body = doJSON(t, app, "POST", "/bids/"+bidID+"/accept", "brand-2", nil)
	if status != http.StatusNotFound {
		t.Fatalf("foreign accept: status %d body %v", status, body)
	}

	// Neither can a brand approve a foreign application.
	status, body = doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-2",
		fiber.Map{"status": "rejected"})
	if status != http.StatusNotFound {
		t.Fatalf("foreign status update: status %d body %v", status, body)
	}
}

func TestUpdateStatusIgnoresUnknownValues(t *testing.T) {
	app, db := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")

	contractID := createLiveContract(t, app, "brand-1", 20000)
	applicationID := applyToContract(t, app, "creator-1", contractID, "Pitch.")

	status, body := doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-1",
		fiber.Map{"status": "hired"})
	if status != http.StatusOK {
		t.Fatalf("unknown status: status %d body %v", status, body)
	}
	returned := body["application"].(map[string]interface{})
	if returned["status"] != models.ApplicationStatusSubmitted {
		t.Fatalf("returned status = %v, want submitted", returned["status"])
	}

	var application models.Application
	if err := db.First(&application, "id = ?", applicationID).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	if application.Status != models.ApplicationStatusSubmitted {
		t.Fatalf("stored status = %q, want submitted", application.Status)
	}
}

func TestCreatorApplicationListing(t *testing.T) {
	app, _ := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")
	onboard(t, app, "creator-2", "creator")

	contractID := createLiveContract(t, app, "brand-1", 20000)
	applicationID := applyToContract(t, app, "creator-1", contractID, "Mine.")
	applyToContract(t, app, "creator-2", contractID, "Someone else's.")

	_, rows := doJSONList(t, app, "GET", "/creator/applications", "creator-1")
	if len(rows) != 1 {
		t.Fatalf("listing rows = %d, want 1", len(rows))
	}
	if rows[0]["id"] != applicationID {
		t.Fatalf("listing id = %v, want %s", rows[0]["id"], applicationID)
	}
	if rows[0]["bid"] != nil {
		t.Fatalf("listing bid = %v, want null", rows[0]["bid"])
	}
	embedded := rows[0]["contract"].(map[string]interface{})
	if embedded["id"] != contractID {
		t.Fatalf("embedded contract id = %v", embedded["id"])
	}

	// A creator cannot read another creator's application.
	status, _ := doJSON(t, app, "GET", "/creator/applications/"+applicationID, "creator-2", nil)
	if status != http.StatusNotFound {
		t.Fatalf("foreign detail: status %d", status)
	}
}

func TestBrandContractDetailGroupsBids(t *testing.T) {
	app, db := newTestApp(t)
	onboard(t, app, "brand-1", "brand")
	onboard(t, app, "creator-1", "creator")
	setDisplayName(t, db, "creator-1", "Jordan Lee")

	contractID := createLiveContract(t, app, "brand-1", 20000)
	applicationID := applyToContract(t, app, "creator-1", contractID, "Pitch.")
	doJSON(t, app, "PATCH", "/applications/"+applicationID+"/status", "brand-1",
		fiber.Map{"status": "approved_to_bid"})
	status, body := doJSON(t, app, "POST", "/applications/"+applicationID+"/bids", "creator-1",
		fiber.Map{"amount": "1200"})
	if status != http.StatusCreated {
		t.Fatalf("submit bid: status %d body %v", status, body)
	}

	status, detail := doJSON(t, app, "GET", "/brand/contracts/"+contractID, "brand-1", nil)
	if status != http.StatusOK {
		t.Fatalf("detail: status %d body %v", status, detail)
	}
	applications := detail["applications"].([]interface{})
	if len(applications) != 1 {
		t.Fatalf("applications = %d, want 1", len(applications))
	}
	row := applications[0].(map[string]interface{})
	if row["creator_display_name"] != "Jordan Lee" {
		t.Fatalf("creator_display_name = %v", row["creator_display_name"])
	}
	bids := row["bids"].([]interface{})
	if len(bids) != 1 {
		t.Fatalf("bids = %d, want 1", len(bids))
	}
	if cents := int64(bids[0].(map[string]interface{})["amount_cents"].(float64)); cents != 120000 {
		t.Fatalf("bid amount = %d, want 120000", cents)
	}

	// A creator hitting the brand surface is refused outright.
	status, _ = doJSON(t, app, "GET", "/brand/contracts/"+contractID, "creator-1", nil)
	if status != http.StatusForbidden {
		t.Fatalf("creator on brand detail: status %d", status)
	}
}

func TestExpireOverdueBidsSweep(t *testing.T) {
	_, db := newTestApp(t)

	open := models.Bid{
		ID: "bid-open", ApplicationID: "app-1", ContractID: "c-1",
		AmountCents: 1000, Status: models.BidStatusSubmitted,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	overdue := models.Bid{
		ID: "bid-overdue", ApplicationID: "app-1", ContractID: "c-1",
		AmountCents: 2000, Status: models.BidStatusSubmitted,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	settled := models.Bid{
		ID: "bid-settled", ApplicationID: "app-1", ContractID: "c-1",
		AmountCents: 3000, Status: models.BidStatusAccepted,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	for _, bid := range []models.Bid{open, overdue, settled} {
		if err := db.Create(&bid).Error; err != nil {
			t.Fatalf("seed bid %s: %v", bid.ID, err)
		}
	}

	expired, err := services.ExpireOverdueBids(db, time.Now())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	want := map[string]string{
		"bid-open":    models.BidStatusSubmitted,
		"bid-overdue": models.BidStatusExpired,
		"bid-settled": models.BidStatusAccepted,
	}
	for id, expected := range want {
		var bid models.Bid
		if err := db.First(&bid, "id = ?", id).Error; err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if bid.Status != expected {
			t.Fatalf("%s status = %q, want %q", id, bid.Status, expected)
		}
	}
}
