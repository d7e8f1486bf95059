// Package servicetest carries the fixtures the RPC service tests share: a
// Fiber app configured the way cmd/api builds one, an in-memory store, and
// seeding helpers for authenticated requests.
package servicetest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/apperr"
	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/middleware"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/store/memstore"
	"github.com/campusswap/campusswap-api/internal/validation"
)

// JWTSecret signs every token minted by SeedUser.
const JWTSecret = "test-secret"

// NewApp returns a Fiber app configured like the API binary: the shared
// error handler plus struct validation on Bind.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler:    apperr.ErrorHandler,
		StructValidator: validation.New(),
	})
}

// Auth returns the auth middleware wired to st's sessions, together with
// the JWT service whose tokens it accepts.
func Auth(st *memstore.Store) (fiber.Handler, *auth.JWTService) {
	jwtService := auth.NewJWTService(JWTSecret)
	return middleware.AuthRequired(jwtService, st.Sessions()), jwtService
}

// SeedUniversity inserts an active university using domain for mail checks.
func SeedUniversity(t *testing.T, st *memstore.Store, domain string) *models.University {
	t.Helper()
	now := time.Now()
	u := &models.University{
		ID:          uuid.New(),
		Name:        "Test University",
		EmailDomain: domain,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.Universities().Create(context.Background(), u); err != nil {
		t.Fatalf("seed university: %v", err)
	}
	return u
}

// SeedUser inserts a member of uni with an open session and returns it
// along with a bearer token. The account has no usable password; tests
// exercising login go through the register endpoint instead.
func SeedUser(t *testing.T, st *memstore.Store, jwtService *auth.JWTService, uni *models.University, name string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	user := &models.User{
		ID:              uuid.New(),
		UniversityID:    uni.ID,
		Email:           strings.ToLower(name) + "@" + uni.EmailDomain,
		Name:            name,
		ReputationScore: models.DefaultReputation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	account := &models.Account{
		ID:         uuid.New(),
		UserID:     user.ID,
		ProviderID: models.ProviderCredentials,
		CreatedAt:  now,
	}
	if err := st.Users().CreateWithAccount(ctx, user, account); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}

	token, tokenID, expiresAt, err := jwtService.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("mint token for %s: %v", name, err)
	}
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := st.Sessions().Create(ctx, session); err != nil {
		t.Fatalf("seed session for %s: %v", name, err)
	}
	return user, token
}

// SeedItem inserts an AVAILABLE item owned by owner.
func SeedItem(t *testing.T, st *memstore.Store, owner *models.User, title string) *models.Item {
	t.Helper()
	now := time.Now()
	item := &models.Item{
		ID:           uuid.New(),
		OwnerID:      owner.ID,
		UniversityID: owner.UniversityID,
		Title:        title,
		Description:  "seeded for tests",
		Category:     models.CategoryTextbooks,
		Condition:    models.ConditionGood,
		OpenToOffers: true,
		Status:       models.ItemAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.Items().Create(context.Background(), item); err != nil {
		t.Fatalf("seed item %s: %v", title, err)
	}
	return item
}

// DoJSON posts body as JSON to path, optionally with a bearer token, and
// returns the status code plus the decoded response object.
func DoJSON(t *testing.T, app *fiber.App, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request for %s: %v", path, err)
		}
	}
	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response from %s: %v", path, err)
	}
	return resp.StatusCode, decoded
}

// ErrCode extracts the error code from a failure envelope.
func ErrCode(t *testing.T, body map[string]any) string {
	t.Helper()
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("response carries no error object: %v", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

// Obj digs a nested object out of a decoded response.
func Obj(t *testing.T, body map[string]any, key string) map[string]any {
	t.Helper()
	obj, ok := body[key].(map[string]any)
	if !ok {
		t.Fatalf("response field %q is not an object: %v", key, body[key])
	}
	return obj
}
