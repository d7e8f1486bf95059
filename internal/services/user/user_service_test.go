package user

import (
	"context"
	"reflect"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/config"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/services/servicetest"
	"github.com/campusswap/campusswap-api/internal/store/memstore"
)

func newTestApp(t *testing.T) (*fiber.App, *memstore.Store, *models.University, *auth.JWTService) {
	t.Helper()
	st := memstore.New()
	authMW, jwtService := servicetest.Auth(st)
	cfg := &config.Config{JWTSecret: servicetest.JWTSecret}
	svc := NewUserService(cfg, jwtService, st.Users(), st.Sessions(), st.Universities())
	app := servicetest.NewApp()
	svc.SetupRoutes(app, authMW)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	return app, st, uni, jwtService
}

func registerBody(universityID, email string) map[string]any {
	return map[string]any{
		"email":         email,
		"password":      "password1",
		"name":          "Alice",
		"university_id": universityID,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app, _, uni, _ := newTestApp(t)

	status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", registerBody(uni.ID.String(), "alice@campus.edu"))
	if status != fiber.StatusCreated {
		t.Fatalf("register status = %d, body %v", status, body)
	}
	registered := servicetest.Obj(t, body, "user")
	userID, _ := registered["id"].(string)
	if userID == "" {
		t.Fatal("register returned no user id")
	}
	if registered["email"] != "alice@campus.edu" {
		t.Errorf("registered email = %v, want alice@campus.edu", registered["email"])
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/users.login", "", map[string]any{
		"email": "alice@campus.edu", "password": "wrong-password",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("login with wrong password: status = %d, want 401", status)
	}
	if code := servicetest.ErrCode(t, body); code != "UNAUTHORIZED" {
		t.Errorf("login with wrong password: code = %s, want UNAUTHORIZED", code)
	}

	// Email lookup is case-insensitive.
	status, body = servicetest.DoJSON(t, app, "/rpc/users.login", "", map[string]any{
		"email": "ALICE@campus.edu", "password": "password1",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login status = %d, body %v", status, body)
	}
	if token, _ := body["token"].(string); token == "" {
		t.Error("login returned no token")
	}
	if got := servicetest.Obj(t, body, "user")["id"]; got != userID {
		t.Errorf("login user id = %v, want %s", got, userID)
	}
}

func TestRegisterRejectsForeignDomain(t *testing.T) {
	app, _, uni, _ := newTestApp(t)

	status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", registerBody(uni.ID.String(), "alice@elsewhere.edu"))
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if code := servicetest.ErrCode(t, body); code != "VALIDATION" {
		t.Errorf("code = %s, want VALIDATION", code)
	}
}

func TestRegisterUnknownUniversity(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	body := registerBody("6f1b24c0-0000-4000-8000-000000000000", "alice@campus.edu")
	status, resp := servicetest.DoJSON(t, app, "/rpc/users.register", "", body)
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, body %v", status, resp)
	}
}

func TestRegisterInactiveUniversity(t *testing.T) {
	app, st, uni, _ := newTestApp(t)
	if err := st.Universities().SetActive(context.Background(), uni.ID, false); err != nil {
		t.Fatalf("deactivate university: %v", err)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", registerBody(uni.ID.String(), "alice@campus.edu"))
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _, uni, _ := newTestApp(t)

	if status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", registerBody(uni.ID.String(), "alice@campus.edu")); status != fiber.StatusCreated {
		t.Fatalf("first register status = %d, body %v", status, body)
	}
	status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", registerBody(uni.ID.String(), "alice@campus.edu"))
	if status != fiber.StatusConflict {
		t.Fatalf("second register status = %d, want 409", status)
	}
	if code := servicetest.ErrCode(t, body); code != "CONFLICT" {
		t.Errorf("code = %s, want CONFLICT", code)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	app, _, uni, _ := newTestApp(t)

	cases := map[string]map[string]any{
		"short password": {"email": "a@campus.edu", "password": "short", "name": "A", "university_id": uni.ID.String()},
		"bad email":      {"email": "not-an-email", "password": "password1", "name": "A", "university_id": uni.ID.String()},
		"missing name":   {"email": "a@campus.edu", "password": "password1", "university_id": uni.ID.String()},
	}
	for name, req := range cases {
		status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", req)
		if status != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, body %v", name, status, body)
		}
	}
}

// Login failures must be indistinguishable whether the email is unknown or
// the password is wrong.
func TestLoginFailuresAreUniform(t *testing.T) {
	app, _, uni, _ := newTestApp(t)

	if status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", registerBody(uni.ID.String(), "alice@campus.edu")); status != fiber.StatusCreated {
		t.Fatalf("register status = %d, body %v", status, body)
	}

	unknownStatus, unknownBody := servicetest.DoJSON(t, app, "/rpc/users.login", "", map[string]any{
		"email": "nobody@campus.edu", "password": "password1",
	})
	wrongStatus, wrongBody := servicetest.DoJSON(t, app, "/rpc/users.login", "", map[string]any{
		"email": "alice@campus.edu", "password": "not-the-password",
	})

	if unknownStatus != fiber.StatusUnauthorized || wrongStatus != fiber.StatusUnauthorized {
		t.Fatalf("statuses = %d and %d, want 401 for both", unknownStatus, wrongStatus)
	}
	if !reflect.DeepEqual(unknownBody, wrongBody) {
		t.Errorf("failure envelopes differ:\nunknown email: %v\nwrong password: %v", unknownBody, wrongBody)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	app, _, uni, _ := newTestApp(t)

	if status, body := servicetest.DoJSON(t, app, "/rpc/users.register", "", registerBody(uni.ID.String(), "alice@campus.edu")); status != fiber.StatusCreated {
		t.Fatalf("register status = %d, body %v", status, body)
	}
	status, body := servicetest.DoJSON(t, app, "/rpc/users.login", "", map[string]any{
		"email": "alice@campus.edu", "password": "password1",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login status = %d, body %v", status, body)
	}
	token, _ := body["token"].(string)

	if status, _ := servicetest.DoJSON(t, app, "/rpc/users.me", token, nil); status != fiber.StatusOK {
		t.Fatalf("me before logout: status = %d", status)
	}
	if status, _ := servicetest.DoJSON(t, app, "/rpc/auth.logout", token, nil); status != fiber.StatusOK {
		t.Fatalf("logout status = %d", status)
	}
	status, body = servicetest.DoJSON(t, app, "/rpc/users.me", token, nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("me after logout: status = %d, want 401", status)
	}
	if code := servicetest.ErrCode(t, body); code != "UNAUTHORIZED" {
		t.Errorf("code = %s, want UNAUTHORIZED", code)
	}
}

func TestMeRequiresAuth(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	if status, _ := servicetest.DoJSON(t, app, "/rpc/users.me", "", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

// Profile updates may touch only the allow-listed fields. Extra keys in the
// request body must not leak into email, reputation or trade counters.
func TestUpdateMeIsAllowListed(t *testing.T) {
	app, st, uni, jwtService := newTestApp(t)
	seeded, token := servicetest.SeedUser(t, st, jwtService, uni, "Bob")

	status, body := servicetest.DoJSON(t, app, "/rpc/users.updateMe", token, map[string]any{
		"name":             "Bobby",
		"major":            "Physics",
		"email":            "hijack@campus.edu",
		"reputation_score": 1.0,
		"total_trades":     99,
	})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}

	updated := servicetest.Obj(t, body, "user")
	if updated["name"] != "Bobby" || updated["major"] != "Physics" {
		t.Errorf("update not applied: %v", updated)
	}
	if updated["email"] != seeded.Email {
		t.Errorf("email changed to %v", updated["email"])
	}
	if updated["reputation_score"] != models.DefaultReputation {
		t.Errorf("reputation_score changed to %v", updated["reputation_score"])
	}
	if updated["total_trades"] != float64(0) {
		t.Errorf("total_trades changed to %v", updated["total_trades"])
	}
}

func TestGetByIDHidesPrivateFields(t *testing.T) {
	app, st, uni, jwtService := newTestApp(t)
	dorm := "West Hall 4B"
	seeded, _ := servicetest.SeedUser(t, st, jwtService, uni, "Carol")
	if _, err := st.Users().UpdateProfile(context.Background(), seeded.ID, models.ProfileUpdate{DormLocation: &dorm}); err != nil {
		t.Fatalf("seed dorm location: %v", err)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/users.getById", "", map[string]any{
		"user_id": seeded.ID.String(),
	})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	profile := servicetest.Obj(t, body, "user")
	for _, hidden := range []string{"email", "phone_number", "dorm_location"} {
		if _, present := profile[hidden]; present {
			t.Errorf("public profile leaks %s", hidden)
		}
	}
	if profile["name"] != "Carol" {
		t.Errorf("name = %v, want Carol", profile["name"])
	}
}
