package review

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/services/servicetest"
	"github.com/campusswap/campusswap-api/internal/store/memstore"
)

func newTestApp(t *testing.T) (*fiber.App, *memstore.Store, *auth.JWTService) {
	t.Helper()
	st := memstore.New()
	authMW, jwtService := servicetest.Auth(st)
	svc := NewReviewService(st.Reviews(), st.Trades(), st.Events())
	app := servicetest.NewApp()
	svc.SetupRoutes(app, authMW)
	return app, st, jwtService
}

func seedTrade(t *testing.T, st *memstore.Store, sender, receiver *models.User, status models.TradeStatus) *models.Trade {
	t.Helper()
	now := time.Now()
	trade := &models.Trade{
		ID:              uuid.New(),
		SenderID:        sender.ID,
		ReceiverID:      receiver.ID,
		SenderItemIDs:   []uuid.UUID{uuid.New()},
		ReceiverItemIDs: []uuid.UUID{uuid.New()},
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == models.TradeCompleted {
		trade.SenderConfirmed = true
		trade.ReceiverConfirmed = true
		trade.CompletedAt = &now
	}
	if err := st.Trades().Create(context.Background(), trade); err != nil {
		t.Fatalf("seed trade: %v", err)
	}
	return trade
}

func TestCreateReviewUpdatesReputation(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	alice, aliceToken := servicetest.SeedUser(t, st, jwtService, uni, "Alice")
	bob, bobToken := servicetest.SeedUser(t, st, jwtService, uni, "Bob")
	trade := seedTrade(t, st, alice, bob, models.TradeCompleted)

	status, body := servicetest.DoJSON(t, app, "/rpc/reviews.create", aliceToken, map[string]any{
		"trade_id": trade.ID.String(),
		"rating":   4,
		"comment":  "smooth trade",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %v", status, body)
	}
	review := servicetest.Obj(t, body, "review")
	if review["reviewee_id"] != bob.ID.String() {
		t.Errorf("reviewee_id = %v, want the counterparty %s", review["reviewee_id"], bob.ID)
	}

	reloaded, err := st.Users().GetByID(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("reload bob: %v", err)
	}
	if reloaded.ReputationScore != 4 {
		t.Errorf("bob reputation = %v, want 4", reloaded.ReputationScore)
	}

	// The other side reviews back through the same trade.
	status, body = servicetest.DoJSON(t, app, "/rpc/reviews.create", bobToken, map[string]any{
		"trade_id": trade.ID.String(),
		"rating":   5,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("counter review status = %d, body %v", status, body)
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/reviews.listForUser", "", map[string]any{
		"user_id": bob.ID.String(),
	})
	if status != fiber.StatusOK {
		t.Fatalf("listForUser status = %d, body %v", status, body)
	}
	if body["count"] != float64(1) {
		t.Fatalf("bob received = %v reviews, want 1", body["count"])
	}
	reviews, _ := body["reviews"].([]any)
	got, _ := reviews[0].(map[string]any)
	reviewer, _ := got["reviewer"].(map[string]any)
	if reviewer == nil || reviewer["name"] != "Alice" {
		t.Errorf("review not hydrated with reviewer: %v", got)
	}
}

func TestCreateReviewOncePerTrade(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	alice, aliceToken := servicetest.SeedUser(t, st, jwtService, uni, "Alice")
	bob, _ := servicetest.SeedUser(t, st, jwtService, uni, "Bob")
	trade := seedTrade(t, st, alice, bob, models.TradeCompleted)

	if status, body := servicetest.DoJSON(t, app, "/rpc/reviews.create", aliceToken, map[string]any{
		"trade_id": trade.ID.String(), "rating": 5,
	}); status != fiber.StatusCreated {
		t.Fatalf("first review status = %d, body %v", status, body)
	}
	status, body := servicetest.DoJSON(t, app, "/rpc/reviews.create", aliceToken, map[string]any{
		"trade_id": trade.ID.String(), "rating": 1,
	})
	if status != fiber.StatusConflict {
		t.Fatalf("second review status = %d, body %v", status, body)
	}
	if code := servicetest.ErrCode(t, body); code != "CONFLICT" {
		t.Errorf("code = %s, want CONFLICT", code)
	}
}

func TestCreateReviewRequiresCompletedTrade(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	alice, aliceToken := servicetest.SeedUser(t, st, jwtService, uni, "Alice")
	bob, _ := servicetest.SeedUser(t, st, jwtService, uni, "Bob")
	trade := seedTrade(t, st, alice, bob, models.TradeAccepted)

	status, body := servicetest.DoJSON(t, app, "/rpc/reviews.create", aliceToken, map[string]any{
		"trade_id": trade.ID.String(), "rating": 5,
	})
	if status != fiber.StatusConflict {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestCreateReviewPartyOnly(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	alice, _ := servicetest.SeedUser(t, st, jwtService, uni, "Alice")
	bob, _ := servicetest.SeedUser(t, st, jwtService, uni, "Bob")
	_, carolToken := servicetest.SeedUser(t, st, jwtService, uni, "Carol")
	trade := seedTrade(t, st, alice, bob, models.TradeCompleted)

	status, body := servicetest.DoJSON(t, app, "/rpc/reviews.create", carolToken, map[string]any{
		"trade_id": trade.ID.String(), "rating": 5,
	})
	if status != fiber.StatusForbidden {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestCreateReviewValidation(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	alice, aliceToken := servicetest.SeedUser(t, st, jwtService, uni, "Alice")
	bob, _ := servicetest.SeedUser(t, st, jwtService, uni, "Bob")
	trade := seedTrade(t, st, alice, bob, models.TradeCompleted)

	for name, tc := range map[string]struct {
		req  map[string]any
		want int
	}{
		"rating too low":  {map[string]any{"trade_id": trade.ID.String(), "rating": 0}, fiber.StatusBadRequest},
		"rating too high": {map[string]any{"trade_id": trade.ID.String(), "rating": 6}, fiber.StatusBadRequest},
		"unknown trade":   {map[string]any{"trade_id": uuid.NewString(), "rating": 5}, fiber.StatusNotFound},
	} {
		status, body := servicetest.DoJSON(t, app, "/rpc/reviews.create", aliceToken, tc.req)
		if status != tc.want {
			t.Errorf("%s: status = %d, want %d, body %v", name, status, tc.want, body)
		}
	}
}

func TestMyReviewsCoversBothDirections(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	alice, aliceToken := servicetest.SeedUser(t, st, jwtService, uni, "Alice")
	bob, bobToken := servicetest.SeedUser(t, st, jwtService, uni, "Bob")
	trade := seedTrade(t, st, alice, bob, models.TradeCompleted)

	if status, body := servicetest.DoJSON(t, app, "/rpc/reviews.create", aliceToken, map[string]any{
		"trade_id": trade.ID.String(), "rating": 4,
	}); status != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %v", status, body)
	}

	for name, token := range map[string]string{"reviewer": aliceToken, "reviewee": bobToken} {
		status, body := servicetest.DoJSON(t, app, "/rpc/users.myReviews", token, nil)
		if status != fiber.StatusOK {
			t.Fatalf("%s myReviews status = %d, body %v", name, status, body)
		}
		if body["count"] != float64(1) {
			t.Errorf("%s myReviews count = %v, want 1", name, body["count"])
		}
	}
}
