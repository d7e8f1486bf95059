package trade

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/services/servicetest"
	"github.com/campusswap/campusswap-api/internal/store/memstore"
)

type party struct {
	user  *models.User
	token string
	item  *models.Item
}

func newTestApp(t *testing.T) (*fiber.App, *memstore.Store, *auth.JWTService) {
	t.Helper()
	st := memstore.New()
	authMW, jwtService := servicetest.Auth(st)
	svc := NewTradeService(st.Trades(), st.Items(), st.Users(), st.Events())
	app := servicetest.NewApp()
	svc.SetupRoutes(app, authMW)
	return app, st, jwtService
}

// seedParties creates two users at the same university, each owning one
// AVAILABLE item.
func seedParties(t *testing.T, st *memstore.Store, jwtService *auth.JWTService) (sender, receiver party) {
	t.Helper()
	uni := servicetest.SeedUniversity(t, st, "campus.edu")

	senderUser, senderToken := servicetest.SeedUser(t, st, jwtService, uni, "Sender")
	receiverUser, receiverToken := servicetest.SeedUser(t, st, jwtService, uni, "Receiver")

	sender = party{senderUser, senderToken, servicetest.SeedItem(t, st, senderUser, "calculus textbook")}
	receiver = party{receiverUser, receiverToken, servicetest.SeedItem(t, st, receiverUser, "desk lamp")}
	return sender, receiver
}

func propose(t *testing.T, app *fiber.App, sender, receiver party) string {
	t.Helper()
	status, body := servicetest.DoJSON(t, app, "/rpc/trades.propose", sender.token, map[string]any{
		"receiver_item_ids": []string{receiver.item.ID.String()},
		"sender_item_ids":   []string{sender.item.ID.String()},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("propose status = %d, body %v", status, body)
	}
	trade := servicetest.Obj(t, body, "trade")
	if trade["status"] != string(models.TradePending) {
		t.Fatalf("new trade status = %v, want PENDING", trade["status"])
	}
	id, _ := trade["id"].(string)
	if id == "" {
		t.Fatal("propose returned no trade id")
	}
	return id
}

func itemStatus(t *testing.T, st *memstore.Store, id uuid.UUID) models.ItemStatus {
	t.Helper()
	item, err := st.Items().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load item: %v", err)
	}
	return item.Status
}

func TestTradeLifecycleHappyPath(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	ctx := context.Background()

	tradeID := propose(t, app, sender, receiver)

	// A proposal alone reserves nothing.
	if got := itemStatus(t, st, sender.item.ID); got != models.ItemAvailable {
		t.Errorf("sender item after propose = %s, want AVAILABLE", got)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.accept", receiver.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusOK {
		t.Fatalf("accept status = %d, body %v", status, body)
	}
	for _, id := range []uuid.UUID{sender.item.ID, receiver.item.ID} {
		if got := itemStatus(t, st, id); got != models.ItemPendingTrade {
			t.Errorf("item after accept = %s, want PENDING_TRADE", got)
		}
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/trades.confirm", sender.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusOK {
		t.Fatalf("first confirm status = %d, body %v", status, body)
	}
	if body["completed"] != false {
		t.Fatalf("first confirm completed = %v, want false", body["completed"])
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/trades.confirm", receiver.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusOK {
		t.Fatalf("second confirm status = %d, body %v", status, body)
	}
	if body["completed"] != true {
		t.Fatalf("second confirm completed = %v, want true", body["completed"])
	}
	trade := servicetest.Obj(t, body, "trade")
	if trade["status"] != string(models.TradeCompleted) {
		t.Errorf("trade status = %v, want COMPLETED", trade["status"])
	}
	if trade["completed_at"] == nil {
		t.Error("completed trade has no completed_at")
	}

	for _, id := range []uuid.UUID{sender.item.ID, receiver.item.ID} {
		if got := itemStatus(t, st, id); got != models.ItemTraded {
			t.Errorf("item after completion = %s, want TRADED", got)
		}
	}
	for _, u := range []*models.User{sender.user, receiver.user} {
		loaded, err := st.Users().GetByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("load user: %v", err)
		}
		if loaded.TotalTrades != 1 {
			t.Errorf("%s total trades = %d, want 1", loaded.Name, loaded.TotalTrades)
		}
	}

	// The audit trail records every transition in order.
	events := st.Events().TradeEvents(tradeID)
	if len(events) != 3 {
		t.Fatalf("trade events = %d, want 3", len(events))
	}
	wantTo := []string{string(models.TradePending), string(models.TradeAccepted), string(models.TradeCompleted)}
	for i, e := range events {
		if e.ToStatus != wantTo[i] {
			t.Errorf("event %d to_status = %s, want %s", i, e.ToStatus, wantTo[i])
		}
	}

	notifs, err := st.Events().Notifications(ctx, receiver.user.ID.String(), false, 50)
	if err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	var sawProposed bool
	for _, n := range notifs {
		if n.Type == models.NotifTradeProposed && n.RefID == tradeID {
			sawProposed = true
		}
	}
	if !sawProposed {
		t.Error("receiver never notified about the proposal")
	}
}

func TestProposeRejectsSelfTrade(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, _ := seedParties(t, st, jwtService)
	second := servicetest.SeedItem(t, st, sender.user, "spare charger")

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.propose", sender.token, map[string]any{
		"receiver_item_ids": []string{second.ID.String()},
		"sender_item_ids":   []string{sender.item.ID.String()},
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestProposeRejectsForeignSenderItems(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	second := servicetest.SeedItem(t, st, receiver.user, "bike helmet")

	// Sender offers the receiver's own item.
	status, body := servicetest.DoJSON(t, app, "/rpc/trades.propose", sender.token, map[string]any{
		"receiver_item_ids": []string{receiver.item.ID.String()},
		"sender_item_ids":   []string{second.ID.String()},
	})
	if status != fiber.StatusForbidden {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if code := servicetest.ErrCode(t, body); code != "FORBIDDEN" {
		t.Errorf("code = %s, want FORBIDDEN", code)
	}
}

func TestProposeRejectsMixedOwnership(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.propose", sender.token, map[string]any{
		"receiver_item_ids": []string{receiver.item.ID.String(), sender.item.ID.String()},
		"sender_item_ids":   []string{sender.item.ID.String()},
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestProposeUnknownItem(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, _ := seedParties(t, st, jwtService)

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.propose", sender.token, map[string]any{
		"receiver_item_ids": []string{uuid.NewString()},
		"sender_item_ids":   []string{sender.item.ID.String()},
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestProposeUnavailableItem(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	err := st.Items().SetStatus(context.Background(), receiver.item.ID, models.ItemAvailable, models.ItemRemoved)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.propose", sender.token, map[string]any{
		"receiver_item_ids": []string{receiver.item.ID.String()},
		"sender_item_ids":   []string{sender.item.ID.String()},
	})
	if status != fiber.StatusConflict {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestProposeRequiresItemsOnBothSides(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.propose", sender.token, map[string]any{
		"receiver_item_ids": []string{receiver.item.ID.String()},
		"sender_item_ids":   []string{},
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestAcceptOnlyByReceiver(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	uni := servicetest.SeedUniversity(t, st, "other.edu")
	_, strangerToken := servicetest.SeedUser(t, st, jwtService, uni, "Stranger")

	tradeID := propose(t, app, sender, receiver)

	for name, token := range map[string]string{"sender": sender.token, "stranger": strangerToken} {
		status, body := servicetest.DoJSON(t, app, "/rpc/trades.accept", token, map[string]any{"trade_id": tradeID})
		if status != fiber.StatusForbidden {
			t.Errorf("%s accept: status = %d, body %v", name, status, body)
		}
	}
}

func TestDeclinedTradeIsFinal(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	tradeID := propose(t, app, sender, receiver)

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.decline", receiver.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusOK {
		t.Fatalf("decline status = %d, body %v", status, body)
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/trades.accept", receiver.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusConflict {
		t.Fatalf("accept after decline: status = %d, body %v", status, body)
	}
	if code := servicetest.ErrCode(t, body); code != "CONFLICT" {
		t.Errorf("code = %s, want CONFLICT", code)
	}
}

func TestConfirmRequiresAcceptedTrade(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	tradeID := propose(t, app, sender, receiver)

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.confirm", sender.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusConflict {
		t.Fatalf("confirm on pending trade: status = %d, body %v", status, body)
	}
}

func TestConfirmTwiceBySameParty(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	tradeID := propose(t, app, sender, receiver)

	if status, body := servicetest.DoJSON(t, app, "/rpc/trades.accept", receiver.token, map[string]any{"trade_id": tradeID}); status != fiber.StatusOK {
		t.Fatalf("accept status = %d, body %v", status, body)
	}
	if status, body := servicetest.DoJSON(t, app, "/rpc/trades.confirm", sender.token, map[string]any{"trade_id": tradeID}); status != fiber.StatusOK {
		t.Fatalf("first confirm status = %d, body %v", status, body)
	}
	status, body := servicetest.DoJSON(t, app, "/rpc/trades.confirm", sender.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusConflict {
		t.Fatalf("repeat confirm status = %d, body %v", status, body)
	}
}

func TestCancelReleasesReservedItems(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	tradeID := propose(t, app, sender, receiver)

	if status, body := servicetest.DoJSON(t, app, "/rpc/trades.accept", receiver.token, map[string]any{"trade_id": tradeID}); status != fiber.StatusOK {
		t.Fatalf("accept status = %d, body %v", status, body)
	}
	status, body := servicetest.DoJSON(t, app, "/rpc/trades.cancel", sender.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusOK {
		t.Fatalf("cancel status = %d, body %v", status, body)
	}

	for _, id := range []uuid.UUID{sender.item.ID, receiver.item.ID} {
		if got := itemStatus(t, st, id); got != models.ItemAvailable {
			t.Errorf("item after cancel = %s, want AVAILABLE", got)
		}
	}
}

func TestCompletedTradeCannotBeCancelled(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	tradeID := propose(t, app, sender, receiver)

	for _, step := range []struct {
		path  string
		token string
	}{
		{"/rpc/trades.accept", receiver.token},
		{"/rpc/trades.confirm", sender.token},
		{"/rpc/trades.confirm", receiver.token},
	} {
		if status, body := servicetest.DoJSON(t, app, step.path, step.token, map[string]any{"trade_id": tradeID}); status != fiber.StatusOK {
			t.Fatalf("%s status = %d, body %v", step.path, status, body)
		}
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/trades.cancel", sender.token, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusConflict {
		t.Fatalf("cancel completed trade: status = %d, body %v", status, body)
	}
}

// Two pending trades want the same item; accepting the first reserves it,
// so accepting the second must fail.
func TestAcceptPreventsDoubleBooking(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	uni := servicetest.SeedUniversity(t, st, "second.edu")
	rivalUser, rivalToken := servicetest.SeedUser(t, st, jwtService, uni, "Rival")
	rival := party{rivalUser, rivalToken, servicetest.SeedItem(t, st, rivalUser, "mini fridge")}

	first := propose(t, app, sender, receiver)
	second := propose(t, app, rival, receiver)

	if status, body := servicetest.DoJSON(t, app, "/rpc/trades.accept", receiver.token, map[string]any{"trade_id": first}); status != fiber.StatusOK {
		t.Fatalf("first accept status = %d, body %v", status, body)
	}
	status, body := servicetest.DoJSON(t, app, "/rpc/trades.accept", receiver.token, map[string]any{"trade_id": second})
	if status != fiber.StatusConflict {
		t.Fatalf("second accept status = %d, body %v", status, body)
	}
	if code := servicetest.ErrCode(t, body); code != "CONFLICT" {
		t.Errorf("code = %s, want CONFLICT", code)
	}

	// The rival's offered item was never reserved.
	if got := itemStatus(t, st, rival.item.ID); got != models.ItemAvailable {
		t.Errorf("rival item = %s, want AVAILABLE", got)
	}
}

func TestGetByIDOnlyForParties(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	uni := servicetest.SeedUniversity(t, st, "other.edu")
	_, strangerToken := servicetest.SeedUser(t, st, jwtService, uni, "Stranger")

	tradeID := propose(t, app, sender, receiver)

	if status, _ := servicetest.DoJSON(t, app, "/rpc/trades.getById", sender.token, map[string]any{"trade_id": tradeID}); status != fiber.StatusOK {
		t.Errorf("sender view: status = %d, want 200", status)
	}
	status, body := servicetest.DoJSON(t, app, "/rpc/trades.getById", strangerToken, map[string]any{"trade_id": tradeID})
	if status != fiber.StatusForbidden {
		t.Errorf("stranger view: status = %d, body %v", status, body)
	}
}

func TestMyTradesFiltersByStatus(t *testing.T) {
	app, st, jwtService := newTestApp(t)
	sender, receiver := seedParties(t, st, jwtService)
	senderSecond := servicetest.SeedItem(t, st, sender.user, "headphones")
	receiverSecond := servicetest.SeedItem(t, st, receiver.user, "poster set")

	propose(t, app, sender, receiver)
	second := propose(t, app, party{sender.user, sender.token, senderSecond}, party{receiver.user, receiver.token, receiverSecond})

	if status, body := servicetest.DoJSON(t, app, "/rpc/trades.decline", receiver.token, map[string]any{"trade_id": second}); status != fiber.StatusOK {
		t.Fatalf("decline status = %d, body %v", status, body)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/users.myTrades", sender.token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("myTrades status = %d, body %v", status, body)
	}
	if body["count"] != float64(2) {
		t.Errorf("unfiltered count = %v, want 2", body["count"])
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/users.myTrades", sender.token, map[string]any{"status": "DECLINED"})
	if status != fiber.StatusOK {
		t.Fatalf("filtered myTrades status = %d, body %v", status, body)
	}
	if body["count"] != float64(1) {
		t.Errorf("declined count = %v, want 1", body["count"])
	}
	trades, _ := body["trades"].([]any)
	if len(trades) == 1 {
		tr, _ := trades[0].(map[string]any)
		if tr["id"] != second {
			t.Errorf("filtered trade id = %v, want %s", tr["id"], second)
		}
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/users.myTrades", sender.token, map[string]any{"status": "NOT_A_STATUS"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("unknown status filter: status = %d, body %v", status, body)
	}
}
