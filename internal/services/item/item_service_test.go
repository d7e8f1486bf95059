package item

import (
	"context"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/campusswap/campusswap-api/internal/auth"
	"github.com/campusswap/campusswap-api/internal/models"
	"github.com/campusswap/campusswap-api/internal/services/servicetest"
	"github.com/campusswap/campusswap-api/internal/store/memstore"
)

type stubDestroyer struct {
	mu    sync.Mutex
	calls [][]string
}

func (d *stubDestroyer) DestroyImages(ctx context.Context, urls []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, urls)
}

func newTestApp(t *testing.T) (*fiber.App, *memstore.Store, *auth.JWTService, *stubDestroyer) {
	t.Helper()
	st := memstore.New()
	authMW, jwtService := servicetest.Auth(st)
	destroyer := &stubDestroyer{}
	svc := NewItemService(st.Items(), st.Users(), destroyer)
	app := servicetest.NewApp()
	svc.SetupRoutes(app, authMW)
	return app, st, jwtService, destroyer
}

func TestCreateAndGetItem(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	owner, token := servicetest.SeedUser(t, st, jwtService, uni, "Owner")

	status, body := servicetest.DoJSON(t, app, "/rpc/items.create", token, map[string]any{
		"title":     "Linear Algebra, 4th ed.",
		"category":  "TEXTBOOKS",
		"condition": "GOOD",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %v", status, body)
	}
	created := servicetest.Obj(t, body, "item")
	if created["owner_id"] != owner.ID.String() {
		t.Errorf("owner_id = %v, want %s", created["owner_id"], owner.ID)
	}
	if created["university_id"] != uni.ID.String() {
		t.Errorf("university_id = %v, want %s", created["university_id"], uni.ID)
	}
	if created["status"] != string(models.ItemAvailable) {
		t.Errorf("status = %v, want AVAILABLE", created["status"])
	}
	if created["open_to_offers"] != true {
		t.Errorf("open_to_offers default = %v, want true", created["open_to_offers"])
	}

	// Browsing is public.
	status, body = servicetest.DoJSON(t, app, "/rpc/items.getById", "", map[string]any{"item_id": created["id"]})
	if status != fiber.StatusOK {
		t.Fatalf("getById status = %d, body %v", status, body)
	}
}

func TestCreateRejectsUnknownEnums(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	_, token := servicetest.SeedUser(t, st, jwtService, uni, "Owner")

	for name, req := range map[string]map[string]any{
		"category":  {"title": "x", "category": "WIDGETS", "condition": "GOOD"},
		"condition": {"title": "x", "category": "TEXTBOOKS", "condition": "BROKEN"},
	} {
		status, body := servicetest.DoJSON(t, app, "/rpc/items.create", token, req)
		if status != fiber.StatusBadRequest {
			t.Errorf("unknown %s: status = %d, body %v", name, status, body)
		}
	}
}

func TestGetByIDHidesRemovedItems(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	owner, _ := servicetest.SeedUser(t, st, jwtService, uni, "Owner")
	item := servicetest.SeedItem(t, st, owner, "old couch")

	err := st.Items().SetStatus(context.Background(), item.ID, models.ItemAvailable, models.ItemRemoved)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/items.getById", "", map[string]any{"item_id": item.ID.String()})
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestListShowsOnlyAvailable(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	owner, _ := servicetest.SeedUser(t, st, jwtService, uni, "Owner")
	ctx := context.Background()

	visible := servicetest.SeedItem(t, st, owner, "desk lamp")
	reserved := servicetest.SeedItem(t, st, owner, "bike")
	removed := servicetest.SeedItem(t, st, owner, "mattress")
	if err := st.Items().SetStatus(ctx, reserved.ID, models.ItemAvailable, models.ItemPendingTrade); err != nil {
		t.Fatalf("reserve item: %v", err)
	}
	if err := st.Items().SetStatus(ctx, removed.ID, models.ItemAvailable, models.ItemRemoved); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/items.list", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("list status = %d, body %v", status, body)
	}
	if body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1, body %v", body["count"], body)
	}
	items, _ := body["items"].([]any)
	first, _ := items[0].(map[string]any)
	if first["id"] != visible.ID.String() {
		t.Errorf("listed id = %v, want %s", first["id"], visible.ID)
	}
}

func TestListFiltersByUniversityAndCategory(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uniA := servicetest.SeedUniversity(t, st, "a.edu")
	uniB := servicetest.SeedUniversity(t, st, "b.edu")
	ownerA, _ := servicetest.SeedUser(t, st, jwtService, uniA, "OwnerA")
	ownerB, _ := servicetest.SeedUser(t, st, jwtService, uniB, "OwnerB")

	servicetest.SeedItem(t, st, ownerA, "campus A textbook")
	servicetest.SeedItem(t, st, ownerB, "campus B textbook")

	status, body := servicetest.DoJSON(t, app, "/rpc/items.list", "", map[string]any{
		"university_id": uniA.ID.String(),
	})
	if status != fiber.StatusOK {
		t.Fatalf("list status = %d, body %v", status, body)
	}
	if body["count"] != float64(1) {
		t.Errorf("university filter count = %v, want 1", body["count"])
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/items.list", "", map[string]any{"category": "FURNITURE"})
	if status != fiber.StatusOK {
		t.Fatalf("list status = %d, body %v", status, body)
	}
	if body["count"] != float64(0) {
		t.Errorf("category filter count = %v, want 0", body["count"])
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/items.list", "", map[string]any{"category": "NOT_A_CATEGORY"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("bad category filter: status = %d, body %v", status, body)
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	owner, ownerToken := servicetest.SeedUser(t, st, jwtService, uni, "Owner")
	_, otherToken := servicetest.SeedUser(t, st, jwtService, uni, "Other")
	item := servicetest.SeedItem(t, st, owner, "desk lamp")

	status, body := servicetest.DoJSON(t, app, "/rpc/items.update", otherToken, map[string]any{
		"item_id": item.ID.String(),
		"title":   "hijacked",
	})
	if status != fiber.StatusForbidden {
		t.Fatalf("foreign update: status = %d, body %v", status, body)
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/items.update", ownerToken, map[string]any{
		"item_id": item.ID.String(),
		"title":   "desk lamp, barely used",
	})
	if status != fiber.StatusOK {
		t.Fatalf("owner update: status = %d, body %v", status, body)
	}
	if got := servicetest.Obj(t, body, "item")["title"]; got != "desk lamp, barely used" {
		t.Errorf("title = %v, not updated", got)
	}
}

func TestUpdateLockedOncePendingTrade(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	owner, token := servicetest.SeedUser(t, st, jwtService, uni, "Owner")
	item := servicetest.SeedItem(t, st, owner, "desk lamp")

	err := st.Items().SetStatus(context.Background(), item.ID, models.ItemAvailable, models.ItemPendingTrade)
	if err != nil {
		t.Fatalf("reserve item: %v", err)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/items.update", token, map[string]any{
		"item_id": item.ID.String(),
		"title":   "too late",
	})
	if status != fiber.StatusConflict {
		t.Fatalf("status = %d, body %v", status, body)
	}
}

func TestRemoveSoftDeletesAndDestroysImages(t *testing.T) {
	app, st, jwtService, destroyer := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	_, token := servicetest.SeedUser(t, st, jwtService, uni, "Owner")

	urls := []string{"https://res.cloudinary.com/demo/image/upload/v99/items/lamp.jpg"}
	status, body := servicetest.DoJSON(t, app, "/rpc/items.create", token, map[string]any{
		"title":      "desk lamp",
		"category":   "FURNITURE",
		"condition":  "GOOD",
		"image_urls": urls,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, body %v", status, body)
	}
	itemID, _ := servicetest.Obj(t, body, "item")["id"].(string)

	status, body = servicetest.DoJSON(t, app, "/rpc/items.remove", token, map[string]any{"item_id": itemID})
	if status != fiber.StatusOK {
		t.Fatalf("remove status = %d, body %v", status, body)
	}

	status, _ = servicetest.DoJSON(t, app, "/rpc/items.getById", "", map[string]any{"item_id": itemID})
	if status != fiber.StatusNotFound {
		t.Errorf("removed item still visible: status = %d", status)
	}

	destroyer.mu.Lock()
	defer destroyer.mu.Unlock()
	if len(destroyer.calls) != 1 || len(destroyer.calls[0]) != 1 || destroyer.calls[0][0] != urls[0] {
		t.Errorf("destroyer calls = %v, want one call with %v", destroyer.calls, urls)
	}
}

func TestRemoveRequiresOwnership(t *testing.T) {
	app, st, jwtService, destroyer := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	owner, _ := servicetest.SeedUser(t, st, jwtService, uni, "Owner")
	_, otherToken := servicetest.SeedUser(t, st, jwtService, uni, "Other")
	item := servicetest.SeedItem(t, st, owner, "desk lamp")

	status, body := servicetest.DoJSON(t, app, "/rpc/items.remove", otherToken, map[string]any{
		"item_id": item.ID.String(),
	})
	if status != fiber.StatusForbidden {
		t.Fatalf("status = %d, body %v", status, body)
	}
	destroyer.mu.Lock()
	defer destroyer.mu.Unlock()
	if len(destroyer.calls) != 0 {
		t.Errorf("destroyer called %d times on a forbidden remove", len(destroyer.calls))
	}
}

func TestMyItemsIncludesRemovedOnRequest(t *testing.T) {
	app, st, jwtService, _ := newTestApp(t)
	uni := servicetest.SeedUniversity(t, st, "campus.edu")
	owner, token := servicetest.SeedUser(t, st, jwtService, uni, "Owner")

	servicetest.SeedItem(t, st, owner, "kept")
	gone := servicetest.SeedItem(t, st, owner, "gone")
	if err := st.Items().SetStatus(context.Background(), gone.ID, models.ItemAvailable, models.ItemRemoved); err != nil {
		t.Fatalf("remove item: %v", err)
	}

	status, body := servicetest.DoJSON(t, app, "/rpc/users.myItems", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("myItems status = %d, body %v", status, body)
	}
	if body["count"] != float64(1) {
		t.Errorf("default count = %v, want 1", body["count"])
	}

	status, body = servicetest.DoJSON(t, app, "/rpc/users.myItems", token, map[string]any{"include_removed": true})
	if status != fiber.StatusOK {
		t.Fatalf("myItems status = %d, body %v", status, body)
	}
	if body["count"] != float64(2) {
		t.Errorf("include_removed count = %v, want 2", body["count"])
	}
}
