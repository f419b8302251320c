package controller_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	route "ibuc_backend/internals/features/finance/payments/route"
	"ibuc_backend/internals/testutil"
)

func TestPaymentEndpointsFullFlow(t *testing.T) {
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger(t)

	app := testutil.NewApp()
	route.UserPaymentRoutes(app.Group("/api/u/finance"), db, log)
	route.AdminPaymentRoutes(app.Group("/api/a/finance"), db, log)

	branch := uuid.New()
	guardian := testutil.Principal{UserID: uuid.New(), BranchID: branch, Role: "user"}
	staff := testutil.Principal{UserID: uuid.New(), BranchID: branch, Role: "accountant"}
	b := testutil.SeedBilling(t, db, branch, 15000, 0, 2500)

	res := testutil.Do(t, app, guardian, fiber.MethodPost, "/api/u/finance/payments", map[string]any{
		"billing_id":     b.BillingID,
		"payment_method": "transfer",
	})
	if res.Status != fiber.StatusCreated {
		t.Fatalf("initiate status = %d body=%v", res.Status, res.Body)
	}
	p := res.Data(t)
	if p["payment_status"] != "pending" || p["payment_locked_amount"] != float64(17500) {
		t.Fatalf("initiated = %v", p)
	}
	id := p["payment_id"].(string)

	res = testutil.Do(t, app, guardian, fiber.MethodPost, "/api/u/finance/payments", map[string]any{
		"billing_id":     b.BillingID,
		"payment_method": "transfer",
	})
	if res.Status != fiber.StatusConflict || res.Body["error_code"] != "CONFLICT" {
		t.Fatalf("second initiate = %d %v, want 409", res.Status, res.Body)
	}

	res = testutil.Do(t, app, guardian, fiber.MethodPost, "/api/u/finance/payments/"+id+"/proof", map[string]any{
		"proof_reference": "uploads/proof.jpg",
	})
	if res.Status != fiber.StatusOK {
		t.Fatalf("proof status = %d body=%v", res.Status, res.Body)
	}

	res = testutil.Do(t, app, staff, fiber.MethodGet, "/api/a/finance/payments/pending", nil)
	if res.Status != fiber.StatusOK {
		t.Fatalf("pending status = %d", res.Status)
	}
	if rows, _ := res.Body["data"].([]any); len(rows) != 1 {
		t.Fatalf("pending rows = %v", res.Body["data"])
	}

	res = testutil.Do(t, app, staff, fiber.MethodPost, "/api/a/finance/payments/"+id+"/reject", map[string]any{"note": ""})
	if res.Status != fiber.StatusUnprocessableEntity {
		t.Fatalf("reject without note = %d, want 422", res.Status)
	}

	res = testutil.Do(t, app, staff, fiber.MethodPost, "/api/a/finance/payments/"+id+"/approve", nil)
	if res.Status != fiber.StatusOK || res.Data(t)["payment_status"] != "success" {
		t.Fatalf("approve = %d %v", res.Status, res.Body)
	}

	res = testutil.Do(t, app, staff, fiber.MethodPost, "/api/a/finance/payments/"+id+"/approve", nil)
	if res.Status != fiber.StatusConflict {
		t.Fatalf("second approve = %d, want 409", res.Status)
	}

	res = testutil.Do(t, app, staff, fiber.MethodGet, "/api/a/finance/payments/"+id+"/audit-logs", nil)
	if res.Status != fiber.StatusOK {
		t.Fatalf("audit status = %d", res.Status)
	}
	data := res.Data(t)
	if entries, _ := data["entries"].([]any); len(entries) != 3 {
		t.Fatalf("audit entries = %v", data["entries"])
	}
	if data["chain_valid"] != true {
		t.Errorf("chain_valid = %v", data["chain_valid"])
	}

	res = testutil.Do(t, app, staff, fiber.MethodGet, "/api/a/finance/billings/"+b.BillingID.String()+"/payments", nil)
	if rows, _ := res.Body["data"].([]any); res.Status != fiber.StatusOK || len(rows) != 1 {
		t.Fatalf("billing payments = %d %v", res.Status, res.Body)
	}
}

func TestPaymentEndpointsHideOtherTenants(t *testing.T) {
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger(t)

	app := testutil.NewApp()
	route.UserPaymentRoutes(app.Group("/api/u/finance"), db, log)
	route.AdminPaymentRoutes(app.Group("/api/a/finance"), db, log)

	owner := testutil.Principal{UserID: uuid.New(), BranchID: uuid.New(), Role: "user"}
	other := testutil.Principal{UserID: uuid.New(), BranchID: uuid.New(), Role: "admin"}
	b := testutil.SeedBilling(t, db, owner.BranchID, 1000, 0, 0)

	res := testutil.Do(t, app, owner, fiber.MethodPost, "/api/u/finance/payments", map[string]any{
		"billing_id":     b.BillingID,
		"payment_method": "cash",
	})
	if res.Status != fiber.StatusCreated {
		t.Fatalf("initiate = %d %v", res.Status, res.Body)
	}
	id := res.Data(t)["payment_id"].(string)

	missing := testutil.Do(t, app, other, fiber.MethodGet, "/api/u/finance/payments/"+uuid.NewString(), nil)
	foreign := testutil.Do(t, app, other, fiber.MethodGet, "/api/u/finance/payments/"+id, nil)
	if missing.Status != fiber.StatusNotFound || foreign.Status != fiber.StatusNotFound {
		t.Fatalf("statuses = %d/%d, want 404/404", missing.Status, foreign.Status)
	}
	if missing.Body["message"] != foreign.Body["message"] {
		t.Errorf("messages differ: %v vs %v", missing.Body["message"], foreign.Body["message"])
	}

	res = testutil.Do(t, app, other, fiber.MethodPost, "/api/a/finance/payments/"+id+"/approve", nil)
	if res.Status != fiber.StatusNotFound {
		t.Fatalf("cross-tenant approve = %d, want 404", res.Status)
	}
}

func TestPaymentEndpointsRejectBadInput(t *testing.T) {
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger(t)

	app := testutil.NewApp()
	route.UserPaymentRoutes(app.Group("/api/u/finance"), db, log)

	who := testutil.Principal{UserID: uuid.New(), BranchID: uuid.New(), Role: "user"}

	res := testutil.Do(t, app, who, fiber.MethodPost, "/api/u/finance/payments", map[string]any{
		"billing_id":     uuid.New(),
		"payment_method": "bitcoin",
	})
	if res.Status != fiber.StatusUnprocessableEntity {
		t.Fatalf("unknown method = %d, want 422", res.Status)
	}
	errs, _ := res.Body["errors"].(map[string]any)
	if _, ok := errs["payment_method"]; !ok {
		t.Errorf("errors = %v, want payment_method key", res.Body["errors"])
	}

	res = testutil.Do(t, app, who, fiber.MethodGet, "/api/u/finance/payments/not-a-uuid", nil)
	if res.Status != fiber.StatusBadRequest {
		t.Fatalf("bad id = %d, want 400", res.Status)
	}

	res = testutil.Do(t, app, testutil.Principal{}, fiber.MethodGet, "/api/u/finance/payments/"+uuid.NewString(), nil)
	if res.Status != fiber.StatusUnauthorized {
		t.Fatalf("no principal = %d, want 401", res.Status)
	}
}
