package controller_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	route "ibuc_backend/internals/features/finance/billings/routes"
	svc "ibuc_backend/internals/features/finance/billings/service"
	"ibuc_backend/internals/testutil"
)

func newBillingApp(t *testing.T) (*fiber.App, *svc.Generator, testutil.Principal) {
	t.Helper()
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger(t)
	gen := svc.NewGenerator(db, svc.NewGormCohortLookup(db), svc.NewLogNotifier(log), log)
	t.Cleanup(gen.Wait)

	app := testutil.NewApp()
	route.AdminBillingRoutes(app.Group("/api/a/finance"), gen)
	staff := testutil.Principal{UserID: uuid.New(), BranchID: uuid.New(), Role: "admin"}
	return app, gen, staff
}

func TestGenerateBatchEndpoint(t *testing.T) {
	app, gen, staff := newBillingApp(t)
	cohort := uuid.New()
	testutil.SeedCohort(t, gen.DB, staff.BranchID, cohort, 3, 1)
	due := testutil.Today().AddDate(0, 1, 0).Format("2006-01-02")

	res := testutil.Do(t, app, staff, fiber.MethodPost, "/api/a/finance/billings/generate", map[string]any{
		"cohort_id": cohort,
		"title":     "SPP Oktober",
		"amount":    250000,
		"due_date":  due,
	})
	if res.Status != fiber.StatusCreated {
		t.Fatalf("generate = %d %v", res.Status, res.Body)
	}
	data := res.Data(t)
	if data["count"] != float64(3) {
		t.Fatalf("count = %v, want 3", data["count"])
	}
	rows, _ := data["billings"].([]any)
	if len(rows) != 3 {
		t.Fatalf("billings = %d, want 3", len(rows))
	}
	first := rows[0].(map[string]any)
	if first["billing_status"] != "pending" || first["billing_final_amount"] != float64(250000) {
		t.Errorf("first billing = %v", first)
	}

	id := first["billing_id"].(string)
	res = testutil.Do(t, app, staff, fiber.MethodGet, "/api/a/finance/billings/"+id, nil)
	if res.Status != fiber.StatusOK || res.Data(t)["billing_title"] != "SPP Oktober" {
		t.Fatalf("get = %d %v", res.Status, res.Body)
	}

	res = testutil.Do(t, app, staff, fiber.MethodPatch, "/api/a/finance/billings/"+id, map[string]any{
		"discount": 50000,
	})
	if res.Status != fiber.StatusOK || res.Data(t)["billing_final_amount"] != float64(200000) {
		t.Fatalf("adjust = %d %v", res.Status, res.Body)
	}
}

func TestGenerateBatchEndpointErrors(t *testing.T) {
	app, _, staff := newBillingApp(t)
	due := testutil.Today().AddDate(0, 0, 7).Format("2006-01-02")

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"empty cohort", map[string]any{"cohort_id": uuid.New(), "title": "SPP", "amount": 100, "due_date": due}, fiber.StatusUnprocessableEntity},
		{"zero amount", map[string]any{"cohort_id": uuid.New(), "title": "SPP", "amount": 0, "due_date": due}, fiber.StatusUnprocessableEntity},
		{"bad due date", map[string]any{"cohort_id": uuid.New(), "title": "SPP", "amount": 100, "due_date": "next week"}, fiber.StatusUnprocessableEntity},
		{"past due date", map[string]any{"cohort_id": uuid.New(), "title": "SPP", "amount": 100, "due_date": "2001-01-01"}, fiber.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := testutil.Do(t, app, staff, fiber.MethodPost, "/api/a/finance/billings/generate", tc.body)
			if res.Status != tc.want {
				t.Fatalf("status = %d body=%v, want %d", res.Status, res.Body, tc.want)
			}
		})
	}
}

func TestGenerateSubsetEndpointReportsSkipped(t *testing.T) {
	app, gen, staff := newBillingApp(t)
	students := testutil.SeedCohort(t, gen.DB, staff.BranchID, uuid.New(), 2, 0)
	stranger := uuid.New()

	res := testutil.Do(t, app, staff, fiber.MethodPost, "/api/a/finance/billings/generate-subset", map[string]any{
		"student_ids": []uuid.UUID{students[0], stranger, students[0]},
		"title":       "Seragam",
		"amount":      120000,
		"due_date":    testutil.Today().AddDate(0, 0, 10).Format("2006-01-02"),
	})
	if res.Status != fiber.StatusCreated {
		t.Fatalf("subset = %d %v", res.Status, res.Body)
	}
	data := res.Data(t)
	if data["count"] != float64(1) {
		t.Errorf("count = %v, want 1", data["count"])
	}
	skipped, _ := data["skipped"].([]any)
	if len(skipped) != 1 || skipped[0] != stranger.String() {
		t.Errorf("skipped = %v, want [%s]", data["skipped"], stranger)
	}
}

func TestBillingEndpointHidesOtherBranches(t *testing.T) {
	app, gen, staff := newBillingApp(t)
	foreign := testutil.SeedBilling(t, gen.DB, uuid.New(), 1000, 0, 0)

	res := testutil.Do(t, app, staff, fiber.MethodGet, "/api/a/finance/billings/"+foreign.BillingID.String(), nil)
	if res.Status != fiber.StatusNotFound {
		t.Fatalf("cross-branch get = %d, want 404", res.Status)
	}
	res = testutil.Do(t, app, staff, fiber.MethodPatch, "/api/a/finance/billings/"+foreign.BillingID.String(), map[string]any{"amount": 5})
	if res.Status != fiber.StatusNotFound {
		t.Fatalf("cross-branch adjust = %d, want 404", res.Status)
	}
}
