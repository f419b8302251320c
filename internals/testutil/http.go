package testutil

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "ibuc_backend/internals/helpers"
)

// Principal: identitas yang biasanya diisi AuthJWT.
type Principal struct {
	UserID   uuid.UUID
	BranchID uuid.UUID
	Role     string
}

// NewApp membuat fiber app dengan konfigurasi JSON/error handler produksi,
// plus middleware yang menyuntik Locals dari header X-Test-Principal ("user|branch|role").
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})
	app.Use(func(c *fiber.Ctx) error {
		if p := c.Get("X-Test-Principal"); p != "" {
			parts := bytes.SplitN([]byte(p), []byte("|"), 3)
			if len(parts) == 3 {
				c.Locals(helper.LocUserID, string(parts[0]))
				c.Locals(helper.LocBranchID, string(parts[1]))
				c.Locals(helper.LocRole, string(parts[2]))
			}
		}
		return c.Next()
	})
	return app
}

// Response: body JSON yang sudah di-decode.
type Response struct {
	Status int
	Body   map[string]any
}

// Data mengembalikan field "data" sebagai object.
func (r Response) Data(t *testing.T) map[string]any {
	t.Helper()
	d, ok := r.Body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response data is %T, body=%v", r.Body["data"], r.Body)
	}
	return d
}

// Do menjalankan satu request terhadap app; body nil berarti tanpa payload.
func Do(t *testing.T, app *fiber.App, who Principal, method, path string, body any) Response {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if who.UserID != uuid.Nil || who.BranchID != uuid.Nil {
		req.Header.Set("X-Test-Principal", who.UserID.String()+"|"+who.BranchID.String()+"|"+who.Role)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := Response{Status: resp.StatusCode, Body: map[string]any{}}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &out.Body); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, raw, err)
		}
	}
	return out
}
