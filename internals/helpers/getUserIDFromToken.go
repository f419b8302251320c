package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys yang diisi middleware AuthJWT
const (
	LocUserID   = "user_id"
	LocBranchID = "branch_id"
	LocRole     = "role"
)

// Ambil user_id dari c.Locals("user_id").
// 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocUserID, "user")
}

// GetBranchIDFromToken: tenant aktif dari token. Semua query finance wajib di-scope dengan ini.
func GetBranchIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocBranchID, "branch")
}

// GetRoleFromToken mengembalikan role (lowercase) atau "" bila tidak ada.
func GetRoleFromToken(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return ""
}

func uuidFromLocals(c *fiber.Ctx, key, label string) (uuid.UUID, error) {
	var raw string
	switch t := c.Locals(key).(type) {
	case nil:
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" id missing from token")
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" id missing from token")
		}
		return t, nil
	case string:
		raw = t
	case []byte:
		raw = string(t)
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+label+" id in token")
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, label+" id missing from token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+label+" id in token")
	}
	return id, nil
}

// ParseUUIDParam membaca path param UUID (":id").
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
