package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"ibuc_backend/internals/constants"
	helper "ibuc_backend/internals/helpers"
)

// RequireFinanceStaff: hanya admin/bendahara/owner, dan token wajib membawa branch_id.
func RequireFinanceStaff(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetRoleFromToken(c)
		if !slices.Contains(constants.FinanceStaff, role) {
			log.WithFields(logrus.Fields{
				"path":  c.Path(),
				"role":  role,
				"reqid": c.Locals("reqid"),
			}).Warn("finance access denied")
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorFinanceStaff("keuangan"))
		}
		if _, err := helper.GetBranchIDFromToken(c); err != nil {
			return err
		}
		return c.Next()
	}
}
