package details

import (
	"github.com/gofiber/fiber/v2"

	donationRoute "afrikticket_backend/internals/features/fundraising/donations/route"
	fundRoute "afrikticket_backend/internals/features/fundraising/fundraisings/route"
)

func FundraisingPublicRoutes(api fiber.Router, d Deps) {
	fundRoute.FundraisingPublicRoutes(api, d.DB, d.Validator, d.Store)
	donationRoute.DonationRoutes(api, d.DB, d.Validator)
}

func FundraisingUserRoutes(user fiber.Router, d Deps) {
	donationRoute.DonationUserRoutes(user, d.DB, d.Validator)
}

func FundraisingOwnerRoutes(org fiber.Router, d Deps) {
	fundRoute.FundraisingOwnerRoutes(org, d.DB, d.Validator, d.Store)
}

func FundraisingAdminRoutes(admin fiber.Router, d Deps) {
	fundRoute.FundraisingAdminRoutes(admin, d.DB, d.Validator, d.Store)
}
