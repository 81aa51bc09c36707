package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	donationController "afrikticket_backend/internals/features/fundraising/donations/controller"
	authMiddleware "afrikticket_backend/internals/middlewares/auth"
)

func DonationRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := donationController.NewDonationController(db, v)
	api.Post("/fundraising/:fundraisingId/donate", authMiddleware.AuthMiddleware(db), ctl.Donate)
}

// DonationUserRoutes: /api/user/donations, /api/user/fundraisings
func DonationUserRoutes(user fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := donationController.NewDonationController(db, v)
	user.Get("/donations", ctl.ListMine)
	user.Get("/fundraisings", ctl.ListMyFundraisings)
}
