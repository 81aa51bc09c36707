package database

import (
	"log"

	"gorm.io/gorm"

	eventModel "afrikticket_backend/internals/features/events/events/model"
	ticketModel "afrikticket_backend/internals/features/events/tickets/model"
	donationModel "afrikticket_backend/internals/features/fundraising/donations/model"
	fundModel "afrikticket_backend/internals/features/fundraising/fundraisings/model"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
	authModel "afrikticket_backend/internals/features/users/auth/model"
	userModel "afrikticket_backend/internals/features/users/user/model"
)

// Models in dependency order.
func Models() []interface{} {
	return []interface{}{
		&userModel.UserModel{},
		&orgModel.OrganizationModel{},
		&userModel.AdminModel{},
		&eventModel.EventModel{},
		&eventModel.EventImageModel{},
		&ticketModel.TicketModel{},
		&fundModel.FundraisingModel{},
		&fundModel.FundraisingImageModel{},
		&donationModel.DonationModel{},
		&authModel.RefreshToken{},
		&authModel.TokenBlacklist{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	log.Println("[MIGRATE] running AutoMigrate...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Println("[MIGRATE] done")
	return nil
}
