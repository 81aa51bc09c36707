package details

import (
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"afrikticket_backend/internals/features/events/tickets/credential"
	"afrikticket_backend/internals/helpers/storage"
)

// Deps is what every feature router needs.
type Deps struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Store     storage.Store
	Signer    *credential.Signer
}
