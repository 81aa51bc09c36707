package constants

// Account lifecycle
const (
	UserStatusPending   = "pending"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// Organization review
const (
	OrganizationStatusPending  = "pending"
	OrganizationStatusApproved = "approved"
	OrganizationStatusRejected = "rejected"
)

// Events
const (
	EventStatusPending   = "pending"
	EventStatusActive    = "active"
	EventStatusRejected  = "rejected"
	EventStatusCancelled = "cancelled"
)

// Fundraising campaigns
const (
	FundraisingStatusPending   = "pending"
	FundraisingStatusActive    = "active"
	FundraisingStatusRejected  = "rejected"
	FundraisingStatusCompleted = "completed"
	FundraisingStatusCancelled = "cancelled"
)

// Tickets
const (
	TicketStatusValid     = "valid"
	TicketStatusUsed      = "used"
	TicketStatusCancelled = "cancelled"
)

// Donations (no gateway yet, everything stays pending)
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

var EventCategories = []string{
	"festival",
	"concert",
	"sport",
	"art",
	"education",
	"technology",
	"business",
	"other",
}

func IsEventCategory(cat string) bool {
	for _, c := range EventCategories {
		if c == cat {
			return true
		}
	}
	return false
}

const (
	MaxTicketsPerPurchase = 10
	DefaultEventDuration  = 2.0 // hours
	MaxImagesPerUpload    = 10
)
