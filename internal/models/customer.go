package models

import "time"

// Length of a generated redirect code.
const RedirectCodeLength = 8

type Customer struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Email        *string    `json:"email"`
	PhoneNumber  *string    `json:"phone_number"`
	CompanyName  *string    `json:"company_name"`
	QRURL        string     `json:"qr_url"`
	RedirectCode string     `json:"redirect_code"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Tracking holds the attribution fields. They are persisted on create and
// never read back.
type Tracking struct {
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	UTMTerm     *string
	UTMContent  *string
	TrackingID  *string
	Notes       *string
	Category    *string
	StoreNumber *string
	LocationID  *string
}

type CustomerCreateInput struct {
	FirstName   string
	LastName    *string
	Email       *string
	PhoneNumber *string
	CompanyName *string
	QRURL       string

	Tracking Tracking
}

// CustomerUpdateInput is a partial update: nil fields are left unchanged.
type CustomerUpdateInput struct {
	CompanyName *string
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	QRURL       *string

	// Clear names optional columns to reset to NULL, see ClearableFields.
	Clear []string
}

// ClearableFields are the optional columns an update may reset to NULL.
var ClearableFields = map[string]bool{
	"company_name": true,
	"last_name":    true,
	"email":        true,
	"phone_number": true,
}

func (in CustomerUpdateInput) IsEmpty() bool {
	return in.CompanyName == nil && in.FirstName == nil && in.LastName == nil &&
		in.Email == nil && in.PhoneNumber == nil && in.QRURL == nil && len(in.Clear) == 0
}

type CustomerCreated struct {
	ID           int64
	RedirectCode string
	CreatedAt    time.Time
}

// CustomerSearchFilter matches case-insensitive substrings; empty fields are ignored.
type CustomerSearchFilter struct {
	CompanyName string
	FirstName   string
	LastName    string
}
