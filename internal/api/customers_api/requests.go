package customers_api

import (
	"encoding/json"

	"github.com/BearBump/QRLink/internal/models"
)

type CreateCustomerRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	CompanyName *string `json:"company_name"`
	QRURL       string  `json:"qr_url" validate:"required"`

	UTMSource   *string `json:"utm_source"`
	UTMMedium   *string `json:"utm_medium"`
	UTMCampaign *string `json:"utm_campaign"`
	UTMTerm     *string `json:"utm_term"`
	UTMContent  *string `json:"utm_content"`
	TrackingID  *string `json:"tracking_id"`
	Notes       *string `json:"notes"`
	Category    *string `json:"category"`
	StoreNumber *string `json:"store_number"`
	LocationID  *string `json:"location_id"`
}

func (r CreateCustomerRequest) toInput() models.CustomerCreateInput {
	return models.CustomerCreateInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		CompanyName: r.CompanyName,
		QRURL:       r.QRURL,
		Tracking: models.Tracking{
			UTMSource:   r.UTMSource,
			UTMMedium:   r.UTMMedium,
			UTMCampaign: r.UTMCampaign,
			UTMTerm:     r.UTMTerm,
			UTMContent:  r.UTMContent,
			TrackingID:  r.TrackingID,
			Notes:       r.Notes,
			Category:    r.Category,
			StoreNumber: r.StoreNumber,
			LocationID:  r.LocationID,
		},
	}
}

// UpdateCustomerRequest: absent keys are left unchanged, an explicit null
// clears an optional field.
type UpdateCustomerRequest struct {
	CompanyName optionalString `json:"company_name"`
	FirstName   optionalString `json:"first_name"`
	LastName    optionalString `json:"last_name"`
	Email       optionalString `json:"email"`
	PhoneNumber optionalString `json:"phone_number"`
	QRURL       optionalString `json:"qr_url"`
}

func (r UpdateCustomerRequest) toInput() models.CustomerUpdateInput {
	var in models.CustomerUpdateInput
	for _, f := range []struct {
		name string
		v    optionalString
		dst  **string
	}{
		{"company_name", r.CompanyName, &in.CompanyName},
		{"first_name", r.FirstName, &in.FirstName},
		{"last_name", r.LastName, &in.LastName},
		{"email", r.Email, &in.Email},
		{"phone_number", r.PhoneNumber, &in.PhoneNumber},
		{"qr_url", r.QRURL, &in.QRURL},
	} {
		switch {
		case !f.v.Set:
		case f.v.Value == nil:
			in.Clear = append(in.Clear, f.name)
		default:
			*f.dst = f.v.Value
		}
	}
	return in
}

// optionalString tells an absent key apart from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type CreateCustomerResponse struct {
	ID           int64  `json:"id"`
	RedirectCode string `json:"redirect_code"`
	RedirectURL  string `json:"redirect_url"`
	QRImage      string `json:"qr_image"`
	Message      string `json:"message"`

	// Older frontends read these names.
	CustomerID     int64  `json:"customer_id"`
	QRRedirectLink string `json:"qr_redirect_link"`
	QRCode         string `json:"qr_code"`
}

type UpdateCustomerResponse struct {
	Message      string `json:"message"`
	RedirectCode string `json:"redirect_code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
