package customers_api

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/BearBump/QRLink/internal/models"
	"github.com/BearBump/QRLink/internal/services/customers"
)

type CustomersAPI struct {
	svc      *customers.Service
	validate *validator.Validate
}

func New(svc *customers.Service) *CustomersAPI {
	return &CustomersAPI{svc: svc, validate: newValidator()}
}

func (a *CustomersAPI) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeServiceError(w, r, validationError(err))
		return
	}

	res, err := a.svc.CreateCustomer(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	img := pngDataURI(res.QRImage)
	writeJSON(w, http.StatusCreated, CreateCustomerResponse{
		ID:             res.ID,
		RedirectCode:   res.RedirectCode,
		RedirectURL:    res.RedirectURL,
		QRImage:        img,
		Message:        "Customer saved successfully!",
		CustomerID:     res.ID,
		QRRedirectLink: res.RedirectURL,
		QRCode:         img,
	})
}

func (a *CustomersAPI) ListCustomers(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (a *CustomersAPI) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := a.svc.SearchCustomers(r.Context(), models.CustomerSearchFilter{
		CompanyName: q.Get("company_name"),
		FirstName:   q.Get("first_name"),
		LastName:    q.Get("last_name"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (a *CustomersAPI) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}
	c, err := a.svc.GetCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *CustomersAPI) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	code, err := a.svc.UpdateCustomer(r.Context(), id, req.toInput())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateCustomerResponse{
		Message:      "Customer updated successfully",
		RedirectCode: code,
	})
}

func (a *CustomersAPI) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}
	if _, err := a.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Customer deleted successfully"})
}

// Redirect sends a scanned QR code on to the customer's destination.
func (a *CustomersAPI) Redirect(w http.ResponseWriter, r *http.Request) {
	url, err := a.svc.ResolveRedirect(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if models.IsNotFound(err) {
			writeError(w, http.StatusNotFound, msgInvalidQRCode)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (a *CustomersAPI) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := a.svc.EncodeQR(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (a *CustomersAPI) BaseURL(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"base_url": a.svc.BaseURL()})
}

func customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func pngDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func nonNil(cs []*models.Customer) []*models.Customer {
	if cs == nil {
		return []*models.Customer{}
	}
	return cs
}
