package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/service"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var in service.CreateBookingInput
	if err := decodeBody(r, &in); err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	in.UserID = callerID

	b, err := h.bookings.Create(r.Context(), in)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusCreated, Data: b})
}

func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	bookings, err := h.bookings.ListForUser(r.Context(), callerID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: bookings})
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	b, err := h.bookings.Get(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	if !isAdmin && b.UserID != callerID && !h.ownsTurf(r, callerID, b.TurfID) {
		h.CreateErrorResponse(w, service.ErrForbidden)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: b})
}

// UpdateBookingStatus applies a transition like confirm or complete. Only the
// turf's owner (or an admin) drives these; renters cancel through DELETE.
func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.CreateErrorResponse(w, err)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	current, err := h.bookings.Get(r.Context(), bookingID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	if !isAdmin && !h.ownsTurf(r, callerID, current.TurfID) {
		h.CreateErrorResponse(w, service.ErrForbidden)
		return
	}

	b, err := h.bookings.UpdateStatus(r.Context(), bookingID, in.Status)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: b})
}

func (h *Handler) UpdateBookingPayment(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var in struct {
		PaymentStatus string `json:"paymentStatus"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.CreateErrorResponse(w, err)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	current, err := h.bookings.Get(r.Context(), bookingID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	if !isAdmin && current.UserID != callerID && !h.ownsTurf(r, callerID, current.TurfID) {
		h.CreateErrorResponse(w, service.ErrForbidden)
		return
	}

	b, err := h.bookings.UpdatePayment(r.Context(), bookingID, in.PaymentStatus, in.PaymentMethod)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: b})
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	current, err := h.bookings.Get(r.Context(), bookingID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	if !isAdmin && current.UserID != callerID && !h.ownsTurf(r, callerID, current.TurfID) {
		h.CreateErrorResponse(w, service.ErrForbidden)
		return
	}
	if current.Status == models.BookingStatusCompleted {
		h.CreateErrorResponse(w, service.ErrInvalidInput)
		return
	}

	b, err := h.bookings.Cancel(r.Context(), bookingID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: b})
}

func (h *Handler) ownsTurf(r *http.Request, callerID, turfID string) bool {
	turf, err := h.turfs.Get(r.Context(), turfID)
	return err == nil && turf.OwnerID == callerID
}
