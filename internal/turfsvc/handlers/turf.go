package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/openturf/turf-services/internal/turfsvc/service"
)

func (h *Handler) ListTurfs(w http.ResponseWriter, r *http.Request) {
	turfs, err := h.turfs.ListActive(r.Context())
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: turfs})
}

func (h *Handler) GetTurf(w http.ResponseWriter, r *http.Request) {
	turf, err := h.turfs.Get(r.Context(), chi.URLParam(r, "turfID"))
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: turf})
}

// AvailableSlots lists the free bookable slots for ?date=YYYY-MM-DD.
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.bookings.AvailableSlots(r.Context(), chi.URLParam(r, "turfID"), r.URL.Query().Get("date"))
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: slots})
}

// CheckAvailability probes ?date=&start=&end= (optionally ?exclude= for
// reschedules) and answers {"available": bool}.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	free, err := h.bookings.CheckAvailability(r.Context(), chi.URLParam(r, "turfID"),
		q.Get("date"), q.Get("start"), q.Get("end"), q.Get("exclude"))
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: map[string]bool{"available": free}})
}

func (h *Handler) CreateTurf(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	if !isAdmin {
		u, err := h.users.GetByID(r.Context(), callerID)
		if err != nil || !u.CanManageTurfs() {
			h.CreateErrorResponse(w, service.ErrForbidden)
			return
		}
	}

	var in service.CreateTurfInput
	if err := decodeBody(r, &in); err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	in.OwnerID = callerID

	turf, err := h.turfs.Create(r.Context(), in)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusCreated, Data: turf})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	u, err := h.users.GetByID(r.Context(), callerID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: u})
}
