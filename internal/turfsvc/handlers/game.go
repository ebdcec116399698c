package handlers

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/openturf/turf-services/internal/turfsvc/game"
	"github.com/openturf/turf-services/internal/turfsvc/service"
)

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var in service.CreateGameInput
	if err := decodeBody(r, &in); err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	in.HostID = callerID

	g, err := h.games.Create(r.Context(), in)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusCreated, Data: g})
}

// ListGames is public; an anonymous caller sees no private games at all.
// Filters: ?status= ?turfId= ?date=
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	games, err := h.games.List(r.Context(), q.Get("status"), q.Get("turfId"), q.Get("date"), viewerID(r))
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: games})
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	g, err := h.games.Get(r.Context(), chi.URLParam(r, "gameID"), callerID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: g})
}

func (h *Handler) JoinGame(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	g, err := h.games.Join(r.Context(), chi.URLParam(r, "gameID"), callerID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: g})
}

func (h *Handler) LeaveGame(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	g, err := h.games.Leave(r.Context(), chi.URLParam(r, "gameID"), callerID)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: g})
}

// RespondGame decides a pending join request: {"userId": "...", "approve": true}.
func (h *Handler) RespondGame(w http.ResponseWriter, r *http.Request) {
	callerID, _, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var in struct {
		UserID  string `json:"userId"`
		Approve bool   `json:"approve"`
	}
	if err := decodeBody(r, &in); err != nil {
		h.CreateErrorResponse(w, err)
		return
	}

	g, err := h.games.Respond(r.Context(), chi.URLParam(r, "gameID"), callerID, in.UserID, in.Approve)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: g})
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var patch game.Patch
	if err := decodeBody(r, &patch); err != nil {
		h.CreateErrorResponse(w, err)
		return
	}

	g, err := h.games.Update(r.Context(), chi.URLParam(r, "gameID"), callerID, isAdmin, patch)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: g})
}

func (h *Handler) CancelGame(w http.ResponseWriter, r *http.Request) {
	callerID, isAdmin, err := h.identity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	g, err := h.games.Cancel(r.Context(), chi.URLParam(r, "gameID"), callerID, isAdmin)
	if err != nil {
		h.CreateErrorResponse(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: 200, Data: g})
}
