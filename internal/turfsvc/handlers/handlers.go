package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/openturf/turf-services/internal/turfsvc/game"
	"github.com/openturf/turf-services/internal/turfsvc/models"
	"github.com/openturf/turf-services/internal/turfsvc/service"
	"github.com/openturf/turf-services/internal/turfsvc/store"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth

	bookings *service.BookingService
	games    *service.GameService
	turfs    *service.TurfService
	users    *service.UserService
	feed     *Feed
}

func NewHandler(bookings *service.BookingService, games *service.GameService,
	turfs *service.TurfService, users *service.UserService, feed *Feed) *Handler {
	return &Handler{
		bookings: bookings,
		games:    games,
		turfs:    turfs,
		users:    users,
		feed:     feed,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// CreateErrorResponse maps domain errors onto HTTP statuses. Unrecognized
// errors are logged and reported as a bare 500 so internals do not leak.
func (h *Handler) CreateErrorResponse(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, game.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden), errors.Is(err, game.ErrNotHost):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrTurfInactive):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrSlotConflict),
		errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, game.ErrGameClosed),
		errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrAlreadyRequested),
		errors.Is(err, game.ErrNotMember),
		errors.Is(err, game.ErrNoPendingRequest):
		code = http.StatusConflict
	}

	if code == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
		h.CreateResponse(w, Response{Code: code, Error: "internal error"})
		return
	}
	h.CreateResponse(w, Response{Code: code, Error: err.Error()})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "turf service is running at port " + os.Getenv("TURF_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode health response: %v", err)
	}
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)
}

// identity extracts the authenticated user from the verified JWT. Routes
// behind jwtauth.Authenticator always have a valid token; a missing user_id
// claim still counts as an auth failure.
func (h *Handler) identity(r *http.Request) (userID string, isAdmin bool, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false, err
	}
	userID, _ = claims["user_id"].(string)
	if userID == "" {
		return "", false, errors.New("token has no user_id claim")
	}
	role, _ := claims["role"].(string)
	return userID, role == models.RoleAdmin, nil
}

// viewerID returns the caller's user id when a valid token accompanied the
// request, and "" for anonymous callers. Used on public routes where a token
// widens visibility but is not required.
func viewerID(r *http.Request) string {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return ""
	}
	id, _ := claims["user_id"].(string)
	return id
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return service.ErrInvalidInput
	}
	return nil
}
