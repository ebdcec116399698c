package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		// Verifier alone only parses a token when one is present; public
		// routes stay public, but a logged-in caller browsing games gets
		// their private ones back.
		r.Use(jwtauth.Verifier(h.tokenAuth))

		// public routes
		r.Get("/health", h.HealthHandler)
		r.Get("/ws", h.feed.HandleWebSocket)

		r.Get("/turfs", h.ListTurfs)
		r.Get("/turfs/{turfID}", h.GetTurf)
		r.Get("/turfs/{turfID}/slots", h.AvailableSlots)
		r.Get("/turfs/{turfID}/availability", h.CheckAvailability)

		r.Get("/games", h.ListGames)

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Authenticator)

			r.Get("/me", h.Me)
			r.Post("/turfs", h.CreateTurf)

			r.Post("/bookings", h.CreateBooking)
			r.Get("/bookings", h.ListMyBookings)
			r.Get("/bookings/{bookingID}", h.GetBooking)
			r.Patch("/bookings/{bookingID}/status", h.UpdateBookingStatus)
			r.Patch("/bookings/{bookingID}/payment", h.UpdateBookingPayment)
			r.Delete("/bookings/{bookingID}", h.CancelBooking)

			r.Post("/games", h.CreateGame)
			r.Get("/games/{gameID}", h.GetGame)
			r.Post("/games/{gameID}/join", h.JoinGame)
			r.Post("/games/{gameID}/leave", h.LeaveGame)
			r.Post("/games/{gameID}/respond", h.RespondGame)
			r.Patch("/games/{gameID}", h.UpdateGame)
			r.Delete("/games/{gameID}", h.CancelGame)
		})
	})
}
