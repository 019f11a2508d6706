// Package router wires the HTTP surface: public browsing, customer
// checkout, admin scheduling and the payment callback.  Each group applies
// its own middleware stack; handlers stay free of auth concerns.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/handler"
    "github.com/cinetick/cinema-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that carry no middleware at all.
// Currently that is only the health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// caller supplies the middleware stack (response cache, rate limiter) so
// main controls whether Redis is in play.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1", mw...)
    g.GET("/venues", p.ListVenues)
    g.GET("/venues/:id/rooms", p.ListVenueRooms)
    g.GET("/movies", p.ListMovies)
    g.GET("/movies/:id/screenings", p.ListMovieScreenings)
    g.GET("/screenings/:id", p.GetScreening)
    // Static room layout for previewing a room before picking a screening.
    g.GET("/rooms/:id/seatmap", p.GetRoomSeatMap)
    // Live availability: seat states classified against current tickets.
    g.GET("/screenings/:id/seats", p.GetScreeningSeats)
}

// RegisterCustomer registers the checkout endpoints.  All routes require a
// valid JWT with the CUSTOMER role; ownership of a booking is enforced in
// the handlers.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("CUSTOMER"),
    )
    g.POST("/screenings/:id/quote", b.QuoteSelection)
    g.POST("/screenings/:id/hold", b.CreateHold)
    g.POST("/bookings/:id/finalize", b.FinalizeBooking)
    g.DELETE("/bookings/:id", b.CancelBooking)
    g.GET("/bookings/:id", b.GetBooking)
}

// RegisterAdmin registers the management endpoints for venues, rooms,
// movies and screenings.  All routes require the OWNER role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, s *handler.ScreeningHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("OWNER"),
    )
    g.POST("/venues", a.CreateVenue)
    g.PATCH("/venues/:id", a.UpdateVenue)
    g.POST("/venues/:id/rooms", a.CreateRoom)
    g.PATCH("/rooms/:id", a.UpdateRoom)
    g.DELETE("/rooms/:id", a.DeleteRoom)
    g.PATCH("/seats/:id", a.UpdateSeat)
    g.POST("/movies", a.CreateMovie)
    g.PATCH("/movies/:id", a.UpdateMovie)

    g.POST("/screenings", s.CreateScreening)
    g.PATCH("/screenings/:id", s.UpdateScreening)
    g.DELETE("/screenings/:id", s.CancelScreening)
    g.GET("/rooms/:id/screenings", s.ListRoomScreenings)
}

// RegisterPayments registers the gateway callback.  It is authenticated by
// the shared webhook secret inside the handler, not by JWT.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler) {
    e.POST("/v1/payments/callback", p.Callback)
}
