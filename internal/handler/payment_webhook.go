// This file defines the payment gateway callback.  The gateway confirms or
// rejects a booking asynchronously; authentication is a shared secret, of
// which only the bcrypt hash is configured on our side.

package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/cinetick/cinema-ticketing/internal/booking"
    "github.com/cinetick/cinema-ticketing/internal/utils"
)

// PaymentHandler receives gateway callbacks and feeds them to the engine.
type PaymentHandler struct {
    Engine     *booking.Engine
    SecretHash string
}

// NewPaymentHandler constructs a PaymentHandler.  secretHash is the bcrypt
// hash of the shared webhook secret.
func NewPaymentHandler(engine *booking.Engine, secretHash string) *PaymentHandler {
    if engine == nil || secretHash == "" {
        panic("nil dependency passed to NewPaymentHandler")
    }
    return &PaymentHandler{Engine: engine, SecretHash: secretHash}
}

// Callback handles POST /v1/payments/callback.  A successful result
// finalizes the booking; a failed one releases the hold.  Domain failures
// (expired hold, unknown booking) are reported to the gateway with their
// kind so its retry logic can stop on terminal outcomes.
func (h *PaymentHandler) Callback(c echo.Context) error {
    secret := c.Request().Header.Get("X-Webhook-Secret")
    if secret == "" || !utils.VerifySecret(h.SecretHash, secret) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var res booking.PaymentResult
    if err := c.Bind(&res); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if res.BookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
    }
    if err := h.Engine.HandlePaymentResult(c.Request().Context(), res); err != nil {
        return domainJSON(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "processed"})
}
