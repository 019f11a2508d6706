package middleware

import (
    "fmt"
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token issued by the identity service and
// stores its subject and role claims in the request context under "user_id"
// and "role". The secret must match the HS256 key the identity service signs
// with. Wrap protected routes with it so handlers can read the caller via
// c.Get("user_id").
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Claims may arrive as string or number depending on the issuer;
            // normalize to strings so downstream code has one shape to handle.
            c.Set("user_id", claimString(claims, "sub"))
            c.Set("role", claimString(claims, "role"))
            return next(c)
        }
    }
}

func claimString(claims jwt.MapClaims, key string) string {
    switch v := claims[key].(type) {
    case string:
        return v
    case float64:
        return fmt.Sprintf("%.0f", v)
    default:
        return ""
    }
}
