package httpapi

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// requireIngestToken gates write endpoints behind the shared ingest secret.
// The comparison is constant-time so the token cannot be probed byte by byte.
func (s *Server) requireIngestToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return failUnauthorized(c)
			}
			presented := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if presented == "" {
				return failUnauthorized(c)
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(s.ingestToken)) != 1 {
				return failUnauthorized(c)
			}
			return next(c)
		}
	}
}
