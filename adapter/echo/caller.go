package echoadapter

import (
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/middleware"
	"github.com/labstack/echo/v4"
)

// CallerIdentification creates an Echo middleware that puts the identified calling application into the request context.
func CallerIdentification(identifier middleware.CallerIdentifier, opts ...func(*middleware.CallerIdentificationConfig)) echo.MiddlewareFunc {
	standardMiddleware := middleware.NewCallerIdentification(identifier, opts...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var nextErr error
			handler := standardMiddleware.HTTPHandler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				nextErr = next(c)
			}))

			handler.ServeHTTP(c.Response(), c.Request())
			return nextErr
		}
	}
}
