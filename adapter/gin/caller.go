package ginadapter

import (
	"net/http"

	"github.com/bsv-blockchain/go-samplepay/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// CallerIdentification creates a Gin handler that puts the identified calling application into the request context.
// Read it back with middleware.ShouldGetCaller(c.Request.Context()).
func CallerIdentification(identifier middleware.CallerIdentifier, opts ...func(*middleware.CallerIdentificationConfig)) gin.HandlerFunc {
	standardMiddleware := middleware.NewCallerIdentification(identifier, opts...)

	return func(c *gin.Context) {
		handler := standardMiddleware.HTTPHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		if c.Writer.Written() {
			c.Abort()
		}
	}
}
